// Package pgnotify delivers queue wake-ups over PostgreSQL LISTEN/NOTIFY, so streamers can be
// woken when the event store itself has no pub/sub.
package pgnotify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

const (
	minReconnectInterval = 100 * time.Millisecond
	maxReconnectInterval = 10 * time.Second
	subscriptionBuffer   = 16
)

// Notifier implements ports.EventNotifier. Each Subscribe opens its own listener connection.
type Notifier struct {
	db     *sql.DB
	dsn    string
	logger *slog.Logger
}

// Open connects with lib/pq; dsn is a libpq connection string or URL.
func Open(dsn string, logger *slog.Logger) (*Notifier, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open notify connection: %w", err)
	}
	return &Notifier{
		db:     db,
		dsn:    dsn,
		logger: logger.With("component", "PgNotifier"),
	}, nil
}

func (n *Notifier) Close() error {
	return n.db.Close()
}

func (n *Notifier) Notify(ctx context.Context, key string) error {
	if _, err := n.db.ExecContext(ctx, "SELECT pg_notify($1, $2)", key, key); err != nil {
		return fmt.Errorf("notify %s: %w", key, err)
	}
	return nil
}

// Subscribe listens on keys until ctx is done. Notifications that arrive while the consumer
// is busy are dropped; a reconnect is reported as a notification on every key.
func (n *Notifier) Subscribe(ctx context.Context, keys ...string) (<-chan string, error) {
	listener := pq.NewListener(n.dsn, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				n.logger.WarnContext(ctx, "listener event", "event", int(ev), "error", err)
			}
		})

	for _, key := range keys {
		if err := listener.Listen(key); err != nil {
			_ = listener.Close()
			return nil, fmt.Errorf("listen %s: %w", key, err)
		}
	}

	out := make(chan string, subscriptionBuffer)
	go func() {
		defer close(out)
		defer listener.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case notification := <-listener.Notify:
				// nil after a reconnect: anything may have been missed
				if notification == nil {
					for _, key := range keys {
						send(out, key)
					}
					continue
				}
				send(out, notification.Extra)
			}
		}
	}()

	return out, nil
}

func send(out chan<- string, key string) {
	select {
	case out <- key:
	default:
	}
}
