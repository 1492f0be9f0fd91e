package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"fulfillment/internal/core/domain/model/kernel"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultWorkerCount = 4
	DefaultQueueSize   = 256
)

// ErrPoolStopped is returned by Schedule once Stop has been called.
var ErrPoolStopped = errors.New("order handling pool is stopped")

// OrderHandler runs the handling pipeline for one order.
type OrderHandler func(ctx context.Context, orderID kernel.UUID) error

// OrderHandlingPool runs handling for scheduled orders on a fixed number of workers.
// It implements ports.OrderScheduler.
type OrderHandlingPool struct {
	handle  OrderHandler
	workers int
	work    chan kernel.UUID

	mu      sync.RWMutex
	started bool
	stopped bool
	group   *errgroup.Group

	logger *slog.Logger
}

// NewOrderHandlingPool creates a pool with workers goroutines and room for queueSize waiting
// orders. Non-positive sizes fall back to the defaults.
func NewOrderHandlingPool(handle OrderHandler, workers, queueSize int, logger *slog.Logger) *OrderHandlingPool {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &OrderHandlingPool{
		handle:  handle,
		workers: workers,
		work:    make(chan kernel.UUID, queueSize),
		logger:  logger.With("component", "order_handling_pool"),
	}
}

// Start launches the workers. Runs use a context detached from ctx: cancelling ctx does not
// abort a run, only Stop ends the pool.
func (p *OrderHandlingPool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolStopped
	}
	if p.started {
		return nil
	}
	p.started = true

	runCtx := context.WithoutCancel(ctx)
	p.group = &errgroup.Group{}
	for i := range p.workers {
		p.group.Go(func() error {
			p.worker(runCtx, i)
			return nil
		})
	}

	p.logger.InfoContext(ctx, "Order handling pool started", "workers", p.workers, "queue_size", cap(p.work))
	return nil
}

// Schedule queues the order and returns without waiting for the run. It blocks while the
// queue is full, until ctx is done.
func (p *OrderHandlingPool) Schedule(ctx context.Context, orderID kernel.UUID) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.stopped {
		return ErrPoolStopped
	}

	select {
	case p.work <- orderID:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("schedule order %s: %w", orderID, ctx.Err())
	}
}

// Stop closes intake and waits for queued and in-flight runs to finish.
func (p *OrderHandlingPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.work)
	group := p.group
	p.mu.Unlock()

	if group != nil {
		_ = group.Wait()
	}
	p.logger.InfoContext(context.Background(), "Order handling pool stopped")
}

func (p *OrderHandlingPool) worker(ctx context.Context, id int) {
	for orderID := range p.work {
		if err := p.handle(ctx, orderID); err != nil {
			p.logger.ErrorContext(ctx, "Order handling failed",
				"worker", id, "order_id", orderID.String(), "error", err)
		}
	}
}
