package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/eventstore"
	"fulfillment/internal/adapters/out/marketplace"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/pgnotify"
	"fulfillment/internal/core/application/eventqueue"
	"fulfillment/internal/core/application/pipeline"
	"fulfillment/internal/core/application/streaming"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/generated/servers"
	"fulfillment/internal/jobs"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	queue     *eventqueue.Queue
	publisher *eventqueue.Publisher
	simulator *marketplace.Simulator
	policy    pipeline.FailurePolicy
	pool      *jobs.OrderHandlingPool

	closers []func() error
}

// NewCompositionRoot connects the event store and the optional wake-up notifier and builds the
// shared components. Close releases the connections it opened.
func NewCompositionRoot(ctx context.Context, cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	policy, err := pipeline.ParseFailurePolicy(cfg.FailurePolicy)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		policy:     policy,
	}

	store, storeNotifier, err := c.openEventStore(ctx)
	if err != nil {
		return nil, err
	}

	var opts []eventqueue.Option
	switch cfg.EventWakeup {
	case WakeupStore:
		opts = append(opts, eventqueue.WithNotifier(storeNotifier))
	case WakeupPostgres:
		notifier, notifyErr := pgnotify.Open(cfg.DSN(), logger)
		if notifyErr != nil {
			return nil, errors.Join(notifyErr, c.Close())
		}
		c.closers = append(c.closers, notifier.Close)
		opts = append(opts, eventqueue.WithNotifier(notifier))
	}

	c.queue = eventqueue.NewQueue(store, cfg.EventNamespace, logger, opts...)
	c.publisher = eventqueue.NewPublisher(c.queue)
	c.simulator = marketplace.NewSimulator(marketplace.Config{
		Latency:            cfg.SimLatency,
		ShipmentFailurePct: cfg.SimShipmentFailurePct,
		TrackingFailurePct: cfg.SimTrackingFailurePct,
		ShippedFailurePct:  cfg.SimShippedFailurePct,
	}, logger)

	handler := c.CreateHandleOrderCommandHandler()
	c.pool = jobs.NewOrderHandlingPool(func(ctx context.Context, orderID kernel.UUID) error {
		cmd, cmdErr := commands.NewHandleOrderCommand(orderID)
		if cmdErr != nil {
			return cmdErr
		}
		return handler.Handle(ctx, cmd)
	}, cfg.WorkerCount, cfg.WorkerQueueSize, logger)

	return c, nil
}

type storeWithNotifier interface {
	ports.EventStore
	ports.EventNotifier
}

func (c *CompositionRoot) openEventStore(ctx context.Context) (ports.EventStore, ports.EventNotifier, error) {
	var store storeWithNotifier
	switch c.cfg.EventStore {
	case EventStoreRedis:
		client, err := eventstore.NewRedisClient(ctx, c.cfg.RedisAddr)
		if err != nil {
			return nil, nil, fmt.Errorf("connect event store: %w", err)
		}
		c.closers = append(c.closers, client.Close)
		store = eventstore.NewRedisStore(client)
	default:
		store = eventstore.NewMemoryStore()
	}
	return store, store, nil
}

// Close releases connections in reverse order of opening.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, c.closers[i]())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) CreateCreateOrdersCommandHandler() commands.CreateOrdersCommandHandler {
	var f commands.BatchUoWFactory = FuncBatchUoWFactory(func() commands.BatchUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrdersCommandHandler(f, c.publisher, c.logger)
}

func (c *CompositionRoot) CreateHandleOrdersCommandHandler() commands.HandleOrdersCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewHandleOrdersCommandHandler(f, c.publisher, c.pool, c.logger)
}

func (c *CompositionRoot) CreateHandleOrderCommandHandler() commands.HandleOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	executor := pipeline.NewExecutor(c.uowFactory, c.publisher, c.logger)
	stages := pipeline.DefaultStages(c.uowFactory, c.simulator, c.simulator, time.Now)
	return commands.NewHandleOrderCommandHandler(f, executor, stages, c.publisher, c.policy, c.logger)
}

func (c *CompositionRoot) CreateGetFulfillmentHistoryQueryHandler() queries.GetFulfillmentHistoryQueryHandler {
	return queries.NewGetFulfillmentHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateStreamer() *streaming.Streamer {
	return streaming.NewStreamer(c.queue, c.logger, streaming.WithPollInterval(c.cfg.StreamPollInterval))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	trimJob := jobs.NewEventTrimJob(c.queue, c.cfg.EventTrimSchedule, c.cfg.EventMaxBacklog, c.logger)
	return jobs.NewJobManager(c.pool, trimJob)
}

func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	doc, err := servers.GetSwagger()
	if err != nil {
		return nil, err
	}

	server := httpin.NewServer(
		c.CreateCreateOrdersCommandHandler(),
		c.CreateHandleOrdersCommandHandler(),
		c.CreateGetFulfillmentHistoryQueryHandler(),
		c.CreateStreamer(),
		httpin.NewBodyValidator(doc),
		c.logger,
	)
	return httpin.NewRouter(server, doc)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncBatchUoWFactory func() commands.BatchUoW

func (f FuncBatchUoWFactory) Create() commands.BatchUoW {
	return f()
}
