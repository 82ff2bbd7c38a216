package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	httpin "notice/internal/adapters/in/http"
	"notice/internal/adapters/out/kafka"
	"notice/internal/adapters/out/logsink"
	"notice/internal/adapters/out/memory"
	"notice/internal/adapters/out/postgres"
	"notice/internal/core/application/usecases/commands"
	"notice/internal/core/application/usecases/queries"
	"notice/internal/core/ports"
	"notice/internal/jobs"
	"notice/internal/metrics"
	"notice/internal/pkg/inflight"
	"notice/internal/pkg/workerpool"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
)

// NoticeSender is a notification transport that holds resources until closed.
type NoticeSender interface {
	ports.NoticeSender
	Close() error
}

// CompositionRoot owns the long-lived collaborators of the service. The
// registry, the pool and the dispatcher are created once, so manual and
// scheduled ticks see the same claims and never overlap.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	gormDB      *gorm.DB
	memoryStore *memory.Store
	uowFactory  ports.UnitOfWorkFactory

	metrics    *metrics.Metrics
	registry   *inflight.Registry
	pool       *workerpool.Pool
	sender     NoticeSender
	dispatcher commands.DispatchMessageOrdersCommandHandler
}

// NewCompositionRoot wires the service against PostgreSQL when gormDB is
// set and against the in-memory store otherwise.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	reg prometheus.Registerer,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	pool, err := workerpool.New(cfg.WorkerPoolSize, logger)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		gormDB:   gormDB,
		metrics:  metrics.New(reg),
		registry: inflight.NewRegistry(),
		pool:     pool,
	}

	if gormDB != nil {
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
	} else {
		c.memoryStore = memory.NewStore()
		c.uowFactory = memory.NewUnitOfWorkFactory(c.memoryStore)
	}

	if len(cfg.KafkaBrokers) > 0 {
		c.sender = kafka.NewNoticeSender(cfg.KafkaBrokers, cfg.KafkaNoticeTopic, logger)
	} else {
		c.sender = logsink.NewNoticeSender(logger)
	}

	c.dispatcher = commands.NewDispatchMessageOrdersCommandHandler(
		c.orderUoWFactory(),
		c.registry,
		c.pool,
		c.CreateProcessMessageOrderCommandHandler(),
		cfg.NoticeBatchSize,
		c.metrics,
		otel.Tracer("notice/dispatcher"),
		logger,
	)

	logger.Info("Dispatcher ready", "pool_size", pool.Size(), "batch_size", cfg.NoticeBatchSize)

	return c, nil
}

func (c *CompositionRoot) Registry() *inflight.Registry {
	return c.registry
}

func (c *CompositionRoot) CreateCreateMessageOrderCommandHandler() commands.CreateMessageOrderCommandHandler {
	return commands.NewCreateMessageOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateProcessMessageOrderItemCommandHandler() commands.ProcessMessageOrderItemCommandHandler {
	var f commands.ItemUoWFactory = FuncItemUoWFactory(func() commands.ItemUoW {
		return c.uowFactory.Create()
	})
	return commands.NewProcessMessageOrderItemCommandHandler(f, c.cfg.ItemWaitPolicy(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateNotifyMessageOrderCommandHandler() commands.NotifyMessageOrderCommandHandler {
	var f commands.NoticeUoWFactory = FuncNoticeUoWFactory(func() commands.NoticeUoW {
		return c.uowFactory.Create()
	})
	return commands.NewNotifyMessageOrderCommandHandler(f, c.sender, c.cfg.NoticeTopTasks, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateProcessMessageOrderCommandHandler() commands.ProcessMessageOrderCommandHandler {
	return commands.NewProcessMessageOrderCommandHandler(
		c.orderUoWFactory(),
		c.CreateProcessMessageOrderItemCommandHandler(),
		c.CreateNotifyMessageOrderCommandHandler(),
		c.cfg.ItemConcurrency,
		c.metrics,
		c.logger,
	)
}

// CreateDispatchMessageOrdersCommandHandler returns the one dispatcher shared
// by the cron job and the HTTP tick endpoint.
func (c *CompositionRoot) CreateDispatchMessageOrdersCommandHandler() commands.DispatchMessageOrdersCommandHandler {
	return c.dispatcher
}

// CreateGetMessageOrdersQueryHandler reads from whichever store is wired.
func (c *CompositionRoot) CreateGetMessageOrdersQueryHandler() httpin.MessageOrdersReader {
	if c.gormDB != nil {
		return queries.NewGetMessageOrdersQueryHandler(c.gormDB)
	}
	return memory.NewGetMessageOrdersQueryHandler(c.memoryStore)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateDispatchMessageOrdersCommandHandler(), c.cfg.NoticeCron, c.logger)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateMessageOrderCommandHandler(),
		c.CreateDispatchMessageOrdersCommandHandler(),
		c.CreateGetMessageOrdersQueryHandler(),
		c.registry,
		c.pool.Size(),
		c.logger,
	)
}

// Shutdown waits for in-flight orders until ctx expires, then closes the
// notification transport. Jobs must be stopped first so nothing new is
// submitted.
func (c *CompositionRoot) Shutdown(ctx context.Context) error {
	poolErr := c.pool.Shutdown(ctx)
	if poolErr != nil {
		c.logger.WarnContext(ctx, "Worker pool did not drain before timeout",
			"in_flight", c.registry.Len(), "error", poolErr)
	}
	return errors.Join(poolErr, c.sender.Close())
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncItemUoWFactory func() commands.ItemUoW

func (f FuncItemUoWFactory) Create() commands.ItemUoW {
	return f()
}

type FuncNoticeUoWFactory func() commands.NoticeUoW

func (f FuncNoticeUoWFactory) Create() commands.NoticeUoW {
	return f()
}
