package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"notice/internal/core/domain/model/messageorder"
	"notice/internal/metrics"
	"notice/internal/pkg/inflight"
	"notice/internal/pkg/workerpool"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultDispatchBatchSize is the number of orders listed per tick.
const DefaultDispatchBatchSize = 10

// ErrDispatchTickInProgress is returned when a tick starts while another one
// is still listing and claiming orders.
var ErrDispatchTickInProgress = errors.New("dispatch tick already in progress")

type (
	// OrderProcessor is satisfied by ProcessMessageOrderCommandHandler.
	OrderProcessor interface {
		Handle(ctx context.Context, cmd ProcessMessageOrderCommand) (messageorder.Status, error)
	}

	// Submitter is satisfied by *workerpool.Pool.
	Submitter interface {
		Submit(task workerpool.Task) error
	}
)

// DispatchResult summarises one tick.
type DispatchResult struct {
	Listed    int  `json:"listed"`
	Submitted int  `json:"submitted"`
	Contended int  `json:"contended"`
	Saturated bool `json:"saturated"`
}

// DispatchMessageOrdersCommandHandler is the poll loop body. Each tick lists
// PROCESSING orders that are not in flight, claims them one by one and hands
// a copy of each to the worker pool. The claim is released when the worker is
// done, whatever the outcome.
//
// When the pool refuses work the claim is released and the rest of the batch
// waits for the next tick.
//
// Ticks of one handler, and of its copies, never overlap: a tick that finds
// another one running returns ErrDispatchTickInProgress without listing.
type DispatchMessageOrdersCommandHandler struct {
	tickMu     *sync.Mutex
	uowFactory OrderUoWFactory
	registry   *inflight.Registry
	pool       Submitter
	processor  OrderProcessor
	batchSize  int
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

func NewDispatchMessageOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	registry *inflight.Registry,
	pool Submitter,
	processor OrderProcessor,
	batchSize int,
	m *metrics.Metrics,
	tracer trace.Tracer,
	logger *slog.Logger,
) DispatchMessageOrdersCommandHandler {
	if batchSize <= 0 {
		batchSize = DefaultDispatchBatchSize
	}

	return DispatchMessageOrdersCommandHandler{
		tickMu:     &sync.Mutex{},
		uowFactory: uowFactory,
		registry:   registry,
		pool:       pool,
		processor:  processor,
		batchSize:  batchSize,
		metrics:    m,
		tracer:     tracer,
		logger:     logger.With("component", "dispatcher"),
	}
}

// Handle runs one tick. It returns an error when the listing query fails or
// when another tick is in progress.
func (h DispatchMessageOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchMessageOrdersCommand,
) (DispatchResult, error) {
	if err := cmd.Validate(); err != nil {
		return DispatchResult{}, err
	}

	if !h.tickMu.TryLock() {
		h.metrics.TicksTotal.WithLabelValues("skipped").Inc()
		return DispatchResult{}, ErrDispatchTickInProgress
	}
	defer h.tickMu.Unlock()

	ctx, span := h.tracer.Start(ctx, "notice.dispatch")
	defer span.End()

	var result DispatchResult

	orders, err := h.uowFactory.Create().MessageOrderRepository().ListProcessing(
		ctx, h.registry.Snapshot(), h.batchSize,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list processing orders")
		h.metrics.TicksTotal.WithLabelValues("error").Inc()
		return result, fmt.Errorf("list processing orders: %w", err)
	}
	result.Listed = len(orders)

	for _, order := range orders {
		id := order.ID()

		if !h.registry.TryClaim(id) {
			result.Contended++
			h.metrics.ClaimContention.Inc()
			continue
		}
		h.metrics.InFlight.Set(float64(h.registry.Len()))

		if err = h.pool.Submit(h.unit(span.SpanContext(), order.Clone())); err != nil {
			h.registry.Release(id)
			h.metrics.InFlight.Set(float64(h.registry.Len()))
			h.metrics.PoolRejections.Inc()
			result.Saturated = true

			if !errors.Is(err, workerpool.ErrPoolSaturated) {
				h.logger.WarnContext(ctx, "Worker pool refused message order",
					"order_id", id.String(),
					"error", err,
				)
			}
			break
		}

		result.Submitted++
		h.metrics.OrdersClaimed.Inc()
	}

	span.SetAttributes(
		attribute.Int("orders.listed", result.Listed),
		attribute.Int("orders.submitted", result.Submitted),
		attribute.Bool("pool.saturated", result.Saturated),
	)
	h.metrics.TicksTotal.WithLabelValues("ok").Inc()

	if result.Submitted > 0 || result.Saturated {
		h.logger.InfoContext(ctx, "Dispatched message orders",
			"listed", result.Listed,
			"submitted", result.Submitted,
			"contended", result.Contended,
			"saturated", result.Saturated,
		)
	}

	return result, nil
}

// unit is the work submitted for one claimed order. It runs on the pool's
// context, linked to the tick span, and always releases the claim.
func (h DispatchMessageOrdersCommandHandler) unit(
	tick trace.SpanContext,
	order *messageorder.Order,
) workerpool.Task {
	return func(ctx context.Context) {
		id := order.ID()

		defer func() {
			h.registry.Release(id)
			h.metrics.InFlight.Set(float64(h.registry.Len()))
		}()

		ctx, span := h.tracer.Start(ctx, "notice.process_order",
			trace.WithLinks(trace.Link{SpanContext: tick}),
			trace.WithAttributes(attribute.String("order.id", id.String())),
		)
		defer span.End()

		cmd, err := NewProcessMessageOrderCommand(order)
		if err != nil {
			span.RecordError(err)
			h.logger.ErrorContext(ctx, "Invalid message order", "order_id", id.String(), "error", err)
			return
		}

		status, err := h.processor.Handle(ctx, cmd)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "process order")
			h.logger.ErrorContext(ctx, "Message order processing failed", "order_id", id.String(), "error", err)
			return
		}
		span.SetAttributes(attribute.String("order.status", status.String()))
	}
}
