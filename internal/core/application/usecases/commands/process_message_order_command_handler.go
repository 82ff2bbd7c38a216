package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"notice/internal/core/domain/model/messageorder"
	"notice/internal/core/domain/services"
	"notice/internal/metrics"

	"golang.org/x/sync/errgroup"
)

type (
	// ItemProcessor is satisfied by ProcessMessageOrderItemCommandHandler.
	ItemProcessor interface {
		Handle(ctx context.Context, cmd ProcessMessageOrderItemCommand) error
	}

	// OrderNotifier is satisfied by NotifyMessageOrderCommandHandler.
	OrderNotifier interface {
		Handle(ctx context.Context, cmd NotifyMessageOrderCommand) error
	}
)

// ProcessMessageOrderCommandHandler drives one processing attempt of an order:
// it checks every item, applies services.DecideOrderOutcome, persists the
// terminal status and triggers the notification.
//
// Handled failures do not surface as errors. Handle reports the status the
// order ended with; only an invalid command is returned as an error.
//
// Example:
//
//	handler := NewProcessMessageOrderCommandHandler(uowFactory, itemHandler, notifier, 4, m, logger)
//	cmd, _ := NewProcessMessageOrderCommand(order)
//	status, err := handler.Handle(ctx, cmd)
//	switch status {
//	case messageorder.Finished:
//	    // every item finished, notification sent
//	case messageorder.Error:
//	    // at least one item failed, notification sent
//	case messageorder.Processing:
//	    // no items, nothing changed
//	}
//
// An order whose stored status is no longer PROCESSING is left alone: no item
// is checked, nothing is written and no notification goes out.
type ProcessMessageOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	items           ItemProcessor
	notifier        OrderNotifier
	itemConcurrency int
	metrics         *metrics.Metrics
	logger          *slog.Logger
	now             func() time.Time
}

func NewProcessMessageOrderCommandHandler(
	uowFactory OrderUoWFactory,
	items ItemProcessor,
	notifier OrderNotifier,
	itemConcurrency int,
	m *metrics.Metrics,
	logger *slog.Logger,
) ProcessMessageOrderCommandHandler {
	return ProcessMessageOrderCommandHandler{
		uowFactory:      uowFactory,
		items:           items,
		notifier:        notifier,
		itemConcurrency: max(itemConcurrency, 1),
		metrics:         m,
		logger:          logger.With("component", "order_processor"),
		now:             time.Now,
	}
}

func (h ProcessMessageOrderCommandHandler) Handle(
	ctx context.Context,
	cmd ProcessMessageOrderCommand,
) (messageorder.Status, error) {
	if err := cmd.Validate(); err != nil {
		return messageorder.Unknown, err
	}

	order := cmd.Order()
	logger := h.logger.With("order_id", order.ID().String())

	uow := h.uowFactory.Create()

	stored, err := uow.MessageOrderRepository().Get(ctx, order.ID())
	if err != nil {
		return h.fail(ctx, logger, order, fmt.Errorf("load order: %w", err)), nil
	}
	if stored.Status() != messageorder.Processing {
		logger.InfoContext(ctx, "Message order already left processing, skipping",
			"status", stored.Status().String(),
		)
		return stored.Status(), nil
	}

	items, err := uow.MessageOrderItemRepository().ListByOrder(ctx, order.ID())
	if err != nil {
		return h.fail(ctx, logger, order, fmt.Errorf("load items: %w", err)), nil
	}

	succeeded := h.processItems(ctx, logger, items)

	decision, err := services.DecideOrderOutcome(len(items), succeeded)
	if err != nil {
		return h.fail(ctx, logger, order, err), nil
	}

	switch decision.Outcome {
	case services.OutcomeSkip:
		logger.DebugContext(ctx, "Message order has no items, skipping")
		return order.Status(), nil

	case services.OutcomeFinish:
		finished, finishErr := h.finish(ctx, order)
		if errors.Is(finishErr, messageorder.ErrOrderIsNotProcessing) {
			return h.concludedElsewhere(ctx, logger, order), nil
		}
		if finishErr != nil {
			return h.fail(ctx, logger, order, finishErr), nil
		}
		logger.InfoContext(ctx, "Message order finished", "items", len(items))
		h.metrics.OrdersProcessed.WithLabelValues(finished.Status().String()).Inc()
		h.notify(ctx, logger, finished)
		return finished.Status(), nil

	default:
		return h.fail(ctx, logger, order, decision.Reason), nil
	}
}

// processItems runs the item processor for every item, at most
// itemConcurrency at a time, and returns how many succeeded.
func (h ProcessMessageOrderCommandHandler) processItems(
	ctx context.Context,
	logger *slog.Logger,
	items []*messageorder.Item,
) int {
	var succeeded atomic.Int64

	var g errgroup.Group
	g.SetLimit(h.itemConcurrency)

	for _, item := range items {
		g.Go(func() error {
			cmd, err := NewProcessMessageOrderItemCommand(item)
			if err == nil {
				err = h.items.Handle(ctx, cmd)
			}
			if err != nil {
				logger.InfoContext(ctx, "Message order item did not succeed",
					"item_id", item.ID().String(),
					"error", err,
				)
				return nil
			}
			succeeded.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(succeeded.Load())
}

// finish persists FINISHED on a copy, so the caller's order stays PROCESSING
// and can still be failed if the write does not go through.
func (h ProcessMessageOrderCommandHandler) finish(
	ctx context.Context,
	order *messageorder.Order,
) (*messageorder.Order, error) {
	finished := order.Clone()
	if err := finished.Finish(h.now()); err != nil {
		return nil, err
	}

	if err := h.save(ctx, finished); err != nil {
		return nil, fmt.Errorf("save finished order: %w", err)
	}
	return finished, nil
}

// fail marks the order ERROR, persists it and notifies. The notification goes
// out even when the write fails.
func (h ProcessMessageOrderCommandHandler) fail(
	ctx context.Context,
	logger *slog.Logger,
	order *messageorder.Order,
	cause error,
) messageorder.Status {
	if err := order.Fail(h.now()); err != nil {
		logger.ErrorContext(ctx, "Message order cannot be failed",
			"status", order.Status().String(),
			"cause", cause,
			"error", err,
		)
		return order.Status()
	}

	err := h.save(context.WithoutCancel(ctx), order)
	if errors.Is(err, messageorder.ErrOrderIsNotProcessing) {
		return h.concludedElsewhere(ctx, logger, order)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to save message order error status", "error", err)
	}

	logger.WarnContext(ctx, "Message order failed", "error", cause)
	h.metrics.OrdersProcessed.WithLabelValues(order.Status().String()).Inc()

	h.notify(ctx, logger, order)
	return order.Status()
}

// concludedElsewhere handles a terminal write refused because another attempt
// already moved the order out of PROCESSING. That attempt owns the
// notification, so none is sent here.
func (h ProcessMessageOrderCommandHandler) concludedElsewhere(
	ctx context.Context,
	logger *slog.Logger,
	order *messageorder.Order,
) messageorder.Status {
	stored, err := h.uowFactory.Create().MessageOrderRepository().Get(context.WithoutCancel(ctx), order.ID())
	if err != nil {
		logger.WarnContext(ctx, "Message order was concluded by another attempt", "error", err)
		return messageorder.Unknown
	}

	logger.InfoContext(ctx, "Message order was concluded by another attempt",
		"status", stored.Status().String(),
	)
	return stored.Status()
}

func (h ProcessMessageOrderCommandHandler) save(ctx context.Context, order *messageorder.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.MessageOrderRepository().Update(ctx, order); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h ProcessMessageOrderCommandHandler) notify(
	ctx context.Context,
	logger *slog.Logger,
	order *messageorder.Order,
) {
	cmd, err := NewNotifyMessageOrderCommand(order)
	if err == nil {
		err = h.notifier.Handle(context.WithoutCancel(ctx), cmd)
	}
	if err != nil {
		logger.ErrorContext(ctx, "Failed to send message order notification", "error", err)
	}
}
