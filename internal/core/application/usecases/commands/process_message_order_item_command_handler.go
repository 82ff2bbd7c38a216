package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/task"
	"notice/internal/core/ports"
	"notice/internal/metrics"
	"notice/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

var (
	// ErrTaskNotFound means the item points at a task that does not exist.
	// The item is left untouched.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskWaitTimeout means the task did not reach a terminal status within
	// the wait policy.
	ErrTaskWaitTimeout = errors.New("timed out waiting for task to finish")

	errTaskNotTerminal = errors.New("task is not terminal yet")
)

// ItemWaitPolicy bounds how long an item waits for its task. Polling backs off
// exponentially from InitialInterval up to MaxInterval and stops after
// MaxAttempts reads or MaxWait, whichever comes first.
type ItemWaitPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxAttempts     int
	MaxWait         time.Duration
}

func DefaultItemWaitPolicy() ItemWaitPolicy {
	return ItemWaitPolicy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		MaxAttempts:     10,
		MaxWait:         2 * time.Minute,
	}
}

func (p ItemWaitPolicy) backOff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = p.MaxWait
	b.Reset()

	retries := max(p.MaxAttempts-1, 0)
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// ProcessMessageOrderItemCommandHandler checks one item: it waits for the
// linked task to reach a terminal status and records the item as FINISHED, or
// as ERROR when anything goes wrong.
//
// Example:
//
//	handler := NewProcessMessageOrderItemCommandHandler(uowFactory, DefaultItemWaitPolicy(), m, logger)
//	cmd, _ := NewProcessMessageOrderItemCommand(item)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    // item did not succeed; err tells why
//	}
type ProcessMessageOrderItemCommandHandler struct {
	uowFactory ItemUoWFactory
	policy     ItemWaitPolicy
	metrics    *metrics.Metrics
	logger     *slog.Logger
	now        func() time.Time
}

func NewProcessMessageOrderItemCommandHandler(
	uowFactory ItemUoWFactory,
	policy ItemWaitPolicy,
	m *metrics.Metrics,
	logger *slog.Logger,
) ProcessMessageOrderItemCommandHandler {
	return ProcessMessageOrderItemCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		metrics:    m,
		logger:     logger.With("component", "item_processor"),
		now:        time.Now,
	}
}

// Handle returns nil when the item counts as succeeded. An item already
// FINISHED succeeds without a write.
func (h ProcessMessageOrderItemCommandHandler) Handle(ctx context.Context, cmd ProcessMessageOrderItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	item := cmd.Item()
	if item.IsFinished() {
		h.metrics.ItemsProcessed.WithLabelValues("succeeded").Inc()
		return nil
	}

	uow := h.uowFactory.Create()
	itemRepo := uow.MessageOrderItemRepository()

	_, err := h.waitForTask(ctx, uow.TaskRepository(), item.TaskID())
	if errors.Is(err, ErrTaskNotFound) {
		h.metrics.ItemsProcessed.WithLabelValues("failed").Inc()
		return err
	}
	if err != nil {
		h.fail(ctx, itemRepo, cmd, err)
		return err
	}

	item.Finish(h.now())
	if err = itemRepo.Update(ctx, item); err != nil {
		err = fmt.Errorf("save finished item %s: %w", item.ID(), err)
		h.fail(ctx, itemRepo, cmd, err)
		return err
	}

	h.metrics.ItemsProcessed.WithLabelValues("succeeded").Inc()
	return nil
}

func (h ProcessMessageOrderItemCommandHandler) waitForTask(
	ctx context.Context,
	repo ports.TaskRepository,
	taskID kernel.UUID,
) (*task.Task, error) {
	var found *task.Task

	operation := func() error {
		t, err := repo.Get(ctx, taskID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return backoff.Permanent(fmt.Errorf("%w: %s", ErrTaskNotFound, taskID))
		}
		if err != nil {
			return backoff.Permanent(fmt.Errorf("load task %s: %w", taskID, err))
		}
		if !t.IsTerminal() {
			return errTaskNotTerminal
		}
		found = t
		return nil
	}

	err := backoff.Retry(operation, h.policy.backOff(ctx))
	if errors.Is(err, errTaskNotTerminal) {
		return nil, fmt.Errorf("%w: task %s", ErrTaskWaitTimeout, taskID)
	}
	if err != nil {
		return nil, err
	}
	return found, nil
}

// fail marks the item ERROR. The write is best effort: the item already
// counts as failed whether or not it is saved.
func (h ProcessMessageOrderItemCommandHandler) fail(
	ctx context.Context,
	repo ports.MessageOrderItemRepository,
	cmd ProcessMessageOrderItemCommand,
	cause error,
) {
	item := cmd.Item()
	item.Fail()

	outcome := "failed"
	if errors.Is(cause, ErrTaskWaitTimeout) {
		outcome = "timed_out"
	}
	h.metrics.ItemsProcessed.WithLabelValues(outcome).Inc()

	h.logger.WarnContext(ctx, "Message order item failed",
		"item_id", item.ID().String(),
		"order_id", item.OrderID().String(),
		"task_id", item.TaskID().String(),
		"error", cause,
	)

	if err := repo.Update(context.WithoutCancel(ctx), item); err != nil {
		h.logger.ErrorContext(ctx, "Failed to save item error status",
			"item_id", item.ID().String(),
			"error", err,
		)
	}
}
