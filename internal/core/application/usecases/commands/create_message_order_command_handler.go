package commands

import (
	"context"
	"time"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
)

// CreateMessageOrderCommandHandler stores a new order in PROCESSING together
// with one PENDING item per task, in a single transaction. The dispatcher
// picks the order up on its next tick.
type CreateMessageOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	now        func() time.Time
}

func NewCreateMessageOrderCommandHandler(uowFactory OrderUoWFactory) CreateMessageOrderCommandHandler {
	return CreateMessageOrderCommandHandler{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

// Handle returns the id of the created order.
func (h CreateMessageOrderCommandHandler) Handle(ctx context.Context, cmd CreateMessageOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	order, err := messageorder.NewOrder(kernel.NewUUID(), cmd.Name(), cmd.Recipients(), h.now())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = order.Submit(); err != nil {
		return kernel.UUID{}, err
	}

	taskIDs := cmd.TaskIDs()
	items := make([]*messageorder.Item, 0, len(taskIDs))
	for _, taskID := range taskIDs {
		item, itemErr := messageorder.NewItem(kernel.NewUUID(), order.ID(), taskID)
		if itemErr != nil {
			return kernel.UUID{}, itemErr
		}
		items = append(items, item)
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.MessageOrderRepository().Add(ctx, order); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.MessageOrderItemRepository().AddAll(ctx, items); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return order.ID(), nil
}
