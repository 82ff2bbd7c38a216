package memory

import (
	"context"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/core/domain/model/notice"
	"notice/internal/core/domain/model/task"
	"notice/internal/pkg/errs"
)

type MessageOrderRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *MessageOrderRepository) Add(ctx context.Context, order *messageorder.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	snapshot := order.Clone()
	return r.uow.write(ctx, func() error { return r.store.addOrder(snapshot) })
}

func (r *MessageOrderRepository) Update(ctx context.Context, order *messageorder.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}
	snapshot := order.Clone()
	return r.uow.write(ctx, func() error { return r.store.updateOrder(snapshot) })
}

func (r *MessageOrderRepository) Get(ctx context.Context, id kernel.UUID) (*messageorder.Order, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.store.getOrder(id)
}

func (r *MessageOrderRepository) ListProcessing(
	ctx context.Context,
	excludeIDs []kernel.UUID,
	limit int,
) ([]*messageorder.Order, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return r.store.listProcessing(excludeIDs, limit), nil
}

type MessageOrderItemRepository struct {
	store *Store
	uow   *UnitOfWork
}

func (r *MessageOrderItemRepository) AddAll(ctx context.Context, items []*messageorder.Item) error {
	snapshot := make([]*messageorder.Item, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		snapshot = append(snapshot, it.Clone())
	}
	return r.uow.write(ctx, func() error { return r.store.addItems(snapshot) })
}

func (r *MessageOrderItemRepository) Update(ctx context.Context, item *messageorder.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	snapshot := item.Clone()
	return r.uow.write(ctx, func() error { return r.store.updateItem(snapshot) })
}

func (r *MessageOrderItemRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*messageorder.Item, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.store.listItems(orderID), nil
}

type TaskRepository struct {
	store *Store
}

func (r *TaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	return r.store.getTask(id)
}

type NoticeSummaryRepository struct {
	store *Store
}

func (r *NoticeSummaryRepository) Summarize(ctx context.Context, orderID kernel.UUID, topN int) (notice.Summary, error) {
	if err := checkContext(ctx); err != nil {
		return notice.Summary{}, err
	}
	return r.store.summarize(orderID, topN), nil
}
