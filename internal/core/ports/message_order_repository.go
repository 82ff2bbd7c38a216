// Package ports defines the contracts between the notice core and its
// collaborators: the order store, the task store and the notification transport.
package ports

import (
	"context"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
)

// MessageOrderRepository persists message order aggregates.
type MessageOrderRepository interface {
	// Add stores a new order.
	Add(ctx context.Context, order *messageorder.Order) error

	// Update writes the status and send time of an existing order, but only
	// while the stored order is still PROCESSING. Otherwise it writes nothing
	// and returns messageorder.ErrOrderIsNotProcessing.
	Update(ctx context.Context, order *messageorder.Order) error

	// Get returns the order or an errs.ErrObjectNotFound error.
	Get(ctx context.Context, id kernel.UUID) (*messageorder.Order, error)

	// ListProcessing returns up to limit orders in PROCESSING status whose id is
	// not in excludeIDs, oldest create time first.
	//
	// Example:
	//   orders, err := repo.ListProcessing(ctx, registry.Snapshot(), 10)
	ListProcessing(ctx context.Context, excludeIDs []kernel.UUID, limit int) ([]*messageorder.Order, error)
}

// MessageOrderItemRepository persists the items of message orders.
type MessageOrderItemRepository interface {
	// AddAll stores new items.
	AddAll(ctx context.Context, items []*messageorder.Item) error

	// Update writes the status and send time of an existing item. Idempotent.
	Update(ctx context.Context, item *messageorder.Item) error

	// ListByOrder returns every item of the order, possibly none.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*messageorder.Item, error)
}
