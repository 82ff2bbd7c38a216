// Package commands contains the operations that change message order state:
// intake, dispatching, per-order and per-item processing, and notification.
// Every handler follows the same shape: validate the command, open a unit of
// work, mutate aggregates, commit.
package commands

import (
	"context"

	"notice/internal/core/ports"
)

// Unit of Work views. Each handler depends on the narrowest view it needs;
// ports.UnitOfWork satisfies all of them.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	MessageOrderRepoFactory interface {
		MessageOrderRepository() ports.MessageOrderRepository
	}

	MessageOrderItemRepoFactory interface {
		MessageOrderItemRepository() ports.MessageOrderItemRepository
	}

	TaskRepoFactory interface {
		TaskRepository() ports.TaskRepository
	}

	NoticeSummaryRepoFactory interface {
		NoticeSummaryRepository() ports.NoticeSummaryRepository
	}

	// OrderUoW covers operations on orders and their items.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.MessageOrderRepository()
	//   itemRepo := uow.MessageOrderItemRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	OrderUoW interface {
		TxManager
		MessageOrderRepoFactory
		MessageOrderItemRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// ItemUoW covers the item check: reading the linked task and writing the item.
	ItemUoW interface {
		TxManager
		MessageOrderItemRepoFactory
		TaskRepoFactory
	}

	ItemUoWFactory interface {
		Create() ItemUoW
	}

	// NoticeUoW covers the read-only aggregates behind a notification.
	NoticeUoW interface {
		TxManager
		NoticeSummaryRepoFactory
	}

	NoticeUoWFactory interface {
		Create() NoticeUoW
	}
)
