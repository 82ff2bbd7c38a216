package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per operation so concurrent
// workers never share transaction state.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary over the notice repositories.
// Repositories obtained before Begin, or without calling Begin at all, write
// immediately.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	// Commit returns an error if no transaction is active.
	Commit(ctx context.Context) error

	// Rollback returns an error if no transaction is active.
	Rollback(ctx context.Context) error

	MessageOrderRepository() MessageOrderRepository
	MessageOrderItemRepository() MessageOrderItemRepository
	TaskRepository() TaskRepository
	NoticeSummaryRepository() NoticeSummaryRepository
}
