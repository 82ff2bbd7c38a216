package memory

import (
	"context"
	"errors"
	"sync"

	"notice/internal/core/ports"
)

// ErrNoTransaction is returned by Commit and Rollback without a prior Begin.
var ErrNoTransaction = errors.New("no active transaction")

type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork buffers writes between Begin and Commit and applies them in
// order. Reads always see committed state. Without Begin, writes apply
// immediately.
type UnitOfWork struct {
	store *Store

	mu      sync.Mutex
	active  bool
	pending []func() error
}

func (u *UnitOfWork) Begin(ctx context.Context) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	u.active = true
	return nil
}

// Commit applies buffered writes. The first failing write stops the commit;
// writes applied before it stay applied.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.active {
		return ErrNoTransaction
	}
	pending := u.pending
	u.active = false
	u.pending = nil

	if err := checkContext(ctx); err != nil {
		return err
	}
	for _, write := range pending {
		if err := write(); err != nil {
			return err
		}
	}
	return nil
}

func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.active {
		return ErrNoTransaction
	}
	u.active = false
	u.pending = nil
	return nil
}

func (u *UnitOfWork) MessageOrderRepository() ports.MessageOrderRepository {
	return &MessageOrderRepository{store: u.store, uow: u}
}

func (u *UnitOfWork) MessageOrderItemRepository() ports.MessageOrderItemRepository {
	return &MessageOrderItemRepository{store: u.store, uow: u}
}

func (u *UnitOfWork) TaskRepository() ports.TaskRepository {
	return &TaskRepository{store: u.store}
}

func (u *UnitOfWork) NoticeSummaryRepository() ports.NoticeSummaryRepository {
	return &NoticeSummaryRepository{store: u.store}
}

// write runs fn now or defers it to Commit, depending on whether a
// transaction is active.
func (u *UnitOfWork) write(ctx context.Context, fn func() error) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	u.mu.Lock()
	if u.active {
		u.pending = append(u.pending, fn)
		u.mu.Unlock()
		return nil
	}
	u.mu.Unlock()

	return fn()
}
