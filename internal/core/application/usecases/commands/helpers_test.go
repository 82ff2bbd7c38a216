package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"notice/internal/adapters/out/memory"
	"notice/internal/core/application/usecases/commands"
	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/core/domain/model/notice"
	"notice/internal/core/domain/model/task"
	"notice/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastWaitPolicy() commands.ItemWaitPolicy {
	return commands.ItemWaitPolicy{
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		MaxAttempts:     3,
		MaxWait:         time.Second,
	}
}

// Mocks

type MockMessageOrderRepository struct{ mock.Mock }

func (m *MockMessageOrderRepository) Add(ctx context.Context, o *messageorder.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockMessageOrderRepository) Update(ctx context.Context, o *messageorder.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockMessageOrderRepository) Get(ctx context.Context, id kernel.UUID) (*messageorder.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messageorder.Order), args.Error(1)
}

func (m *MockMessageOrderRepository) ListProcessing(
	ctx context.Context,
	excludeIDs []kernel.UUID,
	limit int,
) ([]*messageorder.Order, error) {
	args := m.Called(ctx, excludeIDs, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messageorder.Order), args.Error(1)
}

type MockMessageOrderItemRepository struct{ mock.Mock }

func (m *MockMessageOrderItemRepository) AddAll(ctx context.Context, items []*messageorder.Item) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *MockMessageOrderItemRepository) Update(ctx context.Context, item *messageorder.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMessageOrderItemRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*messageorder.Item, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messageorder.Item), args.Error(1)
}

type MockTaskRepository struct{ mock.Mock }

func (m *MockTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

type MockNoticeSummaryRepository struct{ mock.Mock }

func (m *MockNoticeSummaryRepository) Summarize(ctx context.Context, orderID kernel.UUID, topN int) (notice.Summary, error) {
	args := m.Called(ctx, orderID, topN)
	return args.Get(0).(notice.Summary), args.Error(1)
}

type MockNoticeSender struct{ mock.Mock }

func (m *MockNoticeSender) Send(ctx context.Context, request notice.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

// MockUoW implements every unit of work view used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) MessageOrderRepository() ports.MessageOrderRepository {
	args := m.Called()
	return args.Get(0).(ports.MessageOrderRepository)
}

func (m *MockUoW) MessageOrderItemRepository() ports.MessageOrderItemRepository {
	args := m.Called()
	return args.Get(0).(ports.MessageOrderItemRepository)
}

func (m *MockUoW) TaskRepository() ports.TaskRepository {
	args := m.Called()
	return args.Get(0).(ports.TaskRepository)
}

func (m *MockUoW) NoticeSummaryRepository() ports.NoticeSummaryRepository {
	args := m.Called()
	return args.Get(0).(ports.NoticeSummaryRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockItemUoWFactory struct{ mock.Mock }

func (m *MockItemUoWFactory) Create() commands.ItemUoW {
	args := m.Called()
	return args.Get(0).(commands.ItemUoW)
}

type MockNoticeUoWFactory struct{ mock.Mock }

func (m *MockNoticeUoWFactory) Create() commands.NoticeUoW {
	args := m.Called()
	return args.Get(0).(commands.NoticeUoW)
}

// Views over the in-memory store.

type orderUoWs struct{ f ports.UnitOfWorkFactory }

func (o orderUoWs) Create() commands.OrderUoW { return o.f.Create() }

type itemUoWs struct{ f ports.UnitOfWorkFactory }

func (i itemUoWs) Create() commands.ItemUoW { return i.f.Create() }

type noticeUoWs struct{ f ports.UnitOfWorkFactory }

func (n noticeUoWs) Create() commands.NoticeUoW { return n.f.Create() }

// recordingSender collects every request it is given.
type recordingSender struct {
	mu       sync.Mutex
	requests []notice.Request
	err      error
}

func (s *recordingSender) Send(_ context.Context, request notice.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, request)
	return s.err
}

func (s *recordingSender) Requests() []notice.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notice.Request(nil), s.requests...)
}

// Fixtures

func newTask(t *testing.T, status task.Status, returnSum, resourcesSum int) *task.Task {
	t.Helper()
	tk, err := task.RestoreTask(kernel.NewUUID(), "task-"+status.String(), status, returnSum, resourcesSum)
	require.NoError(t, err)
	return tk
}

func newProcessingOrder(t *testing.T, createdAt time.Time) *messageorder.Order {
	t.Helper()
	o, err := messageorder.NewOrder(kernel.NewUUID(), "nightly scan", []string{"ops@example.com"}, createdAt)
	require.NoError(t, err)
	require.NoError(t, o.Submit())
	return o
}

func newItem(t *testing.T, orderID, taskID kernel.UUID) *messageorder.Item {
	t.Helper()
	it, err := messageorder.NewItem(kernel.NewUUID(), orderID, taskID)
	require.NoError(t, err)
	return it
}

// seedOrder stores a PROCESSING order with one item per task id.
func seedOrder(t *testing.T, store *memory.Store, createdAt time.Time, taskIDs ...kernel.UUID) *messageorder.Order {
	t.Helper()
	ctx := context.Background()
	uow := memory.NewUnitOfWorkFactory(store).Create()

	o := newProcessingOrder(t, createdAt)
	require.NoError(t, uow.MessageOrderRepository().Add(ctx, o))

	items := make([]*messageorder.Item, 0, len(taskIDs))
	for _, id := range taskIDs {
		items = append(items, newItem(t, o.ID(), id))
	}
	require.NoError(t, uow.MessageOrderItemRepository().AddAll(ctx, items))
	return o
}

func loadOrder(t *testing.T, store *memory.Store, id kernel.UUID) *messageorder.Order {
	t.Helper()
	o, err := memory.NewUnitOfWorkFactory(store).Create().MessageOrderRepository().Get(context.Background(), id)
	require.NoError(t, err)
	return o
}

func loadItems(t *testing.T, store *memory.Store, orderID kernel.UUID) []*messageorder.Item {
	t.Helper()
	items, err := memory.NewUnitOfWorkFactory(store).Create().MessageOrderItemRepository().ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return items
}
