package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "notice/internal/adapters/out/postgres"
	"notice/internal/adapters/out/postgres/pgtest"
	"notice/internal/adapters/out/postgres/taskrepo"
	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/core/ports"
	"notice/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite runs the Unit of Work against a real PostgreSQL.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	database *pgtest.Database
	factory  ports.UnitOfWorkFactory
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	database, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.database = database
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(database.DB)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.database.Truncate())
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.database != nil {
		suite.Require().NoError(suite.database.Terminate(context.Background()))
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) newOrder() *messageorder.Order {
	o, err := messageorder.NewOrder(kernel.NewUUID(), "nightly scan", []string{"ops@example.com"}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(o.Submit())
	return o
}

func (suite *UnitOfWorkIntegrationTestSuite) TestFactory_CreatesSeparateInstances() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2)
	suite.NotNil(uow1.MessageOrderRepository())
	suite.NotNil(uow1.MessageOrderItemRepository())
	suite.NotNil(uow1.TaskRepository())
	suite.NotNil(uow1.NoticeSummaryRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Begin(ctx), "a second Begin is a no-op")
	suite.Require().NoError(uow.Commit(ctx))

	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	suite.Require().ErrorIs(uow.Commit(ctx), gorm.ErrInvalidTransaction)
	suite.Require().ErrorIs(uow.Rollback(ctx), gorm.ErrInvalidTransaction)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestCommitPersistsOrderAndItems() {
	ctx := context.Background()
	order := suite.newOrder()
	item, err := messageorder.NewItem(kernel.NewUUID(), order.ID(), kernel.NewUUID())
	suite.Require().NoError(err)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.MessageOrderRepository().Add(ctx, order))
	suite.Require().NoError(uow.MessageOrderItemRepository().AddAll(ctx, []*messageorder.Item{item}))
	suite.Require().NoError(uow.Commit(ctx))

	fresh := suite.factory.Create()
	saved, err := fresh.MessageOrderRepository().Get(ctx, order.ID())
	suite.Require().NoError(err)
	suite.Equal(messageorder.Processing, saved.Status())
	suite.Equal([]string{"ops@example.com"}, saved.Recipients())

	items, err := fresh.MessageOrderItemRepository().ListByOrder(ctx, order.ID())
	suite.Require().NoError(err)
	suite.Require().Len(items, 1)
	suite.Equal(item.TaskID(), items[0].TaskID())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackDiscardsChanges() {
	ctx := context.Background()
	order := suite.newOrder()

	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))
	suite.Require().NoError(uow.MessageOrderRepository().Add(ctx, order))
	suite.Require().NoError(uow.Rollback(ctx))

	_, err := suite.factory.Create().MessageOrderRepository().Get(ctx, order.ID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestTaskRepository() {
	ctx := context.Background()
	id := kernel.NewUUID()
	suite.Require().NoError(suite.database.DB.Create(&taskrepo.TaskDTO{
		ID: id.Bytes(), Name: "scan", Status: "finished", ReturnSum: 2, ResourcesSum: 7,
	}).Error)

	repo := suite.factory.Create().TaskRepository()

	tk, err := repo.Get(ctx, id)
	suite.Require().NoError(err)
	suite.True(tk.IsTerminal())
	suite.Equal(2, tk.ReturnSum())
	suite.Equal(7, tk.ResourcesSum())

	_, err = repo.Get(ctx, kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestNoticeSummaryRepository() {
	ctx := context.Background()
	order := suite.newOrder()

	tasks := []taskrepo.TaskDTO{
		{ID: kernel.NewUUID().Bytes(), Name: "a", Status: "FINISHED", ReturnSum: 1, ResourcesSum: 10},
		{ID: kernel.NewUUID().Bytes(), Name: "b", Status: "WARNING", ReturnSum: 9, ResourcesSum: 20},
		{ID: kernel.NewUUID().Bytes(), Name: "c", Status: "ERROR", ReturnSum: 4, ResourcesSum: 30},
	}
	suite.Require().NoError(suite.database.DB.Create(&tasks).Error)

	items := make([]*messageorder.Item, 0, len(tasks)+1)
	for _, dto := range tasks {
		taskID, err := kernel.UUIDFromBytes(dto.ID[:])
		suite.Require().NoError(err)
		it, err := messageorder.NewItem(kernel.NewUUID(), order.ID(), taskID)
		suite.Require().NoError(err)
		items = append(items, it)
	}
	orphan, err := messageorder.NewItem(kernel.NewUUID(), order.ID(), kernel.NewUUID())
	suite.Require().NoError(err)
	items = append(items, orphan)

	uow := suite.factory.Create()
	suite.Require().NoError(uow.MessageOrderRepository().Add(ctx, order))
	suite.Require().NoError(uow.MessageOrderItemRepository().AddAll(ctx, items))

	summary, err := uow.NoticeSummaryRepository().Summarize(ctx, order.ID(), 2)
	suite.Require().NoError(err)

	suite.Equal(14, summary.ReturnSum)
	suite.Equal(60, summary.ResourcesSum)
	suite.Require().Len(summary.TopTasks, 2)
	suite.Equal("b", summary.TopTasks[0].Name)
	suite.Equal("WARNING", summary.TopTasks[0].Status)
	suite.Equal("c", summary.TopTasks[1].Name)
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
