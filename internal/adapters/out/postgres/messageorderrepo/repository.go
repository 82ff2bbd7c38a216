package messageorderrepo

import (
	"context"
	"errors"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GormOrderRepository implements ports.MessageOrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *messageorder.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := orderFromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes status and send time of a PROCESSING order. Other columns
// never change after creation.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *messageorder.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := orderFromDomain(aggregate)
	db := r.db.WithContext(ctx)
	result := db.
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, messageorder.Processing.String()).
		Select("status", "send_time").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("message order", aggregate.ID().String())
	}
	return messageorder.ErrOrderIsNotProcessing
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*messageorder.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("message order", id.String())
		}
		return nil, err
	}

	return orderToDomain(dto)
}

// ListProcessing returns up to limit PROCESSING orders not in excludeIDs,
// oldest first.
func (r *GormOrderRepository) ListProcessing(
	ctx context.Context,
	excludeIDs []kernel.UUID,
	limit int,
) ([]*messageorder.Order, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	query := r.db.WithContext(ctx).
		Where("status = ?", messageorder.Processing.String())

	if len(excludeIDs) > 0 {
		ids := make([]string, 0, len(excludeIDs))
		for _, id := range excludeIDs {
			ids = append(ids, id.String())
		}
		query = query.Where("NOT (id = ANY(?::uuid[]))", pq.Array(ids))
	}

	var dtos []OrderDTO
	if err := query.Order("created_at ASC").Order("id").Limit(limit).Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*messageorder.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := orderToDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// GormItemRepository implements ports.MessageOrderItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// AddAll inserts items in one statement. An empty slice is a no-op.
func (r *GormItemRepository) AddAll(ctx context.Context, items []*messageorder.Item) error {
	if len(items) == 0 {
		return nil
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
		dtos = append(dtos, itemFromDomain(it))
	}

	return r.db.WithContext(ctx).Create(&dtos).Error
}

// Update writes status and send time of an item.
func (r *GormItemRepository) Update(ctx context.Context, item *messageorder.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	dto := itemFromDomain(item)
	result := r.db.WithContext(ctx).
		Model(&ItemDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "send_time").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("message order item", item.ID().String())
	}
	return nil
}

// ListByOrder returns the items of an order ordered by id.
func (r *GormItemRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*messageorder.Item, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []ItemDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	items := make([]*messageorder.Item, 0, len(dtos))
	for _, dto := range dtos {
		it, err := itemToDomain(dto)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	return items, nil
}
