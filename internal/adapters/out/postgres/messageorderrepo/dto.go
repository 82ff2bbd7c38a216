// Package messageorderrepo persists message orders and their items with GORM,
// mapping aggregates to the message_orders and message_order_items tables.
package messageorderrepo

import (
	"time"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO is a row of message_orders. Status is stored by name.
type OrderDTO struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name       string         `gorm:"not null"`
	Recipients pq.StringArray `gorm:"type:text[];not null"`
	Status     string         `gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time      `gorm:"not null"`
	SendTime   *time.Time
}

func (OrderDTO) TableName() string {
	return "message_orders"
}

// ItemDTO is a row of message_order_items.
type ItemDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID  uuid.UUID `gorm:"type:uuid;not null;index"`
	TaskID   uuid.UUID `gorm:"type:uuid;not null"`
	Status   string    `gorm:"type:varchar(16);not null"`
	SendTime *time.Time
}

func (ItemDTO) TableName() string {
	return "message_order_items"
}

func orderFromDomain(o *messageorder.Order) OrderDTO {
	recipients := pq.StringArray{}
	recipients = append(recipients, o.Recipients()...)

	return OrderDTO{
		ID:         o.ID().Bytes(),
		Name:       o.Name(),
		Recipients: recipients,
		Status:     o.Status().String(),
		CreatedAt:  o.CreatedAt(),
		SendTime:   o.SendTime(),
	}
}

func orderToDomain(dto OrderDTO) (*messageorder.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := messageorder.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return messageorder.RestoreOrder(id, dto.Name, dto.Recipients, status, dto.CreatedAt, dto.SendTime)
}

func itemFromDomain(it *messageorder.Item) ItemDTO {
	return ItemDTO{
		ID:       it.ID().Bytes(),
		OrderID:  it.OrderID().Bytes(),
		TaskID:   it.TaskID().Bytes(),
		Status:   it.Status().String(),
		SendTime: it.SendTime(),
	}
}

func itemToDomain(dto ItemDTO) (*messageorder.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	taskID, err := kernel.UUIDFromBytes(dto.TaskID[:])
	if err != nil {
		return nil, err
	}

	status, err := messageorder.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return messageorder.RestoreItem(id, orderID, taskID, status, dto.SendTime)
}
