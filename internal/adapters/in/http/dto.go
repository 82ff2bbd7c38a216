package http

import (
	"time"

	"notice/internal/core/application/usecases/queries"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewMessageOrder is the body of POST /api/v1/message-orders.
type NewMessageOrder struct {
	Name       string   `json:"name" validate:"required,max=255"`
	Recipients []string `json:"recipients" validate:"dive,required"`
	TaskIDs    []string `json:"taskIds" validate:"required,min=1,dive,uuid"`
}

type CreatedMessageOrder struct {
	ID string `json:"id"`
}

type MessageOrder struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	SendTime      *time.Time `json:"sendTime,omitempty"`
	ItemsTotal    int        `json:"itemsTotal"`
	ItemsFinished int        `json:"itemsFinished"`
	ItemsFailed   int        `json:"itemsFailed"`
}

type InFlight struct {
	Count    int      `json:"count"`
	Capacity int      `json:"capacity"`
	OrderIDs []string `json:"orderIds"`
}

type OrderInFlight struct {
	OrderID  string `json:"orderId"`
	InFlight bool   `json:"inFlight"`
}

func messageOrderFromQuery(r queries.GetMessageOrdersQueryResponse) MessageOrder {
	return MessageOrder{
		ID:            r.ID.String(),
		Name:          r.Name,
		Status:        r.Status.String(),
		CreatedAt:     r.CreatedAt,
		SendTime:      r.SendTime,
		ItemsTotal:    r.ItemsTotal,
		ItemsFinished: r.ItemsFinished,
		ItemsFailed:   r.ItemsFailed,
	}
}
