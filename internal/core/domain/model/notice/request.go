package notice

import (
	"fmt"
	"time"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"
)

// Event is the kind of execution outcome a notification reports.
type Event string

const (
	EventExecuteSuccessful Event = "EXECUTE_SUCCESSFUL"
	EventExecuteFailed     Event = "EXECUTE_FAILED"
)

const (
	Subject         = "Compliance scan results"
	SuccessContext  = "success"
	FailedContext   = "failed"
	SuccessTemplate = "SuccessfulNotification"
	FailedTemplate  = "FailedNotification"
)

// TaskSummary is one task row shown in the notification body.
type TaskSummary struct {
	ID           kernel.UUID `json:"id"`
	Name         string      `json:"name"`
	Status       string      `json:"status"`
	ReturnSum    int         `json:"returnSum"`
	ResourcesSum int         `json:"resourcesSum"`
}

// Summary aggregates the tasks of one message order.
type Summary struct {
	TopTasks     []TaskSummary `json:"resources"`
	ReturnSum    int           `json:"returnSum"`
	ResourcesSum int           `json:"resourcesSum"`
}

// Request is handed to the notification sender. It is built fresh for every
// terminal order and never persisted.
type Request struct {
	OrderID         kernel.UUID `json:"orderId"`
	OrderName       string      `json:"orderName"`
	OrderStatus     string      `json:"orderStatus"`
	Recipients      []string    `json:"recipients"`
	Event           Event       `json:"event"`
	Subject         string      `json:"subject"`
	SuccessContext  string      `json:"successContext"`
	SuccessTemplate string      `json:"successMailTemplate"`
	FailedContext   string      `json:"failedContext"`
	FailedTemplate  string      `json:"failedMailTemplate"`
	Params          Summary     `json:"paramMap"`
	SentAt          time.Time   `json:"sentAt"`
}

// NewRequest builds the notification for a terminal order. The event follows
// the order outcome: FINISHED reports a successful execution, ERROR a failed one.
func NewRequest(order *messageorder.Order, summary Summary) (Request, error) {
	if err := order.Validate(); err != nil {
		return Request{}, err
	}

	var event Event
	switch order.Status() {
	case messageorder.Finished:
		event = EventExecuteSuccessful
	case messageorder.Error:
		event = EventExecuteFailed
	default:
		return Request{}, errs.NewValueIsInvalidErrorWithCause(
			"order status",
			fmt.Errorf("%s is not terminal", order.Status()),
		)
	}

	var sentAt time.Time
	if t := order.SendTime(); t != nil {
		sentAt = *t
	}
	if summary.TopTasks == nil {
		summary.TopTasks = []TaskSummary{}
	}

	return Request{
		OrderID:         order.ID(),
		OrderName:       order.Name(),
		OrderStatus:     order.Status().String(),
		Recipients:      order.Recipients(),
		Event:           event,
		Subject:         Subject,
		SuccessContext:  SuccessContext,
		SuccessTemplate: SuccessTemplate,
		FailedContext:   FailedContext,
		FailedTemplate:  FailedTemplate,
		Params:          summary,
		SentAt:          sentAt,
	}, nil
}
