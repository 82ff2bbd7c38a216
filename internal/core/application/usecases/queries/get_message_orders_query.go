// Package queries contains read operations for retrieving system state.
// Queries return read models shaped for the admin API.
package queries

import (
	"errors"
	"time"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"
	"notice/internal/pkg/guard"
)

const (
	DefaultMessageOrdersLimit = 50
	MaxMessageOrdersLimit     = 500
)

var (
	ErrGetMessageOrdersQueryIsNotConstructed = errors.New(
		"GetMessageOrdersQuery must be created via NewGetMessageOrdersQuery constructor",
	)
)

// GetMessageOrdersQuery lists message orders with their item counters,
// oldest first.
//
// Example:
//
//	query, err := NewGetMessageOrdersQuery("processing", 20)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetMessageOrdersQuery struct {
	status *messageorder.Status
	limit  int

	guard guard.ConstructorGuard
}

// NewGetMessageOrdersQuery parses the status filter case-insensitively; an
// empty status matches every order. A zero limit means DefaultMessageOrdersLimit.
func NewGetMessageOrdersQuery(status string, limit int) (GetMessageOrdersQuery, error) {
	q := GetMessageOrdersQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}

	if status != "" {
		s, err := messageorder.ParseStatus(status)
		if err != nil {
			return GetMessageOrdersQuery{}, err
		}
		q.status = &s
	}

	if q.limit == 0 {
		q.limit = DefaultMessageOrdersLimit
	}
	if q.limit < 1 || q.limit > MaxMessageOrdersLimit {
		return GetMessageOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxMessageOrdersLimit)
	}

	return q, nil
}

// Status returns the filter, or nil when every status matches.
func (q GetMessageOrdersQuery) Status() *messageorder.Status {
	if q.status == nil {
		return nil
	}
	s := *q.status
	return &s
}

func (q GetMessageOrdersQuery) Limit() int {
	return q.limit
}

func (q GetMessageOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetMessageOrdersQueryIsNotConstructed)
}

// GetMessageOrdersQueryResponse is one order in the read model.
type GetMessageOrdersQueryResponse struct {
	ID            kernel.UUID
	Name          string
	Status        messageorder.Status
	CreatedAt     time.Time
	SendTime      *time.Time
	ItemsTotal    int
	ItemsFinished int
	ItemsFailed   int
}
