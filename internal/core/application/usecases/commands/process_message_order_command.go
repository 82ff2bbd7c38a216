package commands

import (
	"errors"

	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"
	"notice/internal/pkg/guard"
)

var ErrProcessMessageOrderCommandIsNotConstructed = errors.New(
	"ProcessMessageOrderCommand must be created via NewProcessMessageOrderCommand constructor",
)

// ProcessMessageOrderCommand asks for one processing attempt of an order.
// The command keeps its own copy of the order.
//
// Example:
//
//	cmd, err := NewProcessMessageOrderCommand(order)
//	if err != nil {
//	    return err
//	}
//	status, err := handler.Handle(ctx, cmd)
type ProcessMessageOrderCommand struct {
	order *messageorder.Order

	guard guard.ConstructorGuard
}

func NewProcessMessageOrderCommand(order *messageorder.Order) (ProcessMessageOrderCommand, error) {
	if order == nil {
		return ProcessMessageOrderCommand{}, errs.NewValueIsRequiredError("order")
	}
	if err := order.Validate(); err != nil {
		return ProcessMessageOrderCommand{}, err
	}

	return ProcessMessageOrderCommand{
		order: order.Clone(),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessMessageOrderCommand) Validate() error {
	return c.guard.Validate(ErrProcessMessageOrderCommandIsNotConstructed)
}

func (c ProcessMessageOrderCommand) Order() *messageorder.Order {
	return c.order
}
