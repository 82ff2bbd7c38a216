package commands

import (
	"errors"
	"fmt"

	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"
	"notice/internal/pkg/guard"
)

var ErrNotifyMessageOrderCommandIsNotConstructed = errors.New(
	"NotifyMessageOrderCommand must be created via NewNotifyMessageOrderCommand constructor",
)

// NotifyMessageOrderCommand requests the notification for an order that
// reached FINISHED or ERROR.
type NotifyMessageOrderCommand struct {
	order *messageorder.Order

	guard guard.ConstructorGuard
}

func NewNotifyMessageOrderCommand(order *messageorder.Order) (NotifyMessageOrderCommand, error) {
	if order == nil {
		return NotifyMessageOrderCommand{}, errs.NewValueIsRequiredError("order")
	}
	if err := order.Validate(); err != nil {
		return NotifyMessageOrderCommand{}, err
	}
	if !order.Status().IsTerminal() {
		return NotifyMessageOrderCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"order status",
			fmt.Errorf("%s is not terminal", order.Status()),
		)
	}

	return NotifyMessageOrderCommand{
		order: order.Clone(),
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c NotifyMessageOrderCommand) Validate() error {
	return c.guard.Validate(ErrNotifyMessageOrderCommandIsNotConstructed)
}

func (c NotifyMessageOrderCommand) Order() *messageorder.Order {
	return c.order
}
