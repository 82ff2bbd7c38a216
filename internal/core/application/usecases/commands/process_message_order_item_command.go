package commands

import (
	"errors"

	"notice/internal/core/domain/model/messageorder"
	"notice/internal/pkg/errs"
	"notice/internal/pkg/guard"
)

var ErrProcessMessageOrderItemCommandIsNotConstructed = errors.New(
	"ProcessMessageOrderItemCommand must be created via NewProcessMessageOrderItemCommand constructor",
)

// ProcessMessageOrderItemCommand asks for one item to be checked against its task.
// The command owns the item: the handler mutates it in place.
type ProcessMessageOrderItemCommand struct {
	item *messageorder.Item

	guard guard.ConstructorGuard
}

func NewProcessMessageOrderItemCommand(item *messageorder.Item) (ProcessMessageOrderItemCommand, error) {
	if item == nil {
		return ProcessMessageOrderItemCommand{}, errs.NewValueIsRequiredError("item")
	}
	if err := item.Validate(); err != nil {
		return ProcessMessageOrderItemCommand{}, err
	}

	return ProcessMessageOrderItemCommand{
		item:  item,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c ProcessMessageOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrProcessMessageOrderItemCommandIsNotConstructed)
}

func (c ProcessMessageOrderItemCommand) Item() *messageorder.Item {
	return c.item
}
