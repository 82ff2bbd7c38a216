package commands

import (
	"errors"

	"notice/internal/pkg/guard"
)

var ErrDispatchMessageOrdersCommandIsNotConstructed = errors.New(
	"DispatchMessageOrdersCommand must be created via NewDispatchMessageOrdersCommand constructor",
)

// DispatchMessageOrdersCommand triggers one dispatcher tick.
//
// Example:
//
//	cmd := NewDispatchMessageOrdersCommand()
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    log.Printf("dispatch failed: %v", err)
//	}
//	log.Printf("submitted %d orders", result.Submitted)
type DispatchMessageOrdersCommand struct {
	guard guard.ConstructorGuard
}

func NewDispatchMessageOrdersCommand() DispatchMessageOrdersCommand {
	return DispatchMessageOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

func (c DispatchMessageOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDispatchMessageOrdersCommandIsNotConstructed)
}
