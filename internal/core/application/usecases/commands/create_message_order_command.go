package commands

import (
	"errors"
	"slices"
	"strings"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/pkg/errs"
	"notice/internal/pkg/guard"
)

var ErrCreateMessageOrderCommandIsNotConstructed = errors.New(
	"CreateMessageOrderCommand must be created via NewCreateMessageOrderCommand constructor",
)

// CreateMessageOrderCommand registers a batch of tasks whose results are to
// be reported together once they all finish.
//
// Example:
//
//	cmd, err := NewCreateMessageOrderCommand("nightly scan", []string{"ops@example.com"}, taskIDs)
//	if err != nil {
//	    return fmt.Errorf("invalid message order: %w", err)
//	}
//	orderID, err := handler.Handle(ctx, cmd)
type CreateMessageOrderCommand struct {
	name       string
	recipients []string
	taskIDs    []kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateMessageOrderCommand(
	name string,
	recipients []string,
	taskIDs []kernel.UUID,
) (CreateMessageOrderCommand, error) {
	cmd := CreateMessageOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setName(name),
		cmd.setRecipients(recipients),
		cmd.setTaskIDs(taskIDs),
	); err != nil {
		return CreateMessageOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateMessageOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateMessageOrderCommandIsNotConstructed)
}

func (c CreateMessageOrderCommand) Name() string {
	return c.name
}

func (c CreateMessageOrderCommand) Recipients() []string {
	return slices.Clone(c.recipients)
}

// TaskIDs returns the task ids with duplicates removed, in input order.
func (c CreateMessageOrderCommand) TaskIDs() []kernel.UUID {
	return slices.Clone(c.taskIDs)
}

func (c *CreateMessageOrderCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *CreateMessageOrderCommand) setRecipients(recipients []string) error {
	cleaned := make([]string, 0, len(recipients))
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			cleaned = append(cleaned, r)
		}
	}

	c.recipients = cleaned
	return nil
}

func (c *CreateMessageOrderCommand) setTaskIDs(taskIDs []kernel.UUID) error {
	if len(taskIDs) == 0 {
		return errs.NewValueIsRequiredError("taskIDs")
	}

	seen := make(map[kernel.UUID]struct{}, len(taskIDs))
	unique := make([]kernel.UUID, 0, len(taskIDs))
	for _, id := range taskIDs {
		if err := id.Validate(); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	c.taskIDs = unique
	return nil
}
