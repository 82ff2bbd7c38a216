package task

import (
	"errors"
	"fmt"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/pkg/errs"
)

var ErrTaskIsNotConstructed = errors.New("Task must be created via RestoreTask constructor")

// Task is a snapshot of an execution-subsystem task.
type Task struct {
	id           kernel.UUID
	name         string
	status       Status
	returnSum    int
	resourcesSum int

	isConstructed bool
}

// RestoreTask builds a task snapshot read from the store. returnSum counts the
// findings the task produced, resourcesSum the resources it scanned.
func RestoreTask(id kernel.UUID, name string, status Status, returnSum, resourcesSum int) (*Task, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if returnSum < 0 || resourcesSum < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"sums",
			fmt.Errorf("return sum %d and resources sum %d must not be negative", returnSum, resourcesSum),
		)
	}

	return &Task{
		id:            id,
		name:          name,
		status:        status,
		returnSum:     returnSum,
		resourcesSum:  resourcesSum,
		isConstructed: true,
	}, nil
}

func (t *Task) Validate() error {
	if t == nil || !t.isConstructed {
		return ErrTaskIsNotConstructed
	}
	return nil
}

func (t *Task) ID() kernel.UUID {
	return t.id
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Status() Status {
	return t.status
}

func (t *Task) ReturnSum() int {
	return t.returnSum
}

func (t *Task) ResourcesSum() int {
	return t.resourcesSum
}

// IsTerminal reports whether an item waiting on this task can be completed.
func (t *Task) IsTerminal() bool {
	return t.status.IsTerminal()
}
