package messageorder

import (
	"errors"
	"time"

	"notice/internal/core/domain/model/kernel"
)

// ErrItemIsNotConstructed is returned for an Item not built by NewItem or RestoreItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item links one task to its message order. It becomes Finished once the task
// reaches a terminal state, or Error when checking it fails.
type Item struct {
	id       kernel.UUID
	orderID  kernel.UUID
	taskID   kernel.UUID
	status   Status
	sendTime *time.Time

	isConstructed bool
}

// NewItem creates a Pending item of orderID waiting on taskID.
func NewItem(id, orderID, taskID kernel.UUID) (*Item, error) {
	if err := errors.Join(id.Validate(), orderID.Validate(), taskID.Validate()); err != nil {
		return nil, err
	}

	return &Item{
		id:            id,
		orderID:       orderID,
		taskID:        taskID,
		status:        Pending,
		isConstructed: true,
	}, nil
}

// RestoreItem rebuilds an item from persistence.
func RestoreItem(id, orderID, taskID kernel.UUID, status Status, sendTime *time.Time) (*Item, error) {
	item, err := NewItem(id, orderID, taskID)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}

	item.status = status
	if sendTime != nil {
		t := *sendTime
		item.sendTime = &t
	}
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil || !i.isConstructed {
		return ErrItemIsNotConstructed
	}
	return nil
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) OrderID() kernel.UUID {
	return i.orderID
}

func (i *Item) TaskID() kernel.UUID {
	return i.taskID
}

func (i *Item) Status() Status {
	return i.status
}

func (i *Item) SendTime() *time.Time {
	if i.sendTime == nil {
		return nil
	}
	t := *i.sendTime
	return &t
}

func (i *Item) IsFinished() bool {
	return i.status == Finished
}

// Finish records that the linked task reached a terminal state.
func (i *Item) Finish(at time.Time) {
	t := at.UTC()
	i.status = Finished
	i.sendTime = &t
}

// Fail records that checking or persisting the item failed. It overrides any
// earlier in-memory status, including a Finished write that could not be saved.
func (i *Item) Fail() {
	i.status = Error
}

// Clone returns a copy sharing no mutable state with i.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	cp := *i
	cp.sendTime = i.SendTime()
	return &cp
}
