package messageorder

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"notice/internal/core/domain/model/kernel"
	"notice/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned for an Order not built by NewOrder or RestoreOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// ErrOrderIsNotProcessing is returned by a repository when a terminal write
// targets an order that has already left PROCESSING.
var ErrOrderIsNotProcessing = errors.New("message order is not processing")

// Order is a batch of task-linked items reported together to its recipients.
//
// Invariants:
//   - id is a valid UUID and name is not blank
//   - status leaves Processing at most once, to Finished or Error
//   - sendTime is set exactly when status is terminal
type Order struct {
	id         kernel.UUID
	name       string
	recipients []string
	status     Status
	createdAt  time.Time
	sendTime   *time.Time

	isConstructed bool
}

// NewOrder creates a Pending order. createdAt orders the dispatcher's scan,
// oldest first.
//
//	o, err := messageorder.NewOrder(kernel.NewUUID(), "nightly scan", []string{"ops@example.com"}, time.Now())
func NewOrder(id kernel.UUID, name string, recipients []string, createdAt time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setName(name),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}
	o.recipients = slices.Clone(recipients)

	return o, nil
}

// RestoreOrder rebuilds an order from persistence. sendTime must be present
// exactly when status is terminal.
func RestoreOrder(
	id kernel.UUID,
	name string,
	recipients []string,
	status Status,
	createdAt time.Time,
	sendTime *time.Time,
) (*Order, error) {
	o, err := NewOrder(id, name, recipients, createdAt)
	if err != nil {
		return nil, err
	}

	if err = status.Validate(); err != nil {
		return nil, err
	}
	if status.IsTerminal() != (sendTime != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"sendTime",
			fmt.Errorf("send time presence does not match status %s", status),
		)
	}

	o.status = status
	if sendTime != nil {
		t := *sendTime
		o.sendTime = &t
	}
	return o, nil
}

// Validate ensures the order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Name() string {
	return o.name
}

// Recipients returns a copy of the recipient list.
func (o *Order) Recipients() []string {
	return slices.Clone(o.recipients)
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// SendTime is nil until the order is terminal.
func (o *Order) SendTime() *time.Time {
	if o.sendTime == nil {
		return nil
	}
	t := *o.sendTime
	return &t
}

// Submit moves a Pending order to Processing so the dispatcher picks it up.
func (o *Order) Submit() error {
	newStatus, err := o.status.Submit()
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Finish marks the order Finished and stamps its send time.
func (o *Order) Finish(at time.Time) error {
	newStatus, err := o.status.Finish()
	if err != nil {
		return err
	}
	o.status = newStatus
	o.stamp(at)
	return nil
}

// Fail marks the order Error and stamps its send time.
func (o *Order) Fail(at time.Time) error {
	newStatus, err := o.status.Fail()
	if err != nil {
		return err
	}
	o.status = newStatus
	o.stamp(at)
	return nil
}

// Clone returns a deep copy. Processing always works on a clone so that the
// dispatcher's query result cannot be observed or mutated by a worker.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	cp := *o
	cp.recipients = slices.Clone(o.recipients)
	cp.sendTime = o.SendTime()
	return &cp
}

func (o *Order) stamp(at time.Time) {
	t := at.UTC()
	o.sendTime = &t
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	o.name = name
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	o.createdAt = createdAt.UTC()
	return nil
}
