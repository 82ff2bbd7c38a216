package messageorder

import (
	"fmt"
	"strings"

	"notice/internal/pkg/errs"
)

// Status is the lifecycle state of a message order or of one of its items.
//
// Order transitions:
//
//	Pending ──> Processing ──┬──> Finished
//	                         └──> Error
//
// Items move from Pending (or Processing) to Finished when their task is terminal,
// and to Error when checking or persisting them fails.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Processing
	Finished
	Error
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Pending:    "PENDING",
		Processing: "PROCESSING",
		Finished:   "FINISHED",
		Error:      "ERROR",
	}
}

// ParseStatus maps a persisted status name back to a Status. Matching is
// case-insensitive; unrecognized names yield Unknown and an error.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && strings.EqualFold(name, strings.TrimSpace(s)) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Error {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == Finished || s == Error
}

// Submit transitions Pending to Processing.
func (s Status) Submit() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to submit", s),
		)
	}
	return Processing, nil
}

// Finish transitions Processing to Finished.
func (s Status) Finish() (Status, error) {
	if s != Processing {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to finish", s),
		)
	}
	return Finished, nil
}

// Fail transitions Processing to Error.
func (s Status) Fail() (Status, error) {
	if s != Processing {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to fail", s),
		)
	}
	return Error, nil
}
