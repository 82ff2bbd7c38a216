package services

import (
	"errors"
	"fmt"

	"notice/internal/pkg/errs"
)

var (
	// ErrNoItemSucceeded is the failure reason when every item of an order failed.
	ErrNoItemSucceeded = errors.New("no message order item succeeded")

	// ErrPartialSuccess is the failure reason when some, but not all, items succeeded.
	ErrPartialSuccess = errors.New("not every message order item succeeded")
)

// Outcome is what the order processor does with an order after its items ran.
type Outcome int

const (
	// OutcomeSkip leaves the order untouched: it has no items yet.
	OutcomeSkip Outcome = iota
	// OutcomeFinish marks the order FINISHED.
	OutcomeFinish
	// OutcomeFail marks the order ERROR.
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkip:
		return "skip"
	case OutcomeFinish:
		return "finish"
	case OutcomeFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Decision carries the outcome and, for OutcomeFail, the reason.
type Decision struct {
	Outcome Outcome
	Reason  error
}

// DecideOrderOutcome applies the all-or-nothing aggregation rule:
//
//   - total == 0: skip, the order is neither finished nor failed
//   - succeeded == total: finish
//   - succeeded == 0: fail with ErrNoItemSucceeded
//   - otherwise: fail with ErrPartialSuccess
//
// A partially successful order is failed immediately rather than left
// PROCESSING for a later tick.
func DecideOrderOutcome(total, succeeded int) (Decision, error) {
	if total < 0 || succeeded < 0 || succeeded > total {
		return Decision{}, errs.NewValueIsOutOfRangeErrorWithCause(
			"succeeded", succeeded, 0, total,
			fmt.Errorf("total is %d", total),
		)
	}

	switch {
	case total == 0:
		return Decision{Outcome: OutcomeSkip}, nil
	case succeeded == total:
		return Decision{Outcome: OutcomeFinish}, nil
	case succeeded == 0:
		return Decision{Outcome: OutcomeFail, Reason: ErrNoItemSucceeded}, nil
	default:
		return Decision{
			Outcome: OutcomeFail,
			Reason:  fmt.Errorf("%w: %d of %d", ErrPartialSuccess, succeeded, total),
		}, nil
	}
}
