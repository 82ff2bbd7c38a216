// Package errs provides the typed errors shared by the notice service.
//
// Each error type pairs a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired) with a struct carrying the details.
// Unwrap returns the sentinel, so callers classify failures with errors.Is:
//
//	task, err := repo.Get(ctx, id)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // the execution subsystem never created the task
//	}
package errs
