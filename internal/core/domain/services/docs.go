// Package services holds domain rules that span more than one aggregate.
// DecideOrderOutcome turns the item results of a message order into the
// order-level decision the processor persists.
package services
