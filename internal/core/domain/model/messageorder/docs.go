// Package messageorder models message orders: batches of task-linked items whose
// completion is reported to a recipient in a single notification.
//
// The package includes:
//   - Order: the aggregate root, with its PENDING -> PROCESSING -> FINISHED|ERROR lifecycle
//   - Item: one task-linked unit of an order
//   - Status: the lifecycle values shared by orders and items
//
// Key business rules:
//   - An order leaves PROCESSING exactly once, to FINISHED or ERROR
//   - Terminal orders and items carry the time they were sent
//   - Clone produces a copy that shares no mutable state with the original
package messageorder
