// Package task is the read-only view of tasks owned by the execution subsystem.
// The notice service never changes a task; it only asks whether a task reached a
// terminal state and reads its finding and resource counts for notifications.
package task
