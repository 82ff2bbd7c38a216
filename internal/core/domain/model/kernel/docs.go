// Package kernel holds the value objects shared by every aggregate of the notice
// domain. Today that is UUID, the identifier type of message orders, items and tasks.
package kernel
