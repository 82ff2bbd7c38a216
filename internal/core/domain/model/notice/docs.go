// Package notice describes the notification request emitted once per message
// order that reaches a terminal state. Rendering and delivery belong to the
// notification transport; this package only fixes what the request carries.
package notice
