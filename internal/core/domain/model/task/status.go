package task

import "strings"

// Status is the execution state reported by the execution subsystem.
type Status int

const (
	// Unknown covers any state name this service does not recognize. It is
	// treated as still in progress.
	Unknown Status = iota
	Unchecked
	Approved
	Processing
	Finished
	Warning
	Error
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Unchecked:  "UNCHECKED",
		Approved:   "APPROVED",
		Processing: "PROCESSING",
		Finished:   "FINISHED",
		Warning:    "WARNING",
		Error:      "ERROR",
	}
}

// ParseStatus matches a state name case-insensitively. Unrecognized names map
// to Unknown rather than failing, since the execution subsystem may add new
// in-progress states.
func ParseStatus(s string) Status {
	s = strings.TrimSpace(s)
	for status, name := range getStatusStrings() {
		if strings.EqualFold(name, s) {
			return status
		}
	}
	return Unknown
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether the execution subsystem is done with the task:
// FINISHED, WARNING or ERROR.
func (s Status) IsTerminal() bool {
	switch s {
	case Finished, Warning, Error:
		return true
	default:
		return false
	}
}
