package router

import "net/url"

// State is the navigation state machine: Idle -> Loading -> Idle for GET
// navigations, Idle -> Submitting -> Loading -> Idle for submissions.
type State int

const (
	Idle State = iota
	Loading
	Submitting
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

// Navigation describes the in-flight navigation, if any. It is read-only to callers.
type Navigation struct {
	State    State
	Location Location
	Method   string
	Form     url.Values
}

// Pending reports whether a navigation is in flight.
func (n Navigation) Pending() bool { return n.State != Idle }

// Targets reports whether the pending navigation carries a non-empty value for param.
func (n Navigation) Targets(param string) bool {
	if !n.Pending() {
		return false
	}
	v, ok := n.Location.Param(param)
	return ok && v != ""
}
