package eventstream

import (
	"github.com/gizmo-platform/driverstation/pkg/ds"
)

// EventType is used to identify what type of event is crossing the
// wire.
type EventType uint8

const (
	// EventTypeUnknown is used as a zero value to ensure that this
	// always has to be set to something.
	EventTypeUnknown EventType = iota

	// EventTypeError is pushed across the wire in the event that the
	// station has encountered some kind of error that the operator
	// needs to see.
	EventTypeError

	// EventTypeLogLine is used to signify that the event in question
	// is a log line.
	EventTypeLogLine

	// EventTypeStatus is fired when connectivity to the robot
	// changes.
	EventTypeStatus

	// EventTypeState is fired whenever the operator-visible state
	// changes.
	EventTypeState
)

// EventError contains the underlying error that occured.
type EventError struct {
	Type  EventType
	Error string
}

// EventLogLine contains a message from a log.
type EventLogLine struct {
	Type    EventType
	Message string
}

// EventStatus carries the new connectivity of the station.
type EventStatus struct {
	Type      EventType
	Connected bool
}

// EventState carries a full copy of the station's state.
type EventState struct {
	Type        EventType
	Mode        ds.Mode
	Enable      ds.Enable
	Connected   bool
	Endpoint    string
	Controllers int
}
