package eventstream

import (
	"encoding/json"

	"github.com/gizmo-platform/driverstation/pkg/ds"
)

// PublishError pushes an error out into the event stream.
func (es *EventStream) PublishError(err error) {
	es.marshalAndPublish(EventError{
		Type:  EventTypeError,
		Error: err.Error(),
	})
}

// PublishLogLine pushes a log message into the event stream.
func (es *EventStream) PublishLogLine(msg string) {
	es.marshalAndPublish(EventLogLine{
		Type:    EventTypeLogLine,
		Message: msg,
	})
}

// StatusChanged pushes a connectivity change into the event stream.
func (es *EventStream) StatusChanged(connected bool) {
	es.marshalAndPublish(EventStatus{
		Type:      EventTypeStatus,
		Connected: connected,
	})
}

// StateChanged pushes the station's state into the event stream.
func (es *EventStream) StateChanged(s ds.State) {
	es.marshalAndPublish(EventState{
		Type:        EventTypeState,
		Mode:        s.Mode,
		Enable:      s.Enable,
		Connected:   s.Connected,
		Endpoint:    s.Endpoint,
		Controllers: s.Controllers,
	})
}

func (es *EventStream) marshalAndPublish(e interface{}) {
	bytes, err := json.Marshal(e)
	if err != nil {
		es.l.Warn("Error marshaling event", "error", err)
		return
	}
	es.publish(bytes)
}
