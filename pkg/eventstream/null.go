package eventstream

import (
	"github.com/gizmo-platform/driverstation/pkg/ds"
)

// NullStream doesn't publish events anywhere and is mostly for
// testing or when the dashboard is turned off.
type NullStream struct{}

// NewNullStreamer hands back a null stream instance that discards
// everything.
func NewNullStreamer() *NullStream {
	return new(NullStream)
}

// PublishError discards all errors.
func (ns *NullStream) PublishError(_ error) {}

// PublishLogLine discards all log lines.
func (ns *NullStream) PublishLogLine(_ string) {}

// StatusChanged discards all status changes.
func (ns *NullStream) StatusChanged(_ bool) {}

// StateChanged discards all state changes.
func (ns *NullStream) StateChanged(_ ds.State) {}
