// Package nt publishes driver station state into a remote key-value
// table.  The transport itself sits behind the Client interface, so
// the channel only deals with session lifecycle and key naming.
package nt

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// TableName is the table that all driver station keys live in.
const TableName = "driver_station"

const (
	keyMode    = "/mode"
	keyEnabled = "/enabled"
)

// Client is a key-value session to a single remote endpoint.
type Client interface {
	Initialize(server string) error
	GetTable(name string) Table
	IsConnected() bool
	Shutdown()
}

// Table is a handle to a named table within a session.  Writes are
// overwrites with no acknowledgement.
type Table interface {
	PutNumber(key string, value float64)
	PutBoolean(key string, value bool)
	PutString(key string, value string)
}

// Channel owns the session to the robot and the handle to the driver
// station table within it.
type Channel struct {
	l hclog.Logger
	c Client

	tableName string
	table     Table
	endpoint  string
}

// New returns a channel that will open sessions with the given
// client.  No session exists until Connect is called.
func New(c Client, opts ...Option) *Channel {
	ch := &Channel{
		l:         hclog.NewNullLogger(),
		c:         c,
		tableName: TableName,
	}

	for _, o := range opts {
		o(ch)
	}
	return ch
}

// AxisKey returns the key that an axis value is published under.
func AxisKey(joystick, axis int) string {
	return fmt.Sprintf("/joystick-%d/axis-%d", joystick, axis)
}

// ButtonKey returns the key that a button value is published under.
func ButtonKey(joystick, button int) string {
	return fmt.Sprintf("/joystick-%d/button-%d", joystick, button)
}

// Connect establishes a session to the endpoint, replacing any
// session that already exists.
func (ch *Channel) Connect(endpoint string) {
	if ch.table != nil {
		ch.teardown()
	}
	ch.l.Info("Connecting", "endpoint", endpoint)
	if err := ch.c.Initialize(endpoint); err != nil {
		// Connectivity is reported through Connected, so this
		// is not returned to the caller.
		ch.l.Warn("Error initializing session", "endpoint", endpoint, "error", err)
	}
	ch.endpoint = endpoint
	ch.table = ch.c.GetTable(ch.tableName)
}

// Reconnect shuts the current session down completely and then
// establishes a new one to the endpoint.  The table handle from the
// old session is dropped before the new session is initialized.
func (ch *Channel) Reconnect(endpoint string) {
	ch.l.Info("Changing server", "from", ch.endpoint, "to", endpoint)
	ch.teardown()
	ch.Connect(endpoint)
}

// Endpoint returns the endpoint of the current session.
func (ch *Channel) Endpoint() string {
	return ch.endpoint
}

// Connected reports whether at least one peer is reachable on the
// current session.
func (ch *Channel) Connected() bool {
	if ch.table == nil {
		return false
	}
	return ch.c.IsConnected()
}

// PublishAxis sets the value of a joystick axis.
func (ch *Channel) PublishAxis(joystick, axis int, value float64) {
	if ch.table == nil {
		return
	}
	ch.table.PutNumber(AxisKey(joystick, axis), value)
}

// PublishButton sets the value of a joystick button.
func (ch *Channel) PublishButton(joystick, button int, value bool) {
	if ch.table == nil {
		return
	}
	ch.table.PutBoolean(ButtonKey(joystick, button), value)
}

// PublishMode sets the current game mode.
func (ch *Channel) PublishMode(mode string) {
	if ch.table == nil {
		return
	}
	ch.table.PutString(keyMode, mode)
}

// PublishEnabled sets whether the robot is enabled.
func (ch *Channel) PublishEnabled(enabled bool) {
	if ch.table == nil {
		return
	}
	ch.table.PutBoolean(keyEnabled, enabled)
}

// Shutdown tears down the current session.  Publishes are dropped
// until Connect is called again.
func (ch *Channel) Shutdown() {
	ch.l.Info("Shutting down session", "endpoint", ch.endpoint)
	ch.teardown()
}

func (ch *Channel) teardown() {
	ch.table = nil
	ch.c.Shutdown()
}
