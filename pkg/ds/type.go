package ds

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/gizmo-platform/driverstation/pkg/gamepad"
	"github.com/gizmo-platform/driverstation/pkg/metrics"
	"github.com/gizmo-platform/driverstation/pkg/nt"
	"github.com/gizmo-platform/driverstation/pkg/watchdog"
)

var (
	// ErrInvalidMode is returned when a mode other than
	// autonomous, teleop, or test is selected.
	ErrInvalidMode = errors.New("invalid game mode")

	// ErrEmptyEndpoint is returned when an empty endpoint is
	// requested.
	ErrEmptyEndpoint = nt.ErrEmptyEndpoint
)

// Mode is the game mode the robot is asked to run in.
type Mode uint8

const (
	// ModeUnset means no mode has been selected yet.
	ModeUnset Mode = iota

	// ModeAutonomous runs the robot's autonomous routine.
	ModeAutonomous

	// ModeTeleop hands control to the drivers.
	ModeTeleop

	// ModeTest runs the robot's test routine.
	ModeTest
)

// Modes lists every selectable mode.
var Modes = []Mode{ModeAutonomous, ModeTeleop, ModeTest}

// Enable is the enable/disable selection.
type Enable uint8

const (
	// EnableUnset means neither enable nor disable has been
	// selected yet.
	EnableUnset Enable = iota

	// Enabled allows the robot to move.
	Enabled

	// Disabled keeps the robot still.
	Disabled
)

// State is the operator-visible state of the station.
type State struct {
	Mode        Mode
	Enable      Enable
	Connected   bool
	Endpoint    string
	Controllers int
}

// InputSource provides controller readings.
type InputSource interface {
	Pump() error
	Count() int
	Sample(int) (gamepad.Snapshot, error)
	Release() error
}

// KeyValueChannel is the session to the robot.
type KeyValueChannel interface {
	Reconnect(string)
	Connected() bool
	PublishAxis(int, int, float64)
	PublishButton(int, int, bool)
	PublishMode(string)
	PublishEnabled(bool)
	Shutdown()
}

// ConfigStore persists the endpoint the operator chose.
type ConfigStore interface {
	SetEndpoint(string) error
	Save() error
}

// A Listener is told about changes to the station's state.
// StatusChanged fires only when connectivity actually changes.
type Listener interface {
	StatusChanged(connected bool)
	StateChanged(State)
}

// Station couples controller sampling to the key-value channel on a
// fixed period, and holds the operator's mode and enable selections.
type Station struct {
	l hclog.Logger

	in  InputSource
	kv  KeyValueChannel
	cfg ConfigStore
	m   *metrics.Metrics
	dog *watchdog.Dog

	listeners []Listener
	period    time.Duration

	// mutex serializes every core operation.
	mutex sync.Mutex
	state State

	stop     chan struct{}
	done     chan struct{}
	started  bool
	shutdown sync.Once
}

// Option enables variadic configuration of the station.
type Option func(*Station)
