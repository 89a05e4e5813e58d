// Package gamepad enumerates locally attached controllers and samples
// their axes and buttons.
package gamepad

import (
	"errors"
	"fmt"

	"github.com/0xcafed00d/joystick"
	"github.com/hashicorp/go-hclog"
)

const (
	// maxAxisValue is the magnitude the joystick driver reports at
	// full deflection.
	maxAxisValue = 32767

	// maxButtons is the width of the button bitfield returned by
	// the driver.
	maxButtons = 32
)

var (
	// ErrOutOfRange is returned when a controller index is outside
	// of the set of controllers found by Scan.
	ErrOutOfRange = errors.New("controller index out of range")

	// ErrReleased is returned when the source is used after
	// Release has been called.
	ErrReleased = errors.New("controllers have been released")

	// ErrAlreadyScanned is returned when Scan is called after
	// controllers have already been bound.  Hot-plugging is not
	// supported.
	ErrAlreadyScanned = errors.New("controllers have already been scanned")
)

// Opener opens the joystick with the given system ID.
type Opener func(id int) (joystick.Joystick, error)

// Controller describes a controller that was found during a scan.
type Controller struct {
	Index   int
	Name    string
	Axes    int
	Buttons int
}

// Snapshot holds the values read from a single controller.  Axes are
// normalized to the range [-1.0, 1.0].
type Snapshot struct {
	Axes    []float64
	Buttons []bool
}

type device struct {
	js    joystick.Joystick
	info  Controller
	state joystick.State
}

// Source holds open handles to every controller found at scan time
// and the most recent state pumped from each of them.
type Source struct {
	l hclog.Logger

	open       Opener
	maxDevices int

	devices  []*device
	released bool
}

// New returns a source that has not yet been scanned.
func New(opts ...Option) *Source {
	s := &Source{
		l:          hclog.NewNullLogger(),
		open:       joystick.Open,
		maxDevices: 16,
	}

	for _, o := range opts {
		o(s)
	}
	return s
}

// Scan opens every controller that is currently attached.  Each
// system ID below the device limit is probed; IDs that cannot be
// opened are skipped, and the controllers that remain are indexed in
// the order they were found.
func (s *Source) Scan() ([]Controller, error) {
	if s.released {
		return nil, ErrReleased
	}
	if len(s.devices) > 0 {
		return nil, ErrAlreadyScanned
	}

	found := []Controller{}
	for id := 0; id < s.maxDevices; id++ {
		js, err := s.open(id)
		if err != nil {
			s.l.Trace("No controller", "jsid", id, "error", err)
			continue
		}

		buttons := js.ButtonCount()
		if buttons > maxButtons {
			buttons = maxButtons
		}
		info := Controller{
			Index:   len(s.devices),
			Name:    js.Name(),
			Axes:    js.AxisCount(),
			Buttons: buttons,
		}
		s.devices = append(s.devices, &device{js: js, info: info})
		found = append(found, info)
		s.l.Info("Bound controller", "index", info.Index, "jsid", id, "name", info.Name, "axes", info.Axes, "buttons", info.Buttons)
	}
	return found, nil
}

// Pump reads the current state from every controller.  It must be
// called once per cycle before any calls to Sample, otherwise Sample
// returns whatever was read on the previous cycle.
func (s *Source) Pump() error {
	if s.released {
		return ErrReleased
	}

	for _, d := range s.devices {
		st, err := d.js.Read()
		if err != nil {
			s.l.Warn("Error reading controller", "index", d.info.Index, "error", err)
			continue
		}
		d.state = st
	}
	return nil
}

// Count returns the number of controllers found by Scan.
func (s *Source) Count() int {
	return len(s.devices)
}

// Sample returns the values for the controller at index, as of the
// last call to Pump.
func (s *Source) Sample(index int) (Snapshot, error) {
	if s.released {
		return Snapshot{}, ErrReleased
	}
	if index < 0 || index >= len(s.devices) {
		return Snapshot{}, fmt.Errorf("%w: %d (have %d)", ErrOutOfRange, index, len(s.devices))
	}
	d := s.devices[index]

	snap := Snapshot{
		Axes:    make([]float64, d.info.Axes),
		Buttons: make([]bool, d.info.Buttons),
	}
	for i := range snap.Axes {
		if i < len(d.state.AxisData) {
			snap.Axes[i] = normalize(d.state.AxisData[i])
		}
	}
	for i := range snap.Buttons {
		snap.Buttons[i] = d.state.Buttons&(1<<uint32(i)) != 0
	}
	return snap, nil
}

// Release closes every controller handle.  The source cannot be used
// afterwards.
func (s *Source) Release() error {
	if s.released {
		return nil
	}
	for _, d := range s.devices {
		d.js.Close()
	}
	s.l.Info("Released controllers", "count", len(s.devices))
	s.released = true
	return nil
}

func normalize(v int) float64 {
	f := float64(v) / maxAxisValue
	if f > 1 {
		return 1
	}
	if f < -1 {
		return -1
	}
	return f
}
