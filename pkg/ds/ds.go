// Package ds contains the driver station control loop.  On every tick
// the station refreshes connectivity, pumps the controllers, and
// publishes every axis and button into the robot's table.
package ds

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/gizmo-platform/driverstation/pkg/metrics"
	"github.com/gizmo-platform/driverstation/pkg/watchdog"
)

// DefaultPeriod is the loop period when none is configured.
const DefaultPeriod = time.Millisecond * 100

// ErrStalled is reported to listeners when the control loop stops
// ticking.
var ErrStalled = errors.New("control loop stalled")

type errorListener interface {
	PublishError(error)
}

type logListener interface {
	PublishLogLine(string)
}

// New returns a configured driver station.  An input source and a
// channel are required.
func New(opts ...Option) (*Station, error) {
	s := &Station{
		l:      hclog.NewNullLogger(),
		period: DefaultPeriod,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	for _, o := range opts {
		o(s)
	}

	if s.in == nil {
		return nil, errors.New("driver station requires an input source")
	}
	if s.kv == nil {
		return nil, errors.New("driver station requires a key-value channel")
	}
	if s.m == nil {
		s.m = metrics.New()
	}
	if s.period <= 0 {
		s.period = DefaultPeriod
	}

	s.state.Controllers = s.in.Count()
	s.m.SetControllers(s.state.Controllers)
	return s, nil
}

// Start selects autonomous mode and starts the loop in the
// background.  It must be called at most once.
func (s *Station) Start() {
	if err := s.SelectMode(ModeAutonomous); err != nil {
		s.l.Error("Could not select initial mode", "error", err)
	}

	s.mutex.Lock()
	s.started = true
	s.dog = watchdog.New(
		watchdog.WithName("control-loop"),
		watchdog.WithFoodDuration(s.period*10),
		watchdog.WithHandFunction(s.stalled),
		watchdog.WithLogger(s.l),
	)
	s.mutex.Unlock()

	go s.run()
}

func (s *Station) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.period)
	s.l.Info("Starting control loop", "period", s.period)
	for {
		select {
		case <-s.stop:
			ticker.Stop()
			s.l.Info("Stopped control loop")
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick runs a single iteration of the control loop: connectivity is
// refreshed, the controllers are pumped, and then every axis followed
// by every button of each controller is published in index order.
func (s *Station) Tick() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	start := time.Now()
	if s.dog != nil {
		s.dog.Feed()
	}
	s.l.Trace("Control loop tick")

	s.pollStatus()

	if err := s.in.Pump(); err != nil {
		s.l.Warn("Error pumping controllers", "error", err)
		return
	}

	axes, buttons := 0, 0
	for js := 0; js < s.in.Count(); js++ {
		snap, err := s.in.Sample(js)
		if err != nil {
			s.l.Error("Error sampling controller", "joystick", js, "error", err)
			continue
		}
		for i, v := range snap.Axes {
			s.kv.PublishAxis(js, i, v)
		}
		for i, v := range snap.Buttons {
			s.kv.PublishButton(js, i, v)
		}
		axes += len(snap.Axes)
		buttons += len(snap.Buttons)
	}

	s.m.ObservePublish(metrics.KindAxis, axes)
	s.m.ObservePublish(metrics.KindButton, buttons)
	s.m.ObserveTick(time.Since(start))
}

// PollStatus refreshes connectivity from the channel and notifies
// listeners if it differs from the last observation.  It returns
// whether a change was observed.
func (s *Station) PollStatus() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.pollStatus()
}

func (s *Station) pollStatus() bool {
	connected := s.kv.Connected()
	if connected == s.state.Connected {
		return false
	}

	s.state.Connected = connected
	s.l.Info("Connectivity changed", "connected", connected, "endpoint", s.state.Endpoint)
	s.m.StatusChanged(connected)
	for _, l := range s.listeners {
		l.StatusChanged(connected)
	}
	if connected {
		s.logLine("[LOG] => Connected to %s", s.state.Endpoint)
		s.publishSelections()
	} else {
		s.logLine("[LOG] => Lost connection to %s", s.state.Endpoint)
	}
	return true
}

// SelectMode makes m the only selected mode and publishes it.
func (s *Station) SelectMode(m Mode) error {
	valid := false
	for _, candidate := range Modes {
		if m == candidate {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("%w: %s", ErrInvalidMode, m)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.state.Mode = m
	s.kv.PublishMode(m.String())
	s.m.ObservePublish(metrics.KindMode, 1)
	s.l.Debug("Mode selected", "mode", m)
	s.notifyState()
	return nil
}

// SelectEnabled selects either enabled or disabled, clearing the
// other, and publishes the result.
func (s *Station) SelectEnabled(enabled bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if enabled {
		s.state.Enable = Enabled
	} else {
		s.state.Enable = Disabled
	}
	s.kv.PublishEnabled(enabled)
	s.m.ObservePublish(metrics.KindEnabled, 1)
	s.l.Info("Enable selected", "enable", s.state.Enable)
	s.notifyState()
}

// ChangeEndpoint persists a new endpoint and then moves the session
// to it.  Any mode and enable selections are published again on the
// new session.  If the endpoint cannot be persisted the session is
// left alone.
func (s *Station) ChangeEndpoint(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ErrEmptyEndpoint
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cfg != nil {
		if err := s.cfg.SetEndpoint(endpoint); err != nil {
			s.l.Warn("Could not record endpoint", "endpoint", endpoint, "error", err)
			return err
		}
		if err := s.cfg.Save(); err != nil {
			s.l.Warn("Could not save endpoint", "endpoint", endpoint, "error", err)
			return err
		}
	}

	s.logLine("[LOG] => Changing server from %s to %s", s.state.Endpoint, endpoint)
	s.kv.Reconnect(endpoint)
	s.state.Endpoint = endpoint
	s.publishSelections()
	s.notifyState()
	return nil
}

// publishSelections writes whatever mode and enable have been
// selected so far.  The mutex must be held.
func (s *Station) publishSelections() {
	if s.state.Mode != ModeUnset {
		s.kv.PublishMode(s.state.Mode.String())
	}
	if s.state.Enable != EnableUnset {
		s.kv.PublishEnabled(s.state.Enable == Enabled)
	}
}

// State returns a copy of the current state.
func (s *Station) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.state
}

// Shutdown stops the loop and waits for any tick in progress, then
// releases the controllers, saves the config, and closes the session,
// in that order.  It is safe to call more than once.
func (s *Station) Shutdown() {
	s.shutdown.Do(func() {
		s.l.Info("Shutdown requested")

		s.mutex.Lock()
		started := s.started
		s.mutex.Unlock()

		close(s.stop)
		if started {
			<-s.done
		}
		if s.dog != nil {
			s.dog.Stop()
		}

		if err := s.in.Release(); err != nil {
			s.l.Warn("Error releasing controllers", "error", err)
		}
		if s.cfg != nil {
			if err := s.cfg.Save(); err != nil {
				s.l.Warn("Error saving config", "error", err)
			}
		}
		s.kv.Shutdown()
	})
}

func (s *Station) notifyState() {
	for _, l := range s.listeners {
		l.StateChanged(s.state)
	}
}

func (s *Station) logLine(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	for _, l := range s.listeners {
		if ll, ok := l.(logListener); ok {
			ll.PublishLogLine(msg)
		}
	}
}

func (s *Station) stalled() {
	s.m.WatchdogBite()
	for _, l := range s.listeners {
		if el, ok := l.(errorListener); ok {
			el.PublishError(ErrStalled)
		}
	}
}
