package gamepad

import (
	"github.com/hashicorp/go-hclog"
)

// Option is used to enable variadic option passing to the source.
type Option func(s *Source)

// WithLogger sets the logging instance for the source.
func WithLogger(l hclog.Logger) Option {
	return func(s *Source) {
		s.l = l.Named("gamepad")
	}
}

// WithOpener replaces the function used to open controllers, which
// is mostly useful for testing without hardware.
func WithOpener(o Opener) Option {
	return func(s *Source) {
		s.open = o
	}
}

// WithMaxDevices sets how many system joystick IDs are probed during
// a scan.
func WithMaxDevices(n int) Option {
	return func(s *Source) {
		s.maxDevices = n
	}
}
