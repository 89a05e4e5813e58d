package mqttserver

import (
	"github.com/hashicorp/go-hclog"
)

// Option enables variadic option passing to the server on startup.
type Option func(*Server) error

// WithLogger sets the logger for the server.
func WithLogger(l hclog.Logger) Option {
	return func(s *Server) error {
		s.l = l.Named("mqtt")
		return nil
	}
}

// WithClientPrefix sets the client ID prefix that marks a client as a
// driver station.
func WithClientPrefix(p string) Option {
	return func(s *Server) error {
		s.clientPrefix = p
		return nil
	}
}

// WithTableName sets the table whose topics are protected and tapped.
func WithTableName(t string) Option {
	return func(s *Server) error {
		s.table = t
		return nil
	}
}
