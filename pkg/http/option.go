package http

import (
	"errors"

	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrNoStation is returned when the server is built without a
// station to control.
var ErrNoStation = errors.New("no station provided")

// Option enables variadic option passing to the server on startup.
type Option func(*Server) error

// WithPrometheusRegistry sets the Prometheus registry for the server
func WithPrometheusRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) error {
		s.reg = reg
		return nil
	}
}

// WithStation sets the station that the dashboard controls.
func WithStation(st Station) Option {
	return func(s *Server) error {
		s.st = st
		return nil
	}
}

// WithEventStreamer mounts an event stream for live updates.
func WithEventStreamer(es EventStreamer) Option {
	return func(s *Server) error {
		s.es = es
		return nil
	}
}

// WithLogger sets the logger for the server.
func WithLogger(l hclog.Logger) Option {
	return func(s *Server) error {
		s.l = l.Named("web")
		return nil
	}
}
