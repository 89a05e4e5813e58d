package ds

import (
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/gizmo-platform/driverstation/pkg/metrics"
)

// WithLogger configures the parent logging interface.
func WithLogger(l hclog.Logger) Option {
	return func(s *Station) { s.l = l.Named("driver-station") }
}

// WithInputSource sets where controller readings come from.
func WithInputSource(in InputSource) Option {
	return func(s *Station) { s.in = in }
}

// WithChannel sets the key-value channel that values are published
// to.
func WithChannel(kv KeyValueChannel) Option {
	return func(s *Station) { s.kv = kv }
}

// WithConfig sets where endpoint changes are persisted.
func WithConfig(c ConfigStore) Option {
	return func(s *Station) { s.cfg = c }
}

// WithMetrics provides the metrics instance to report into.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Station) { s.m = m }
}

// WithListener adds a listener for state changes.  It may be given
// more than once.
func WithListener(l Listener) Option {
	return func(s *Station) { s.listeners = append(s.listeners, l) }
}

// WithPeriod sets how often the loop ticks.
func WithPeriod(d time.Duration) Option {
	return func(s *Station) { s.period = d }
}

// WithEndpoint records the endpoint the channel was connected to
// before the station was built.
func WithEndpoint(e string) Option {
	return func(s *Station) { s.state.Endpoint = e }
}
