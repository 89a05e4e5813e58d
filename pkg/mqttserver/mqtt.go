// Package mqttserver runs a small MQTT broker for the driver station
// to publish into, for robots that expect the station to host the
// table rather than connect to one.
package mqttserver

import (
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/mochi-mqtt/server/v2/packets"

	"github.com/gizmo-platform/driverstation/pkg/nt"
)

const tapSubscriptionID = 1

// Server binds the server's methods
type Server struct {
	l hclog.Logger
	s *mqtt.Server
	h *StationHook

	clientPrefix string
	table        string

	valuesMutex sync.RWMutex
	values      map[string]string
}

// NewServer returns a broker that is ready to Serve.
func NewServer(opts ...Option) (*Server, error) {
	x := Server{
		l:            hclog.NewNullLogger(),
		s:            mqtt.New(&mqtt.Options{InlineClient: true}),
		clientPrefix: nt.DefaultClientPrefix,
		table:        nt.TableName,
		values:       make(map[string]string),
	}

	for _, o := range opts {
		if err := o(&x); err != nil {
			return nil, err
		}
	}
	x.h = newHook(x.l, x.clientPrefix, x.table)
	if err := x.s.AddHook(x.h, nil); err != nil {
		return nil, err
	}
	if err := x.s.Subscribe(x.table+"/#", tapSubscriptionID, x.tap); err != nil {
		return nil, err
	}
	return &x, nil
}

// Serve binds and serves mqtt on the bound socket.  An error will be
// returned if the server cannot initialize.
func (s *Server) Serve(bind string) error {
	s.l.Info("MQTT is starting", "bind", bind)
	l := listeners.NewTCP(listeners.Config{
		ID:      "tcp",
		Address: bind,
	})
	if err := s.s.AddListener(l); err != nil {
		return err
	}
	return s.s.Serve()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.l.Info("Stopping...")
	return s.s.Close()
}

// Peers returns the number of connected clients.
func (s *Server) Peers() int {
	return s.h.Peers()
}

// Values returns the most recent payload seen for every key in the
// table, keyed by the table key.
func (s *Server) Values() map[string]string {
	s.valuesMutex.RLock()
	defer s.valuesMutex.RUnlock()

	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

func (s *Server) tap(cl *mqtt.Client, sub packets.Subscription, pk packets.Packet) {
	key := "/" + strings.TrimPrefix(pk.TopicName, s.table+"/")

	s.valuesMutex.Lock()
	s.values[key] = string(pk.Payload)
	s.valuesMutex.Unlock()

	s.l.Debug("Key updated", "key", key, "value", string(pk.Payload), "client", cl.ID)
}
