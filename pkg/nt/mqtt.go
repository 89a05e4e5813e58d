package nt

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// DefaultPort is the broker port used when an endpoint does not
// specify one.
const DefaultPort = 1883

// DefaultClientPrefix starts the client ID of every driver station
// session.
const DefaultClientPrefix = "gizmo-ds"

// ErrEmptyEndpoint is returned when an endpoint cannot be resolved
// because there is nothing to resolve.
var ErrEmptyEndpoint = errors.New("endpoint is empty")

// ResolveAddress turns an endpoint as typed by a user into a broker
// URL.  A bare team number resolves to the robot's address on the
// team network, 10.TE.AM.2.
func ResolveAddress(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", ErrEmptyEndpoint
	}

	if strings.Contains(endpoint, "://") {
		return endpoint, nil
	}

	if team, err := strconv.Atoi(endpoint); err == nil {
		if team <= 0 {
			return "", fmt.Errorf("bad team number: %d", team)
		}
		return fmt.Sprintf("mqtt://10.%d.%d.2:%d", team/100, team%100, DefaultPort), nil
	}

	if _, _, err := net.SplitHostPort(endpoint); err == nil {
		return "mqtt://" + endpoint, nil
	}
	return "mqtt://" + net.JoinHostPort(endpoint, strconv.Itoa(DefaultPort)), nil
}

// TopicFor maps a key within a table to the topic it is published on.
func TopicFor(table, key string) string {
	return path.Join(table, strings.TrimPrefix(key, "/"))
}

// MQTTClient implements Client on top of an MQTT broker.  Every key
// is a retained topic so that a robot joining late still sees the
// most recent value.
type MQTTClient struct {
	l hclog.Logger

	prefix  string
	timeout time.Duration

	mutex sync.Mutex
	m     mqtt.Client

	// last holds the newest payload of every topic written during
	// the current session.
	last map[string][]byte
}

// NewMQTTClient returns a client with no active session.
func NewMQTTClient(opts ...MQTTOption) *MQTTClient {
	c := &MQTTClient{
		l:       hclog.NewNullLogger(),
		prefix:  DefaultClientPrefix,
		timeout: time.Second,
	}

	for _, o := range opts {
		o(c)
	}
	return c
}

// Initialize starts a session to the server.  The connection is made
// in the background.  Until it opens IsConnected reports false and
// writes are held, newest value per key, to be sent as soon as the
// broker accepts the session.  They are sent again after every
// automatic reconnect.
func (c *MQTTClient) Initialize(server string) error {
	addr, err := ResolveAddress(server)
	if err != nil {
		return err
	}

	id := c.prefix + "-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	copts := mqtt.NewClientOptions().
		AddBroker(addr).
		SetAutoReconnect(true).
		SetClientID(id).
		SetConnectRetry(true).
		SetConnectTimeout(c.timeout).
		SetConnectRetryInterval(time.Second).
		SetOnConnectHandler(func(m mqtt.Client) {
			c.l.Info("Connected to broker", "broker", addr)
			c.replay(m)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			c.l.Warn("Lost connection to broker", "broker", addr, "error", err)
		})
	m := mqtt.NewClient(copts)

	c.mutex.Lock()
	c.m = m
	c.last = make(map[string][]byte)
	c.mutex.Unlock()

	c.l.Debug("Starting session", "broker", addr, "client", id)
	tok := m.Connect()
	go func() {
		if tok.Wait() && tok.Error() != nil {
			c.l.Warn("Error connecting to broker", "broker", addr, "error", tok.Error())
		}
	}()
	return nil
}

// GetTable returns a handle to the named table on the current
// session.
func (c *MQTTClient) GetTable(name string) Table {
	return &mqttTable{l: c.l, c: c, name: name}
}

// IsConnected reports whether the connection to the broker is open.
func (c *MQTTClient) IsConnected() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.m != nil && c.m.IsConnectionOpen()
}

// Shutdown disconnects from the broker, if connected.  Held values
// are discarded with the session.
func (c *MQTTClient) Shutdown() {
	c.mutex.Lock()
	m := c.m
	c.m = nil
	c.last = nil
	c.mutex.Unlock()

	if m == nil {
		return
	}
	m.Disconnect(250)
	c.l.Debug("Session closed")
}

// put records the payload and sends it if the connection is open.
// It shares the lock with replay, so a replay never sends a value
// older than one already published.
func (c *MQTTClient) put(topic string, payload []byte) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.m == nil {
		return
	}
	c.last[topic] = payload
	if !c.m.IsConnectionOpen() {
		return
	}

	// Not waited on: a slow broker must never stall the loop.
	c.m.Publish(topic, 0, true, payload)
}

func (c *MQTTClient) replay(m mqtt.Client) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// A handler from a session that has since been shut down.
	if c.m != m {
		return
	}
	for topic, payload := range c.last {
		m.Publish(topic, 0, true, payload)
	}
	c.l.Debug("Replayed table", "keys", len(c.last))
}

type mqttTable struct {
	l    hclog.Logger
	c    *MQTTClient
	name string
}

func (t *mqttTable) PutNumber(key string, value float64) { t.put(key, value) }
func (t *mqttTable) PutBoolean(key string, value bool)   { t.put(key, value) }
func (t *mqttTable) PutString(key string, value string)  { t.put(key, value) }

func (t *mqttTable) put(key string, value interface{}) {
	bytes, err := json.Marshal(value)
	if err != nil {
		t.l.Warn("Error marshalling value", "key", key, "error", err)
		return
	}
	t.c.put(TopicFor(t.name, key), bytes)
}
