// Package config persists the driver station's settings in a
// sectioned ini file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/ini.v1"

	"github.com/gizmo-platform/driverstation/pkg/nt"
)

const (
	// DefaultPath is where the config lives when GIZMO_DS_CONFIG
	// is not set.
	DefaultPath = "ds_config.cfg"

	// DefaultTeamNumber is used when no team has been configured.
	DefaultTeamNumber = 2733

	sectionNT      = "NetworkTables"
	sectionStation = "station"

	keyTeamNumber    = "team_number"
	keyServerAddress = "server_address"
	keyPollPeriod    = "poll_period"
	keyHTTPBind      = "http_bind"
	keyScanWait      = "scan_wait"
	keyLocalBroker   = "local_broker"
	keyBrokerBind    = "broker_bind"
	keyConnectTO     = "connect_timeout"
	keyEventQueue    = "event_queue"
)

// ErrBadTeamNumber is returned for team numbers that are not
// positive integers.
var ErrBadTeamNumber = errors.New("team number must be a positive integer")

// Config wraps the ini file on disk.  It is safe for concurrent use.
type Config struct {
	l hclog.Logger

	path string

	mutex sync.Mutex
	f     *ini.File
}

// Path returns the config path from the environment, or the default.
func Path() string {
	if p := os.Getenv("GIZMO_DS_CONFIG"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the config at path.  If the file does not exist it is
// created with default values.
func Load(path string, l hclog.Logger) (*Config, error) {
	if l == nil {
		l = hclog.NewNullLogger()
	}
	c := &Config{l: l.Named("config"), path: path}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c.l.Info("Config not found, creating defaults", "path", path)
		c.f = ini.Empty()
		c.populateDefaults()
		if err := c.Save(); err != nil {
			return nil, err
		}
		return c, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	c.f = f
	c.populateDefaults()
	c.l.Debug("Config loaded", "path", path)
	return c, nil
}

func (c *Config) populateDefaults() {
	c.f.Section(sectionNT).Key(keyTeamNumber).MustInt(DefaultTeamNumber)
	st := c.f.Section(sectionStation)
	st.Key(keyPollPeriod).MustDuration(100 * time.Millisecond)
	if !st.HasKey(keyHTTPBind) {
		st.Key(keyHTTPBind).SetValue(":8080")
	}
	st.Key(keyScanWait).MustDuration(0)
	st.Key(keyLocalBroker).MustBool(false)
	st.Key(keyBrokerBind).MustString(":1883")
	st.Key(keyConnectTO).MustDuration(time.Second)
	st.Key(keyEventQueue).MustInt(16)
}

// Save writes the config back to the path it was loaded from.
func (c *Config) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := c.f.SaveTo(c.path); err != nil {
		c.l.Error("Error saving config", "path", c.path, "error", err)
		return err
	}
	c.l.Debug("Config saved", "path", c.path)
	return nil
}

// TeamNumber returns the configured team number.
func (c *Config) TeamNumber() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.f.Section(sectionNT).Key(keyTeamNumber).MustInt(DefaultTeamNumber)
}

// SetTeamNumber sets the team number.  It is not persisted until Save
// is called.
func (c *Config) SetTeamNumber(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrBadTeamNumber, n)
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.f.Section(sectionNT).Key(keyTeamNumber).SetValue(strconv.Itoa(n))
	return nil
}

// Endpoint returns the address to connect to: the explicit server
// address if one is set, otherwise the team number.
func (c *Config) Endpoint() string {
	c.mutex.Lock()
	addr := c.f.Section(sectionNT).Key(keyServerAddress).String()
	c.mutex.Unlock()

	if addr != "" {
		return addr
	}
	return strconv.Itoa(c.TeamNumber())
}

// SetEndpoint records a new endpoint.  A number is stored as the
// team number and clears any explicit address, anything else is kept
// as the address.
func (c *Config) SetEndpoint(endpoint string) error {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nt.ErrEmptyEndpoint
	}

	if n, err := strconv.Atoi(endpoint); err == nil {
		if err := c.SetTeamNumber(n); err != nil {
			return err
		}
		endpoint = ""
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.f.Section(sectionNT).Key(keyServerAddress).SetValue(endpoint)
	return nil
}

// PollPeriod is how often the station samples and publishes.
func (c *Config) PollPeriod() time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	d := c.f.Section(sectionStation).Key(keyPollPeriod).MustDuration(100 * time.Millisecond)
	if d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}

// HTTPBind is the address for the dashboard.  Empty disables it.
func (c *Config) HTTPBind() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.f.Section(sectionStation).Key(keyHTTPBind).String()
}

// SetHTTPBind changes the dashboard bind address.
func (c *Config) SetHTTPBind(bind string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.f.Section(sectionStation).Key(keyHTTPBind).SetValue(bind)
}

// ScanWait is how long to wait for a first controller at startup.
func (c *Config) ScanWait() time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.f.Section(sectionStation).Key(keyScanWait).MustDuration(0)
}

// LocalBroker reports whether an embedded broker should be started.
func (c *Config) LocalBroker() bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.f.Section(sectionStation).Key(keyLocalBroker).MustBool(false)
}

// SetLocalBroker toggles the embedded broker.
func (c *Config) SetLocalBroker(b bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.f.Section(sectionStation).Key(keyLocalBroker).SetValue(strconv.FormatBool(b))
}

// BrokerBind is where the embedded broker listens.
func (c *Config) BrokerBind() string {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.f.Section(sectionStation).Key(keyBrokerBind).MustString(":1883")
}

// ConnectTimeout bounds each attempt to open a session to the robot.
func (c *Config) ConnectTimeout() time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	d := c.f.Section(sectionStation).Key(keyConnectTO).MustDuration(time.Second)
	if d <= 0 {
		return time.Second
	}
	return d
}

// EventQueue is how many dashboard events may wait for a slow
// browser before it is disconnected.
func (c *Config) EventQueue() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	n := c.f.Section(sectionStation).Key(keyEventQueue).MustInt(16)
	if n <= 0 {
		return 16
	}
	return n
}
