package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gizmo-platform/driverstation/pkg/nt"
)

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds_config.cfg")

	c, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.TeamNumber() != DefaultTeamNumber {
		t.Errorf("team number = %d", c.TeamNumber())
	}
	if c.Endpoint() != "2733" {
		t.Errorf("endpoint = %q", c.Endpoint())
	}
	if c.PollPeriod() != 100*time.Millisecond {
		t.Errorf("poll period = %s", c.PollPeriod())
	}
	if c.HTTPBind() != ":8080" {
		t.Errorf("http bind = %q", c.HTTPBind())
	}
	if c.ConnectTimeout() != time.Second {
		t.Errorf("connect timeout = %s", c.ConnectTimeout())
	}
	if c.EventQueue() != 16 {
		t.Errorf("event queue = %d", c.EventQueue())
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config was not written: %v", err)
	}
	if !strings.Contains(string(buf), "[NetworkTables]") || !strings.Contains(string(buf), "team_number") {
		t.Errorf("unexpected config contents:\n%s", buf)
	}
}

func TestLoadExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds.cfg")
	contents := "[NetworkTables]\nteam_number = 42\n\n[station]\npoll_period = 20ms\nhttp_bind =\nlocal_broker = true\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.TeamNumber() != 42 {
		t.Errorf("team number = %d", c.TeamNumber())
	}
	if c.PollPeriod() != 20*time.Millisecond {
		t.Errorf("poll period = %s", c.PollPeriod())
	}
	if c.HTTPBind() != "" {
		t.Errorf("an empty http_bind must disable the dashboard, got %q", c.HTTPBind())
	}
	if !c.LocalBroker() {
		t.Error("local broker should be enabled")
	}
	if c.BrokerBind() != ":1883" {
		t.Errorf("broker bind = %q", c.BrokerBind())
	}
}

func TestSetEndpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds.cfg")
	c, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := c.SetEndpoint("robot.local"); err != nil {
		t.Fatal(err)
	}
	if err := c.Save(); err != nil {
		t.Fatal(err)
	}

	c2, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c2.Endpoint() != "robot.local" {
		t.Errorf("endpoint = %q", c2.Endpoint())
	}

	if err := c2.SetEndpoint("1234"); err != nil {
		t.Fatal(err)
	}
	if c2.TeamNumber() != 1234 || c2.Endpoint() != "1234" {
		t.Errorf("team = %d, endpoint = %q", c2.TeamNumber(), c2.Endpoint())
	}
}

func TestSetEndpointErrors(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "ds.cfg"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.SetEndpoint("  "); !errors.Is(err, nt.ErrEmptyEndpoint) {
		t.Errorf("expected ErrEmptyEndpoint, got %v", err)
	}
	if err := c.SetEndpoint("-1"); !errors.Is(err, ErrBadTeamNumber) {
		t.Errorf("expected ErrBadTeamNumber, got %v", err)
	}
	if err := c.SetTeamNumber(0); !errors.Is(err, ErrBadTeamNumber) {
		t.Errorf("expected ErrBadTeamNumber, got %v", err)
	}
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv("GIZMO_DS_CONFIG", "/tmp/elsewhere.cfg")
	if Path() != "/tmp/elsewhere.cfg" {
		t.Errorf("path = %q", Path())
	}
	t.Setenv("GIZMO_DS_CONFIG", "")
	if Path() != DefaultPath {
		t.Errorf("path = %q", Path())
	}
}

func TestStationTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ds.cfg")
	contents := "[station]\nconnect_timeout = 250ms\nevent_queue = 64\n"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.ConnectTimeout() != 250*time.Millisecond {
		t.Errorf("connect timeout = %s", c.ConnectTimeout())
	}
	if c.EventQueue() != 64 {
		t.Errorf("event queue = %d", c.EventQueue())
	}
}
