package mqttserver

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
)

func client(id, remote string) *mqtt.Client {
	return &mqtt.Client{ID: id, Net: mqtt.ClientConnection{Remote: remote}}
}

func TestACL(t *testing.T) {
	h := newHook(hclog.NewNullLogger(), "gizmo-ds", "driver_station")

	cases := []struct {
		name  string
		cl    *mqtt.Client
		topic string
		write bool
		want  bool
	}{
		{"read anything", client("robot", "10.27.33.2:5000"), "driver_station/mode", false, true},
		{"station writes", client("gizmo-ds-1234", "10.27.33.5:5000"), "driver_station/mode", true, true},
		{"loopback writes", client("tool", "127.0.0.1:5000"), "driver_station/enabled", true, true},
		{"stranger writes", client("robot", "10.27.33.2:5000"), "driver_station/enabled", true, false},
		{"bad remote", client("robot", "garbage"), "driver_station/enabled", true, false},
		{"outside table", client("robot", "10.27.33.2:5000"), "robot/telemetry", true, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := h.OnACLCheck(c.cl, c.topic, c.write); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestPeerCount(t *testing.T) {
	h := newHook(hclog.NewNullLogger(), "gizmo-ds", "driver_station")
	cl := client("gizmo-ds-1", "127.0.0.1:5000")

	h.OnSessionEstablished(cl, packets.Packet{})
	h.OnSessionEstablished(cl, packets.Packet{})
	if n := h.Peers(); n != 2 {
		t.Errorf("expected 2 peers, got %d", n)
	}

	h.OnDisconnect(cl, nil, false)
	h.OnDisconnect(cl, nil, false)
	h.OnDisconnect(cl, nil, false)
	if n := h.Peers(); n != 0 {
		t.Errorf("expected 0 peers, got %d", n)
	}
}

func TestTapRecordsValues(t *testing.T) {
	s, err := NewServer()
	if err != nil {
		t.Fatalf("could not build server: %v", err)
	}
	defer s.Shutdown()

	if err := s.s.Publish("driver_station/joystick-0/axis-1", []byte("0.5"), true, 0); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := s.s.Publish("elsewhere/thing", []byte("1"), false, 0); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		v := s.Values()
		if v["/joystick-0/axis-1"] == "0.5" {
			if len(v) != 1 {
				t.Errorf("tap saw topics outside the table: %v", v)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("tap never saw the update: %v", v)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
