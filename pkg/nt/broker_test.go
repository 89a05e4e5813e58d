package nt_test

import (
	"net"
	"testing"
	"time"

	"github.com/gizmo-platform/driverstation/pkg/mqttserver"
	"github.com/gizmo-platform/driverstation/pkg/nt"
)

func startBroker(t *testing.T) (*mqttserver.Server, string) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("no free port: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	s, err := mqttserver.NewServer()
	if err != nil {
		t.Fatalf("could not build broker: %v", err)
	}
	if err := s.Serve(addr); err != nil {
		t.Fatalf("could not start broker: %v", err)
	}
	t.Cleanup(func() { s.Shutdown() })
	return s, addr
}

func waitForValues(t *testing.T, s *mqttserver.Server, want map[string]string) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		got := s.Values()
		match := true
		for k, v := range want {
			if got[k] != v {
				match = false
			}
		}
		if match {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("broker has %v, want %v", got, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWritesBeforeConnectAreDelivered(t *testing.T) {
	srv, addr := startBroker(t)

	ch := nt.New(nt.NewMQTTClient())
	ch.Connect(addr)
	defer ch.Shutdown()

	// Written straight away, before the session has had a chance
	// to open.
	ch.PublishMode("autonomous")
	ch.PublishEnabled(false)
	ch.PublishAxis(0, 1, 0.5)
	ch.PublishButton(0, 2, true)

	waitForValues(t, srv, map[string]string{
		"/mode":                `"autonomous"`,
		"/enabled":             "false",
		"/joystick-0/axis-1":   "0.5",
		"/joystick-0/button-2": "true",
	})
	if !ch.Connected() {
		t.Error("channel delivered values but reports disconnected")
	}
}

func TestReconnectMovesToSecondBroker(t *testing.T) {
	first, addrA := startBroker(t)
	second, addrB := startBroker(t)

	ch := nt.New(nt.NewMQTTClient())
	ch.Connect(addrA)
	defer ch.Shutdown()

	ch.PublishMode("teleop")
	ch.PublishEnabled(true)
	waitForValues(t, first, map[string]string{"/mode": `"teleop"`, "/enabled": "true"})

	ch.Reconnect(addrB)
	ch.PublishMode("teleop")
	ch.PublishEnabled(false)
	waitForValues(t, second, map[string]string{"/mode": `"teleop"`, "/enabled": "false"})

	if v := first.Values()["/enabled"]; v != "true" {
		t.Errorf("old broker saw a write after the session moved: %s", v)
	}
	if ch.Endpoint() != addrB {
		t.Errorf("endpoint = %q", ch.Endpoint())
	}
}
