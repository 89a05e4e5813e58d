package mdns

import (
	"testing"
)

func TestNewService(t *testing.T) {
	s, err := newService(2733, "192.168.1.20:1883")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Instance != "gizmo-ds-2733" || s.Service != ServiceType || s.Port != 1883 {
		t.Errorf("unexpected service %+v", s)
	}
	if len(s.IPs) != 1 || s.IPs[0].String() != "192.168.1.20" {
		t.Errorf("unexpected addresses %v", s.IPs)
	}
}

func TestNewServiceBadBind(t *testing.T) {
	for _, bind := range []string{"nope", "127.0.0.1:http"} {
		if _, err := newService(1, bind); err == nil {
			t.Errorf("expected an error for %q", bind)
		}
	}
}
