package eventstream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/hashicorp/go-hclog"

	"github.com/gizmo-platform/driverstation/pkg/ds"
)

func dial(t *testing.T, es *EventStream) (*websocket.Conn, context.Context) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(es.Handler))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })

	deadline := time.Now().Add(time.Second)
	for es.Subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return c, ctx
}

func readEvent(t *testing.T, ctx context.Context, c *websocket.Conn) map[string]interface{} {
	t.Helper()

	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	out := make(map[string]interface{})
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("bad event %q: %v", data, err)
	}
	return out
}

func TestStateChanged(t *testing.T) {
	es := New(hclog.NewNullLogger())
	c, ctx := dial(t, es)

	es.StateChanged(ds.State{
		Mode:        ds.ModeTeleop,
		Enable:      ds.Disabled,
		Connected:   true,
		Endpoint:    "10.27.33.2",
		Controllers: 2,
	})

	ev := readEvent(t, ctx, c)
	if ev["Type"] != float64(EventTypeState) {
		t.Errorf("wrong type %v", ev["Type"])
	}
	if ev["Mode"] != "teleop" || ev["Enable"] != "disabled" {
		t.Errorf("selections not rendered by name: %v", ev)
	}
	if ev["Connected"] != true || ev["Controllers"] != float64(2) {
		t.Errorf("unexpected event %v", ev)
	}
}

func TestStatusAndError(t *testing.T) {
	es := New(hclog.NewNullLogger())
	c, ctx := dial(t, es)

	es.StatusChanged(true)
	es.PublishError(errors.New("stalled"))

	ev := readEvent(t, ctx, c)
	if ev["Type"] != float64(EventTypeStatus) || ev["Connected"] != true {
		t.Errorf("unexpected status event %v", ev)
	}
	ev = readEvent(t, ctx, c)
	if ev["Type"] != float64(EventTypeError) || ev["Error"] != "stalled" {
		t.Errorf("unexpected error event %v", ev)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	es := New(hclog.NewNullLogger())
	es.PublishLogLine("nobody is listening")
	if n := es.Subscribers(); n != 0 {
		t.Errorf("expected no subscribers, got %d", n)
	}
}

func TestLogLine(t *testing.T) {
	es := New(hclog.NewNullLogger())
	c, ctx := dial(t, es)

	es.PublishLogLine("[LOG] => Connected to 10.27.33.2")

	ev := readEvent(t, ctx, c)
	if ev["Type"] != float64(EventTypeLogLine) || ev["Message"] != "[LOG] => Connected to 10.27.33.2" {
		t.Errorf("unexpected log event %v", ev)
	}
}

func TestMaxUndelivered(t *testing.T) {
	if n := New(hclog.NewNullLogger()).maxUndelivered; n != 16 {
		t.Errorf("default queue depth = %d", n)
	}
	if n := New(hclog.NewNullLogger(), WithMaxUndelivered(64)).maxUndelivered; n != 64 {
		t.Errorf("queue depth = %d", n)
	}
}
