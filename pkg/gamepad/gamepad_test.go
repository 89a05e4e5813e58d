package gamepad

import (
	"errors"
	"testing"

	"github.com/0xcafed00d/joystick"
)

type fakeJoystick struct {
	name    string
	axes    []int
	buttons uint32
	nButton int

	reads  int
	closed bool
}

func (f *fakeJoystick) AxisCount() int   { return len(f.axes) }
func (f *fakeJoystick) ButtonCount() int { return f.nButton }
func (f *fakeJoystick) Name() string     { return f.name }
func (f *fakeJoystick) Close()           { f.closed = true }

func (f *fakeJoystick) Read() (joystick.State, error) {
	f.reads++
	return joystick.State{AxisData: append([]int(nil), f.axes...), Buttons: f.buttons}, nil
}

func openerFor(sticks map[int]*fakeJoystick) Opener {
	return func(id int) (joystick.Joystick, error) {
		js, ok := sticks[id]
		if !ok {
			return nil, errors.New("no such device")
		}
		return js, nil
	}
}

func newTestSource(sticks map[int]*fakeJoystick) *Source {
	return New(WithOpener(openerFor(sticks)), WithMaxDevices(8))
}

func TestScanCount(t *testing.T) {
	sticks := map[int]*fakeJoystick{
		0: {name: "a", axes: []int{0}},
		2: {name: "b", axes: []int{0, 0}},
		5: {name: "c"},
		7: {name: "d"},
	}
	s := newTestSource(sticks)

	found, err := s.Scan()
	if err != nil {
		t.Fatalf("unexpected scan error: %v", err)
	}
	if len(found) != 4 || s.Count() != 4 {
		t.Fatalf("expected 4 controllers, got %d (count %d)", len(found), s.Count())
	}
	for i, c := range found {
		if c.Index != i {
			t.Errorf("controller %d has index %d", i, c.Index)
		}
	}
	if found[1].Name != "b" || found[1].Axes != 2 {
		t.Errorf("unexpected second controller: %+v", found[1])
	}
}

func TestScanTwice(t *testing.T) {
	s := newTestSource(map[int]*fakeJoystick{0: {name: "a"}})
	if _, err := s.Scan(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Scan(); !errors.Is(err, ErrAlreadyScanned) {
		t.Errorf("expected ErrAlreadyScanned, got %v", err)
	}
}

func TestScanEmptyCanRepeat(t *testing.T) {
	s := newTestSource(map[int]*fakeJoystick{})
	for i := 0; i < 2; i++ {
		found, err := s.Scan()
		if err != nil || len(found) != 0 {
			t.Fatalf("scan %d: found %d, err %v", i, len(found), err)
		}
	}
}

func TestSample(t *testing.T) {
	js := &fakeJoystick{
		name:    "pad",
		axes:    []int{0, maxAxisValue, -maxAxisValue},
		buttons: 0b110,
		nButton: 3,
	}
	s := newTestSource(map[int]*fakeJoystick{0: js, 1: js, 2: js})
	if _, err := s.Scan(); err != nil {
		t.Fatal(err)
	}
	if err := s.Pump(); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Sample(0)
	if err != nil {
		t.Fatalf("unexpected sample error: %v", err)
	}

	wantAxes := []float64{0.0, 1.0, -1.0}
	wantButtons := []bool{false, true, true}
	if len(snap.Axes) != len(wantAxes) || len(snap.Buttons) != len(wantButtons) {
		t.Fatalf("bad snapshot shape: %+v", snap)
	}
	for i := range wantAxes {
		if snap.Axes[i] != wantAxes[i] {
			t.Errorf("axis %d: got %v want %v", i, snap.Axes[i], wantAxes[i])
		}
	}
	for i := range wantButtons {
		if snap.Buttons[i] != wantButtons[i] {
			t.Errorf("button %d: got %v want %v", i, snap.Buttons[i], wantButtons[i])
		}
	}

	for _, idx := range []int{3, -1} {
		if _, err := s.Sample(idx); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Sample(%d): expected ErrOutOfRange, got %v", idx, err)
		}
	}
}

func TestSampleBeforePump(t *testing.T) {
	js := &fakeJoystick{axes: []int{100, 200}, nButton: 4, buttons: 0xf}
	s := newTestSource(map[int]*fakeJoystick{0: js})
	if _, err := s.Scan(); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Sample(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Axes) != 2 || len(snap.Buttons) != 4 {
		t.Fatalf("counts must match scan time, got %+v", snap)
	}
	for i, v := range snap.Axes {
		if v != 0 {
			t.Errorf("axis %d should be zero before the first pump, got %v", i, v)
		}
	}
	if js.reads != 0 {
		t.Errorf("sample must not read the device, saw %d reads", js.reads)
	}
}

func TestPumpReadsEveryDevice(t *testing.T) {
	a := &fakeJoystick{}
	b := &fakeJoystick{}
	s := newTestSource(map[int]*fakeJoystick{0: a, 1: b})
	if _, err := s.Scan(); err != nil {
		t.Fatal(err)
	}
	s.Pump()
	s.Pump()
	if a.reads != 2 || b.reads != 2 {
		t.Errorf("expected 2 reads each, got %d and %d", a.reads, b.reads)
	}
}

func TestRelease(t *testing.T) {
	a := &fakeJoystick{}
	s := newTestSource(map[int]*fakeJoystick{0: a})
	if _, err := s.Scan(); err != nil {
		t.Fatal(err)
	}
	if err := s.Release(); err != nil {
		t.Fatal(err)
	}
	if !a.closed {
		t.Error("controller was not closed")
	}
	if err := s.Pump(); !errors.Is(err, ErrReleased) {
		t.Errorf("Pump after release: %v", err)
	}
	if _, err := s.Sample(0); !errors.Is(err, ErrReleased) {
		t.Errorf("Sample after release: %v", err)
	}
}

func TestNormalizeClamps(t *testing.T) {
	if v := normalize(-32768); v != -1 {
		t.Errorf("expected clamp to -1, got %v", v)
	}
	if v := normalize(maxAxisValue / 2); v <= 0.49 || v >= 0.51 {
		t.Errorf("expected about 0.5, got %v", v)
	}
}
