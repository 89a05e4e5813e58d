package watchdog

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestBitesWhenHungry(t *testing.T) {
	bit := make(chan struct{}, 1)
	New(
		WithName("rex"),
		WithFoodDuration(10*time.Millisecond),
		WithHandFunction(func() { bit <- struct{}{} }),
	)

	select {
	case <-bit:
	case <-time.After(time.Second):
		t.Fatal("dog never bit")
	}
}

func TestFeedingPreventsBite(t *testing.T) {
	var bites int32
	d := New(
		WithFoodDuration(100*time.Millisecond),
		WithHandFunction(func() { atomic.AddInt32(&bites, 1) }),
	)
	defer d.Stop()

	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		d.Feed()
	}
	if n := atomic.LoadInt32(&bites); n != 0 {
		t.Errorf("fed dog bit %d times", n)
	}
}

func TestStoppedDogDoesNotBite(t *testing.T) {
	var bites int32
	d := New(
		WithFoodDuration(10*time.Millisecond),
		WithHandFunction(func() { atomic.AddInt32(&bites, 1) }),
	)
	d.Stop()
	d.Feed()
	time.Sleep(50 * time.Millisecond)
	d.Bite()

	if n := atomic.LoadInt32(&bites); n != 0 {
		t.Errorf("stopped dog bit %d times", n)
	}
}
