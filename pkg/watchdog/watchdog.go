// Package watchdog bites when a loop stops feeding it.
package watchdog

import (
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Option changes features on the dog.
type Option func(*Dog)

// The DogHandFunc is the hand that the dog bites if it doesn't get
// fed frequently enough.
type DogHandFunc func()

// Dog handles the time since its last fed, and the callback that will
// happen if the Dog decides to bite people.
type Dog struct {
	l hclog.Logger

	name string

	mutex   sync.Mutex
	t       *time.Timer
	stopped bool

	biteFunc     DogHandFunc
	foodDuration time.Duration
}

// New gets you a new watchdog.  The dog starts hungry: it will bite
// after one food duration unless fed.
func New(opts ...Option) *Dog {
	d := &Dog{
		name: "spot",
		l:    hclog.NewNullLogger(),

		biteFunc:     func() {},
		foodDuration: time.Second * 10,
	}
	for _, o := range opts {
		o(d)
	}
	d.t = time.AfterFunc(d.foodDuration, d.Bite)
	return d
}

// Bite calls the BiteFunction.  The dog stays quiet after biting until
// it is fed again.
func (d *Dog) Bite() {
	d.mutex.Lock()
	if d.stopped {
		d.mutex.Unlock()
		return
	}
	d.t.Stop()
	d.mutex.Unlock()

	d.l.Error("BITE!", "dog", d.name)
	d.biteFunc()
}

// Feed convinces the dog not to bite for the values specified during
// initialization, by default another 10 seconds.
func (d *Dog) Feed() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.stopped {
		return
	}
	d.t.Reset(d.foodDuration)
}

// Stop puts the dog away.  It will not bite again, even if fed.
func (d *Dog) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.stopped = true
	d.t.Stop()
	d.l.Debug("Dog stopped", "dog", d.name)
}

// WithHandFunction sets up the hand that the dog will bite.  Not
// setting this kind of defeats the point of having a watchdog.
func WithHandFunction(f DogHandFunc) Option { return func(d *Dog) { d.biteFunc = f } }

// WithFoodDuration sets up how long the dog stays fed for when you
// call Feed().
func WithFoodDuration(fd time.Duration) Option { return func(d *Dog) { d.foodDuration = fd } }

// WithName names the dog.  If you don't specify this, you'll likely
// get bit by a dog named spot.
func WithName(n string) Option { return func(d *Dog) { d.name = n } }

// WithLogger provides a logging instance to the watchdog.
func WithLogger(l hclog.Logger) Option { return func(d *Dog) { d.l = l.Named("watchdog") } }
