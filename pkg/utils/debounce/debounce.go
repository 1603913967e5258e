// Package debounce collapses bursts of calls into a single delayed call.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delays fn until no Trigger happened for the configured delay.
// Only the value passed to the last Trigger in a burst is delivered.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu         sync.Mutex
	idle       *sync.Cond
	timer      *time.Timer
	pending    T
	hasPending bool
	seq        uint64
	stopped    bool
	running    int
}

// New creates a Debouncer calling fn after delay of inactivity
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	d := &Debouncer[T]{
		delay: delay,
		fn:    fn,
	}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Delay returns the quiet period of the debouncer
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Trigger records v and restarts the delay window
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.pending = v
	d.hasPending = true
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// fire runs fn unless the window was restarted, cancelled or flushed after the timer was armed.
func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq || !d.hasPending {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.running++
	d.mu.Unlock()

	d.call(v)
}

func (d *Debouncer[T]) call(v T) {
	defer func() {
		d.mu.Lock()
		d.running--
		if d.running == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()
	d.fn(v)
}

// Wait blocks until every call of fn that has started returns. Calls
// still waiting for their window are not waited for.
func (d *Debouncer[T]) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.running > 0 {
		d.idle.Wait()
	}
}

// take must be called with mu held
func (d *Debouncer[T]) take() T {
	v := d.pending
	var zero T
	d.pending = zero
	d.hasPending = false
	return v
}

// Pending reports whether a call is waiting for its window to elapse
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

// Cancel drops the pending call, if any
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.take()
}

// Flush delivers the pending call immediately. It returns false when nothing was pending.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.stopped || !d.hasPending {
		d.mu.Unlock()
		return false
	}
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	v := d.take()
	d.running++
	d.mu.Unlock()

	d.call(v)
	return true
}

// Stop cancels the pending call and ignores every later Trigger.
// It is the unmount hook of the owner.
func (d *Debouncer[T]) Stop() {
	d.Cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
}
