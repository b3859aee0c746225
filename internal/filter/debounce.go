package filter

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiescence window applied to search input.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs only the last function triggered within a quiescence window.
type Debouncer struct {
	mu     sync.Mutex
	clock  Clock
	window time.Duration
	timer  Timer
	gen    uint64
}

func NewDebouncer(clock Clock, window time.Duration) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{clock: clock, window: window}
}

// Trigger (re)starts the window; f runs when it elapses without another Trigger.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		// a timer that fired while being stopped must not run
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		f()
	})
}

// Stop cancels any pending function.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
