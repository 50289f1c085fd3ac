package player

import (
	"sync"
	"time"
)

// TapDecoder turns raw fast-forward presses into gestures. A first press waits
// DoubleTapWindow for a second one; two presses inside the window are a double tap.
// With fast gestures disabled every press is a single tap and holds are ignored.
type TapDecoder struct {
	mu      sync.Mutex
	sched   Scheduler
	enabled bool

	single func()
	double func()
	long   func()

	pending bool
	timer   Timer
	gen     uint64
}

// NewTapDecoder wires the decoder straight to an engine's controls.
func NewTapDecoder(e *Engine, fastGestures bool) *TapDecoder {
	return &TapDecoder{
		sched:   e.sched,
		enabled: fastGestures,
		single:  e.FastForward,
		double:  e.FastForwardToEnd,
		long:    e.Accelerate,
	}
}

func (d *TapDecoder) Press() {
	if !d.enabled {
		d.single()
		return
	}

	d.mu.Lock()
	if d.pending {
		d.timer.Stop()
		d.pending = false
		d.gen++
		d.mu.Unlock()
		d.double()
		return
	}

	d.pending = true
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(DoubleTapWindow, func() { d.fire(gen) })
	d.mu.Unlock()
}

// Hold reports a press that lasted for held. Long enough holds accelerate the run;
// short ones count as a press.
func (d *TapDecoder) Hold(held time.Duration) {
	if !d.enabled {
		d.single()
		return
	}
	if held < LongPressThreshold {
		d.Press()
		return
	}

	d.mu.Lock()
	if d.pending {
		d.timer.Stop()
		d.pending = false
		d.gen++
	}
	d.mu.Unlock()
	d.long()
}

func (d *TapDecoder) fire(gen uint64) {
	d.mu.Lock()
	if !d.pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()
	d.single()
}
