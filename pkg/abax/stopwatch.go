package abax

import "time"

// timeSource returns the elapsed time on some monotonic clock.
type timeSource func() time.Duration

// Stopwatch accumulates time between Start and Stop calls, like the hand
// held one. The phase timers of a run (Timers) are stopwatches driven by
// the process CPU clock or the wall clock.
type Stopwatch struct {
	source  timeSource
	total   time.Duration
	started time.Duration
	running bool
}

func newStopwatch(source timeSource) *Stopwatch {
	return &Stopwatch{source: source}
}

// NewCPUStopwatch returns a stopwatch over the CPU time consumed by the
// process. On platforms without CPU time accounting it degrades to wall
// clock time.
func NewCPUStopwatch() *Stopwatch {
	epoch, ok := cpuTime()
	if !ok {
		return NewWallStopwatch()
	}
	return newStopwatch(func() time.Duration {
		now, _ := cpuTime()
		return now - epoch
	})
}

// NewWallStopwatch returns a stopwatch over elapsed wall clock time.
func NewWallStopwatch() *Stopwatch {
	epoch := time.Now()
	return newStopwatch(func() time.Duration {
		return time.Since(epoch)
	})
}

// Start begins a measurement. Starting a running stopwatch is fatal, that
// always indicates an unbalanced Start/Stop pair in a phase timer.
func (w *Stopwatch) Start() {
	if w.running {
		failf(FailIllegalParameter, "stopwatch started twice")
	}
	w.started = w.source()
	w.running = true
}

// Stop ends a measurement and adds it to the total.
func (w *Stopwatch) Stop() {
	if !w.running {
		failf(FailIllegalParameter, "stopwatch stopped but not running")
	}
	w.total += w.source() - w.started
	w.running = false
}

// Reset stops the stopwatch if needed and clears the total.
func (w *Stopwatch) Reset() {
	w.total = 0
	w.running = false
}

func (w *Stopwatch) Running() bool {
	return w.running
}

// Total returns the accumulated time, including the currently running
// measurement.
func (w *Stopwatch) Total() time.Duration {
	if w.running {
		return w.total + w.source() - w.started
	}
	return w.total
}

// Exceeds reports whether the accumulated time has reached the limit. A
// zero limit is exceeded immediately.
func (w *Stopwatch) Exceeds(limit time.Duration) bool {
	return w.Total() >= limit
}
