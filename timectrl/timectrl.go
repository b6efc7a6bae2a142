// Package timectrl steps a simulated clock across a time window and
// notifies listeners at every instant. The link budget CLI uses it to
// sweep a satellite pass.
package timectrl

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Mode describes how the TimeController advances simulation time.
type Mode int

const (
	// RealTime waits one Tick of wall-clock time per step.
	RealTime Mode = iota
	// Accelerated steps as soon as the listeners return.
	Accelerated
)

// ErrInvalidTick is returned by Run when Tick is not positive.
var ErrInvalidTick = errors.New("timectrl: tick must be positive")

// Listener is invoked with the simulated instant. A non-nil error stops
// the run.
type Listener func(time.Time) error

// TimeController drives simulation time and notifies registered listeners.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration
	Mode      Mode

	currentTime time.Time

	listeners []Listener
}

// NewTimeController constructs a controller.
func NewTimeController(start time.Time, tick time.Duration, mode Mode) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		Mode:        mode,
		currentTime: start,
	}
}

// Now returns the current simulation time.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// SetTime moves the simulation clock without notifying listeners.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	tc.currentTime = t
	tc.mu.Unlock()
}

// AddListener registers a callback invoked on every step.
func (tc *TimeController) AddListener(fn Listener) {
	if fn == nil {
		return
	}
	tc.mu.Lock()
	tc.listeners = append(tc.listeners, fn)
	tc.mu.Unlock()
}

// Run notifies listeners at StartTime and then every Tick up to and
// including StartTime+duration. A zero duration yields exactly one step.
// It returns the first listener error or ctx.Err().
func (tc *TimeController) Run(ctx context.Context, duration time.Duration) error {
	if tc.Tick <= 0 {
		return ErrInvalidTick
	}

	tc.mu.RLock()
	listeners := append([]Listener(nil), tc.listeners...)
	tc.mu.RUnlock()

	var ticker *time.Ticker
	if tc.Mode == RealTime {
		ticker = time.NewTicker(tc.Tick)
		defer ticker.Stop()
	}

	for elapsed := time.Duration(0); elapsed <= duration; elapsed += tc.Tick {
		if elapsed > 0 && ticker != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		simTime := tc.StartTime.Add(elapsed)
		tc.SetTime(simTime)

		for _, fn := range listeners {
			if err := fn(simTime); err != nil {
				return err
			}
		}
	}
	return nil
}
