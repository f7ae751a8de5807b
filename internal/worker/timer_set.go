package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// TimerSet owns a keyed set of time.AfterFunc timers and tracks in-flight callbacks
// so shutdown can cancel pending timers and wait for running ones.
type TimerSet struct {
	name     string
	mu       sync.Mutex
	timers   map[string]*time.Timer
	shutdown chan struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewTimerSet creates an empty TimerSet; name is used in shutdown logs
func NewTimerSet(name string) *TimerSet {
	return &TimerSet{
		name:     name,
		timers:   make(map[string]*time.Timer),
		shutdown: make(chan struct{}),
	}
}

// Arm (re)schedules fn to run after d under key, replacing any timer with the same key
func (ts *TimerSet) Arm(key string, d time.Duration, fn func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.closed {
		return
	}
	if old, ok := ts.timers[key]; ok {
		old.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(d, func() {
		ts.mu.Lock()
		// A replaced timer may still fire if Stop lost the race; only the current one runs.
		if cur, ok := ts.timers[key]; !ok || cur != timer || ts.closed {
			ts.mu.Unlock()
			return
		}
		delete(ts.timers, key)
		ts.wg.Add(1)
		ts.mu.Unlock()

		defer ts.wg.Done()
		select {
		case <-ts.shutdown:
			return
		default:
		}
		fn()
	})
	ts.timers[key] = timer
}

// Disarm stops the timer for key and reports whether one was pending
func (ts *TimerSet) Disarm(key string) bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if timer, ok := ts.timers[key]; ok {
		timer.Stop()
		delete(ts.timers, key)
		return true
	}
	return false
}

// Len returns the number of armed timers
func (ts *TimerSet) Len() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.timers)
}

// Shutdown cancels pending timers and waits for in-flight callbacks or ctx expiry
func (ts *TimerSet) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgTimerSetShuttingDown, "timers", ts.name)

	ts.mu.Lock()
	if !ts.closed {
		ts.closed = true
		close(ts.shutdown)
	}
	for key, timer := range ts.timers {
		timer.Stop()
		log.Debug(LogMsgTimerCancelled, "timers", ts.name, "key", key)
	}
	ts.timers = make(map[string]*time.Timer)
	ts.mu.Unlock()

	done := make(chan struct{})
	go func() {
		ts.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgTimerSetShutdownComplete, "timers", ts.name)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgTimerSetShutdownTimeout, "timers", ts.name)
		return ctx.Err()
	}
}
