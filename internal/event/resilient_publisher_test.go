package event

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// flakyBus fails the publishes for which fail returns true and records every attempt
type flakyBus struct {
	mu       sync.Mutex
	attempts []time.Time
	events   []Event
	fail     func(attempt int) bool
	delay    time.Duration
}

func (b *flakyBus) Publish(_ context.Context, evt Event) error {
	b.mu.Lock()
	b.attempts = append(b.attempts, time.Now())
	b.events = append(b.events, evt)
	n := len(b.attempts)
	b.mu.Unlock()

	if b.delay > 0 {
		time.Sleep(b.delay)
	}
	if b.fail != nil && b.fail(n) {
		return errors.New("subscriber unavailable")
	}
	return nil
}

func (b *flakyBus) Subscribe(Type, Handler) {}

func (b *flakyBus) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.attempts)
}

func (b *flakyBus) gaps() []time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []time.Duration
	for i := 1; i < len(b.attempts); i++ {
		out = append(out, b.attempts[i].Sub(b.attempts[i-1]))
	}
	return out
}

func turnEvent() Event {
	raid := &domain.Raid{
		ID:      uuid.New(),
		Status:  domain.RaidStatusActive,
		Village: "rudania",
		Monster: domain.Monster{Name: "hinox", Tier: 4},
	}
	return NewRaidEvent(RaidTurn, raid, nil)
}

func readDeadLetters(t *testing.T, path string) []DeadLetterEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []DeadLetterEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e DeadLetterEntry
		require.NoError(t, json.Unmarshal(sc.Bytes(), &e))
		out = append(out, e)
	}
	require.NoError(t, sc.Err())
	return out
}

func newPublisher(t *testing.T, bus Bus, retries int, delay time.Duration) (*ResilientPublisher, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	p, err := NewResilientPublisher(bus, retries, delay, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p, path
}

func TestResilientPublisher_DeliversOnce(t *testing.T) {
	bus := &flakyBus{}
	p, path := newPublisher(t, bus, 3, 10*time.Millisecond)

	p.PublishWithRetry(context.Background(), turnEvent())

	assert.Equal(t, 1, bus.count())
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_PublishNeverFails(t *testing.T) {
	bus := &flakyBus{fail: func(int) bool { return true }}
	p, _ := newPublisher(t, bus, 1, time.Millisecond)

	assert.NoError(t, p.Publish(context.Background(), turnEvent()))
}

func TestResilientPublisher_RetriesUntilDelivered(t *testing.T) {
	bus := &flakyBus{fail: func(n int) bool { return n == 1 }}
	p, path := newPublisher(t, bus, 3, 20*time.Millisecond)

	p.PublishWithRetry(context.Background(), turnEvent())

	require.Eventually(t, func() bool { return bus.count() == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Shutdown(context.Background()))
	assert.Empty(t, readDeadLetters(t, path))
}

func TestResilientPublisher_ExhaustedGoesToDeadLetter(t *testing.T) {
	bus := &flakyBus{fail: func(int) bool { return true }}
	p, path := newPublisher(t, bus, 2, 10*time.Millisecond)

	evt := turnEvent()
	p.PublishWithRetry(context.Background(), evt)

	// first publish plus two retries
	require.Eventually(t, func() bool { return bus.count() == 3 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, p.Shutdown(context.Background()))

	entries := readDeadLetters(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, DeadLetterSchemaVersion, entries[0].SchemaVersion)
	assert.Equal(t, RaidTurn, entries[0].Event.Type)
	assert.Equal(t, 3, entries[0].Attempts)
	assert.Equal(t, "subscriber unavailable", entries[0].LastError)

	payload, err := DecodePayload[RaidPayloadV1](entries[0].Event.Payload)
	require.NoError(t, err)
	assert.Equal(t, evt.Payload.(RaidPayloadV1).RaidID, payload.RaidID)
	assert.Equal(t, "hinox", payload.Monster)
}

func TestResilientPublisher_BackoffDoubles(t *testing.T) {
	bus := &flakyBus{fail: func(n int) bool { return n < 4 }}
	base := 40 * time.Millisecond
	p, _ := newPublisher(t, bus, 5, base)

	p.PublishWithRetry(context.Background(), turnEvent())

	require.Eventually(t, func() bool { return bus.count() == 4 }, 2*time.Second, 5*time.Millisecond)
	gaps := bus.gaps()
	require.Len(t, gaps, 3)
	for i, want := range []time.Duration{base, 2 * base, 4 * base} {
		assert.GreaterOrEqual(t, gaps[i], want, "retry %d came early", i+1)
	}
}

func TestResilientPublisher_FullQueueDeadLettersImmediately(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deadletter.jsonl")
	dl, err := NewDeadLetterWriter(path)
	require.NoError(t, err)

	// no retry worker, so the queue is never drained
	p := &ResilientPublisher{
		bus:        &flakyBus{fail: func(int) bool { return true }},
		retryQueue: make(chan retryEntry, 2),
		maxRetries: 3,
		retryDelay: time.Hour,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	for i := 0; i < 5; i++ {
		p.PublishWithRetry(context.Background(), turnEvent())
	}
	assert.Len(t, p.retryQueue, 2)
	require.NoError(t, dl.Close())
	assert.Len(t, readDeadLetters(t, path), 3)
}

func TestResilientPublisher_ShutdownFlushesPending(t *testing.T) {
	bus := &flakyBus{fail: func(n int) bool { return n <= 3 }}
	p, path := newPublisher(t, bus, 5, time.Hour)

	for i := 0; i < 3; i++ {
		p.PublishWithRetry(context.Background(), turnEvent())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(ctx))

	// three failed publishes, then one final attempt each on shutdown
	assert.Equal(t, 6, bus.count())
	assert.Empty(t, readDeadLetters(t, path))

	// publishing after shutdown dead-letters instead of queueing
	bus.fail = func(int) bool { return true }
	p.PublishWithRetry(context.Background(), turnEvent())
	assert.Empty(t, p.retryQueue)
}

func TestResilientPublisher_ConcurrentPublishes(t *testing.T) {
	bus := &flakyBus{}
	p, _ := newPublisher(t, bus, 3, 10*time.Millisecond)

	const publishers, each = 8, 5
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < each; j++ {
				p.PublishWithRetry(context.Background(), turnEvent())
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, publishers*each, bus.count())
}
