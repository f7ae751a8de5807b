package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/database/memory"
	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/worker"
)

// MockJob is a simple job for testing
type MockJob struct {
	mu       sync.Mutex
	RunCount int
	Done     chan struct{}
}

func (m *MockJob) Process(ctx context.Context) error {
	m.mu.Lock()
	m.RunCount++
	m.mu.Unlock()
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *memory.JobRepository) {
	t.Helper()
	pool := worker.NewPool(2, 10)
	pool.Start()
	store := memory.NewStore().Jobs()
	sched := New(pool, store)
	t.Cleanup(func() {
		sched.Stop()
		pool.Stop()
	})
	return sched, store
}

func TestScheduler(t *testing.T) {
	sched, _ := newTestScheduler(t)

	job := &MockJob{Done: make(chan struct{}, 10)}
	sched.Schedule(10*time.Millisecond, job)

	timeout := time.After(200 * time.Millisecond)
	runCount := 0
	for runCount < 2 {
		select {
		case <-job.Done:
			runCount++
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}
}

func TestJobID_DeterministicOnKeyFields(t *testing.T) {
	a, err := JobID(domain.JobNameTurnSkip, map[string]string{"raidId": "r1", "characterId": "c1"}, "raidId")
	require.NoError(t, err)
	b, err := JobID(domain.JobNameTurnSkip, map[string]string{"raidId": "r1", "characterId": "c2"}, "raidId")
	require.NoError(t, err)
	c, err := JobID(domain.JobNameRaidExpire, map[string]string{"raidId": "r1"}, "raidId")
	require.NoError(t, err)

	assert.Equal(t, a, b, "non-key fields must not change identity")
	assert.NotEqual(t, a, c, "job name is part of identity")

	_, err = JobID(domain.JobNameTurnSkip, map[string]string{}, "raidId")
	assert.Error(t, err)
	_, err = JobID("", nil)
	assert.Error(t, err)
}

func TestScheduleOneTime_ReplacesSameKey(t *testing.T) {
	sched, _ := newTestScheduler(t)
	ctx := context.Background()

	runAt := time.Now().Add(time.Hour)
	_, err := sched.ScheduleOneTime(ctx, domain.JobNameTurnSkip, runAt,
		map[string]string{"raidId": "r1", "characterId": "c1"}, "raidId")
	require.NoError(t, err)
	_, err = sched.ScheduleOneTime(ctx, domain.JobNameTurnSkip, runAt.Add(time.Minute),
		map[string]string{"raidId": "r1", "characterId": "c2"}, "raidId")
	require.NoError(t, err)

	pending, err := sched.Pending(ctx, domain.JobNameTurnSkip, map[string]string{"raidId": "r1"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c2", pending[0].Payload["characterId"])
	assert.Equal(t, 1, sched.timers.Len())
}

func TestCancel_RemovesMatchingJobsAndTimers(t *testing.T) {
	sched, _ := newTestScheduler(t)
	ctx := context.Background()

	fired := make(chan struct{}, 1)
	sched.Register(domain.JobNameTurnSkip, func(ctx context.Context, job domain.ScheduledJob) error {
		fired <- struct{}{}
		return nil
	})

	_, err := sched.ScheduleOneTime(ctx, domain.JobNameTurnSkip, time.Now().Add(30*time.Millisecond),
		map[string]string{"raidId": "r1", "characterId": "c1"}, "raidId")
	require.NoError(t, err)

	n, err := sched.Cancel(ctx, domain.JobNameTurnSkip, map[string]string{"raidId": "r1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	select {
	case <-fired:
		t.Fatal("cancelled job fired")
	case <-time.After(100 * time.Millisecond):
	}

	n, err = sched.Cancel(ctx, domain.JobNameTurnSkip, map[string]string{"raidId": "r1"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCancel_RacingScheduleLeavesTimersMatchingStore(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx := context.Background()
	runAt := time.Now().Add(time.Hour)
	match := map[string]string{"raidId": "r1"}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := sched.ScheduleOneTime(ctx, domain.JobNameTurnSkip, runAt,
				map[string]string{"raidId": "r1", "characterId": "c1"}, "raidId")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := sched.Cancel(ctx, domain.JobNameTurnSkip, match)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := store.ListJobs(ctx, domain.JobNameTurnSkip, match)
	require.NoError(t, err)
	assert.Equal(t, len(stored), sched.timers.Len())
}

func TestOneTimeJob_FiresOnceAndIsClaimed(t *testing.T) {
	sched, store := newTestScheduler(t)
	ctx := context.Background()

	got := make(chan domain.ScheduledJob, 2)
	sched.Register(domain.JobNameRaidExpire, func(ctx context.Context, job domain.ScheduledJob) error {
		got <- job
		return nil
	})

	_, err := sched.ScheduleOneTime(ctx, domain.JobNameRaidExpire, time.Now().Add(10*time.Millisecond),
		map[string]string{"raidId": "r9"}, "raidId")
	require.NoError(t, err)

	select {
	case job := <-got:
		assert.Equal(t, "r9", job.Payload["raidId"])
	case <-time.After(time.Second):
		t.Fatal("job did not fire")
	}

	select {
	case <-got:
		t.Fatal("job fired twice")
	case <-time.After(50 * time.Millisecond):
	}

	left, err := store.ListJobs(ctx, "", nil)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestStart_ReloadsPersistedJobs(t *testing.T) {
	pool := worker.NewPool(1, 10)
	pool.Start()
	defer pool.Stop()

	store := memory.NewStore().Jobs()
	ctx := context.Background()

	id, err := JobID(domain.JobNameRaidExpire, map[string]string{"raidId": "old"}, "raidId")
	require.NoError(t, err)
	require.NoError(t, store.UpsertJob(ctx, &domain.ScheduledJob{
		ID:      id,
		Name:    domain.JobNameRaidExpire,
		Payload: map[string]string{"raidId": "old"},
		RunAt:   time.Now().Add(-time.Minute).UTC().Truncate(time.Microsecond),
	}))

	sched := New(pool, store)
	defer sched.Stop()

	fired := make(chan string, 1)
	sched.Register(domain.JobNameRaidExpire, func(ctx context.Context, job domain.ScheduledJob) error {
		fired <- job.Payload["raidId"]
		return nil
	})
	require.NoError(t, sched.Start(ctx))

	select {
	case raidID := <-fired:
		assert.Equal(t, "old", raidID)
	case <-time.After(time.Second):
		t.Fatal("overdue job was not fired after reload")
	}
}
