package raid

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/database/memory"
	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/encounter"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/expedition"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

const testVillage = "Rudania"

var testEpoch = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable clock shared by the service and the fake scheduler
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{now: testEpoch} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeScheduler keeps jobs in a map keyed like the real scheduler: the job
// name plus the values of its key fields
type fakeScheduler struct {
	mu        sync.Mutex
	jobs      map[string]domain.ScheduledJob
	scheduled int
	failWith  error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{jobs: make(map[string]domain.ScheduledJob)}
}

func (f *fakeScheduler) ScheduleOneTime(_ context.Context, name string, runAt time.Time, payload map[string]string, keyFields ...string) (*domain.ScheduledJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}

	fields := append([]string(nil), keyFields...)
	sort.Strings(fields)
	var key strings.Builder
	key.WriteString(name)
	for _, k := range fields {
		key.WriteString("|" + k + "=" + payload[k])
	}

	cp := make(map[string]string, len(payload))
	for k, v := range payload {
		cp[k] = v
	}
	job := domain.ScheduledJob{
		ID:      uuid.NewSHA1(uuid.NameSpaceOID, []byte(key.String())),
		Name:    name,
		Payload: cp,
		RunAt:   runAt,
	}
	f.jobs[key.String()] = job
	f.scheduled++
	return &job, nil
}

func (f *fakeScheduler) Cancel(_ context.Context, name string, match map[string]string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for k, j := range f.jobs {
		if j.Matches(name, match) {
			delete(f.jobs, k)
			n++
		}
	}
	return n, nil
}

func (f *fakeScheduler) Pending(_ context.Context, name string, match map[string]string) ([]domain.ScheduledJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ScheduledJob
	for _, j := range f.jobs {
		if j.Matches(name, match) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].RunAt.Before(out[k].RunAt) })
	return out, nil
}

// take removes and returns the job the way a worker claims it before running
func (f *fakeScheduler) take(t *testing.T, name string, raidID uuid.UUID) domain.ScheduledJob {
	t.Helper()
	jobs, _ := f.Pending(context.Background(), name, raidMatch(raidID))
	require.Len(t, jobs, 1, "expected exactly one %s job", name)
	_, _ = f.Cancel(context.Background(), name, raidMatch(raidID))
	return jobs[0]
}

func (f *fakeScheduler) pending(name string, raidID uuid.UUID) []domain.ScheduledJob {
	jobs, _ := f.Pending(context.Background(), name, raidMatch(raidID))
	return jobs
}

// recordingPublisher captures published events in order
type recordingPublisher struct {
	mu     sync.Mutex
	events []event.Event
}

func (p *recordingPublisher) PublishWithRetry(_ context.Context, evt event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func (p *recordingPublisher) count(t event.Type) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// stubStrategy deals and takes fixed damage regardless of the roll
type stubStrategy struct {
	dealt, taken int
	persists     bool
}

func (s stubStrategy) Name() string            { return "stub" }
func (s stubStrategy) PersistsCharacter() bool { return s.persists }

func (s stubStrategy) Resolve(in encounter.Input) encounter.Outcome {
	dealt := min(s.dealt, in.Monster.CurrentHearts)
	taken := min(s.taken, in.Character.Hearts)
	after := in.Character.Hearts - taken
	return encounter.Outcome{
		Strategy:             "stub",
		DamageDealt:          dealt,
		DamageTaken:          taken,
		MonsterHeartsAfter:   in.Monster.CurrentHearts - dealt,
		CharacterHeartsAfter: after,
		StaminaAfter:         in.Character.Stamina,
		KnockedOut:           after <= 0,
	}
}

// stubTable mirrors the default split: low tiers persist the character, high tiers do not
func stubTable(dealt, taken int) *encounter.Table {
	t := encounter.NewTable()
	_ = t.Register(domain.MinMonsterTier, domain.HighTierCutoff-1, stubStrategy{dealt: dealt, taken: taken, persists: true})
	_ = t.Register(domain.HighTierCutoff, domain.MaxMonsterTier, stubStrategy{dealt: dealt, taken: taken})
	return t
}

// countingCharacters counts combat state writes and can be told to fail them
type countingCharacters struct {
	*memory.CharacterRepository
	updates atomic.Int32
	fail    atomic.Bool
}

func (c *countingCharacters) UpdateCombatState(ctx context.Context, id uuid.UUID, update domain.CombatStateUpdate) error {
	c.updates.Add(1)
	if c.fail.Load() {
		return errors.New("character store unavailable")
	}
	return c.CharacterRepository.UpdateCombatState(ctx, id, update)
}

// conflictingRaids reports a version conflict on every update once enabled
type conflictingRaids struct {
	repository.Raid
	enabled atomic.Bool
	updates atomic.Int32
}

func (c *conflictingRaids) UpdateRaid(ctx context.Context, r *domain.Raid) error {
	if !c.enabled.Load() {
		return c.Raid.UpdateRaid(ctx, r)
	}
	c.updates.Add(1)
	return domain.ErrVersionConflict
}

type fixture struct {
	svc        Service
	store      *memory.Store
	characters *countingCharacters
	jobs       *fakeScheduler
	clock      *fakeClock
	pub        *recordingPublisher
	pools      expedition.Service
	roller     *encounter.FixedRoller
}

type fixtureConfig struct {
	table  *encounter.Table
	raids  func(repository.Raid) repository.Raid
	policy CooldownPolicy
	rolls  []int
}

type fixtureOption func(*fixtureConfig)

func withTable(t *encounter.Table) fixtureOption {
	return func(c *fixtureConfig) { c.table = t }
}

func withRaidRepo(wrap func(repository.Raid) repository.Raid) fixtureOption {
	return func(c *fixtureConfig) { c.raids = wrap }
}

func withPolicy(p CooldownPolicy) fixtureOption {
	return func(c *fixtureConfig) { c.policy = p }
}

func withRolls(rolls ...int) fixtureOption {
	return func(c *fixtureConfig) { c.rolls = rolls }
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	cfg := fixtureConfig{table: stubTable(1, 0), rolls: []int{50}}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := memory.NewStore()
	characters := &countingCharacters{CharacterRepository: store.Characters()}
	var raids repository.Raid = store.Raids()
	if cfg.raids != nil {
		raids = cfg.raids(raids)
	}

	f := &fixture{
		store:      store,
		characters: characters,
		jobs:       newFakeScheduler(),
		clock:      newFakeClock(),
		pub:        &recordingPublisher{},
		roller:     encounter.NewFixedRoller(cfg.rolls...),
	}
	f.pools = expedition.NewService(store.Expeditions(), f.pub)
	f.svc = NewService(
		raids,
		characters,
		encounter.NewResolver(cfg.table, characters),
		f.jobs,
		f.pools,
		cfg.policy,
		f.pub,
		WithClock(f.clock.Now),
		WithRoller(f.roller),
		WithSecondaryRetry(2, time.Millisecond),
	)
	return f
}

type charOption func(*domain.Character)

func asMod() charOption { return func(c *domain.Character) { c.IsModCharacter = true } }

func inVillage(v string) charOption { return func(c *domain.Character) { c.CurrentVillage = v } }

func knockedOut() charOption {
	return func(c *domain.Character) {
		c.Hearts = 0
		c.KnockedOut = true
	}
}

// character seeds a healthy character in the test village
func (f *fixture) character(t *testing.T, name string, opts ...charOption) *domain.Character {
	t.Helper()
	c := &domain.Character{
		ID:             uuid.New(),
		UserID:         "user-" + name,
		Name:           name,
		CurrentVillage: testVillage,
		Hearts:         10,
		MaxHearts:      10,
		Stamina:        5,
		Attack:         3,
		Defense:        2,
	}
	for _, opt := range opts {
		opt(c)
	}
	require.NoError(t, f.store.Characters().SaveCharacter(context.Background(), c))
	return c
}

func (f *fixture) startVillageRaid(t *testing.T, tier, hearts int) *domain.Raid {
	t.Helper()
	r, err := f.svc.StartRaid(context.Background(), StartRaidRequest{
		Monster: domain.Monster{Name: "Lizalfos", Tier: tier, MaxHearts: hearts},
		Village: testVillage,
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) startExpedition(t *testing.T, hearts int, members ...*domain.Character) *domain.PartyPool {
	t.Helper()
	party := make([]domain.PartyMember, 0, len(members))
	for _, c := range members {
		party = append(party, domain.PartyMember{CharacterID: c.ID, UserID: c.UserID, Name: c.Name})
	}
	pool, err := f.pools.StartExpedition(context.Background(), party, hearts, 0)
	require.NoError(t, err)
	return pool
}

func (f *fixture) startExpeditionRaid(t *testing.T, tier, hearts int, expeditionID uuid.UUID) *domain.Raid {
	t.Helper()
	r, err := f.svc.StartRaid(context.Background(), StartRaidRequest{
		Monster:      domain.Monster{Name: "Hinox", Tier: tier, MaxHearts: hearts},
		ExpeditionID: &expeditionID,
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) join(t *testing.T, raidID uuid.UUID, chars ...*domain.Character) {
	t.Helper()
	for _, c := range chars {
		_, err := f.svc.JoinRaid(context.Background(), raidID, c.ID)
		require.NoError(t, err, "join %s", c.Name)
	}
}

func (f *fixture) raid(t *testing.T, raidID uuid.UUID) *domain.Raid {
	t.Helper()
	r, err := f.store.Raids().GetRaid(context.Background(), raidID)
	require.NoError(t, err)
	return r
}

func (f *fixture) holder(t *testing.T, raidID uuid.UUID) uuid.UUID {
	t.Helper()
	h := f.raid(t, raidID).CurrentHolder()
	require.NotNil(t, h)
	return h.CharacterID
}
