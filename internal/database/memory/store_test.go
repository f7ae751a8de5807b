package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

func newRaid(expiresIn time.Duration) *domain.Raid {
	now := time.Now()
	return &domain.Raid{
		ID:        uuid.New(),
		Monster:   domain.Monster{Name: "Bokoblin", Tier: 2, CurrentHearts: 3, MaxHearts: 3},
		Village:   "Rudania",
		Status:    domain.RaidStatusActive,
		CreatedAt: now,
		ExpiresAt: now.Add(expiresIn),
	}
}

func TestRaidRepository_VersionedUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Raids()

	raid := newRaid(time.Minute)
	require.NoError(t, repo.CreateRaid(ctx, raid))
	assert.Equal(t, int64(1), raid.Version)

	a, err := repo.GetRaid(ctx, raid.ID)
	require.NoError(t, err)
	b, err := repo.GetRaid(ctx, raid.ID)
	require.NoError(t, err)

	a.Monster.CurrentHearts = 2
	require.NoError(t, repo.UpdateRaid(ctx, a))
	assert.Equal(t, int64(2), a.Version)

	b.Monster.CurrentHearts = 1
	err = repo.UpdateRaid(ctx, b)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	stored, err := repo.GetRaid(ctx, raid.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Monster.CurrentHearts)
}

func TestRaidRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Raids()

	raid := newRaid(time.Minute)
	raid.Participants = []domain.RaidParticipant{{CharacterID: uuid.New(), Name: "Link"}}
	require.NoError(t, repo.CreateRaid(ctx, raid))

	got, err := repo.GetRaid(ctx, raid.ID)
	require.NoError(t, err)
	got.Participants[0].Damage = 99

	again, err := repo.GetRaid(ctx, raid.ID)
	require.NoError(t, err)
	assert.Zero(t, again.Participants[0].Damage)
}

func TestRaidRepository_NotFoundAndListing(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Raids()

	_, err := repo.GetRaid(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrRaidNotFound)
	assert.ErrorIs(t, repo.UpdateRaid(ctx, newRaid(time.Minute)), domain.ErrRaidNotFound)

	live := newRaid(time.Hour)
	expired := newRaid(-time.Second)
	ended := newRaid(-time.Second)
	ended.Status = domain.RaidStatusDefeated
	for _, r := range []*domain.Raid{live, expired, ended} {
		require.NoError(t, repo.CreateRaid(ctx, r))
	}

	active, err := repo.ListActiveRaids(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	overdue, err := repo.ListExpiredRaids(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, expired.ID, overdue[0].ID)
}

func TestExpeditionRepository_JournalAndFailure(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Expeditions()

	pool := &domain.PartyPool{
		ExpeditionID: uuid.New(),
		Status:       domain.ExpeditionStatusActive,
		TotalHearts:  12,
		Members:      []domain.PartyMember{{CharacterID: uuid.New()}, {CharacterID: uuid.New()}},
	}
	require.NoError(t, repo.CreatePool(ctx, pool))

	raidID := uuid.New()
	rec := domain.RaidOutcomeRecord{ExpeditionID: pool.ExpeditionID, RaidID: raidID, Outcome: domain.RaidOutcomeDefeated}
	first, err := repo.AppendJournal(ctx, rec)
	require.NoError(t, err)
	second, err := repo.AppendJournal(ctx, rec)
	require.NoError(t, err)
	assert.True(t, first)
	assert.False(t, second)

	require.NoError(t, repo.AdvanceTurn(ctx, pool.ExpeditionID))
	got, err := repo.GetPool(ctx, pool.ExpeditionID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentTurn)

	failed, err := repo.MarkFailed(ctx, pool.ExpeditionID)
	require.NoError(t, err)
	assert.True(t, failed)
	failed, err = repo.MarkFailed(ctx, pool.ExpeditionID)
	require.NoError(t, err)
	assert.False(t, failed)

	stale := *pool
	stale.TotalHearts = 0
	assert.ErrorIs(t, repo.SavePool(ctx, &stale), domain.ErrVersionConflict)
}

func TestJobRepository_ClaimRequiresMatchingRunAt(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Jobs()

	runAt := time.Now().Add(time.Minute).UTC()
	job := &domain.ScheduledJob{
		ID:      uuid.New(),
		Name:    domain.JobNameTurnSkip,
		Payload: map[string]string{domain.PayloadKeyRaidID: "r1", domain.PayloadKeyCharacterID: "c1"},
		RunAt:   runAt,
	}
	require.NoError(t, repo.UpsertJob(ctx, job))

	claimed, err := repo.ClaimJob(ctx, job.ID, runAt.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, claimed)

	claimed, err = repo.ClaimJob(ctx, job.ID, runAt)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimJob(ctx, job.ID, runAt)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestJobRepository_MatchingByPayloadSubset(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Jobs()

	for _, c := range []string{"c1", "c2"} {
		require.NoError(t, repo.UpsertJob(ctx, &domain.ScheduledJob{
			ID:      uuid.New(),
			Name:    domain.JobNameTurnSkip,
			Payload: map[string]string{domain.PayloadKeyRaidID: "r1", domain.PayloadKeyCharacterID: c},
			RunAt:   time.Now(),
		}))
	}
	require.NoError(t, repo.UpsertJob(ctx, &domain.ScheduledJob{
		ID:      uuid.New(),
		Name:    domain.JobNameRaidExpire,
		Payload: map[string]string{domain.PayloadKeyRaidID: "r1"},
		RunAt:   time.Now(),
	}))

	all, err := repo.ListJobs(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := repo.DeleteMatching(ctx, domain.JobNameTurnSkip, map[string]string{domain.PayloadKeyRaidID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rest, err := repo.ListJobs(ctx, "", nil)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, domain.JobNameRaidExpire, rest[0].Name)
}
