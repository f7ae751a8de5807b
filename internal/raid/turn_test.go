package raid

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/event"
)

func TestTakeTurn_ActingTwiceInOneTurnIsRejected(t *testing.T) {
	f := newFixture(t, withTable(stubTable(2, 0)))
	ctx := context.Background()
	a, b := f.character(t, "Ari"), f.character(t, "Bo")
	r := f.startVillageRaid(t, 5, 20)
	f.join(t, r.ID, a, b)

	res, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.DamageDealt)
	assert.Equal(t, 18, res.MonsterHeartsAfter)
	require.NotNil(t, res.NextTurnCharacterID)
	assert.Equal(t, b.ID, *res.NextTurnCharacterID)

	_, err = f.svc.TakeTurn(ctx, r.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrNotYourTurn)

	stored := f.raid(t, r.ID)
	assert.Equal(t, 18, stored.Monster.CurrentHearts)
	assert.Equal(t, 2, stored.Participants[0].Damage)
	assert.Equal(t, 1, stored.Analytics.TurnsTaken)
}

func TestTakeTurn_SoleParticipantActsEveryTurn(t *testing.T) {
	f := newFixture(t, withTable(stubTable(2, 0)))
	ctx := context.Background()
	a := f.character(t, "Ari")
	r := f.startVillageRaid(t, 5, 20)
	f.join(t, r.ID, a)

	for i := 0; i < 3; i++ {
		_, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
		require.NoError(t, err, "turn %d", i+1)
	}

	stored := f.raid(t, r.ID)
	assert.Equal(t, 14, stored.Monster.CurrentHearts)
	assert.Equal(t, 3, stored.Participants[0].RoundsParticipated)
	assert.False(t, stored.Participants[0].HasTakenActionThisTurn)
}

func TestTakeTurn_ModActsWithoutMovingThePointer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, mod, b := f.character(t, "Ari"), f.character(t, "Warden", asMod()), f.character(t, "Bo")
	r := f.startVillageRaid(t, 8, 30)
	f.join(t, r.ID, a, mod, b)

	_, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)
	before := f.raid(t, r.ID)
	require.Equal(t, 2, before.CurrentTurn)
	writes := f.characters.updates.Load()

	res, err := f.svc.TakeTurn(ctx, r.ID, mod.ID)
	require.NoError(t, err)
	assert.True(t, res.Defeated)
	assert.Equal(t, 0, res.MonsterHeartsAfter)
	assert.Equal(t, 0, res.DamageTaken)

	after := f.raid(t, r.ID)
	assert.Equal(t, domain.RaidStatusDefeated, after.Status)
	assert.Equal(t, before.CurrentTurn, after.CurrentTurn)
	assert.NotNil(t, after.EndedAt)
	assert.Empty(t, f.jobs.pending(domain.JobNameTurnSkip, r.ID))
	assert.Empty(t, f.jobs.pending(domain.JobNameRaidExpire, r.ID))
	assert.Equal(t, 1, f.pub.count(event.RaidDefeated))
	assert.Equal(t, writes, f.characters.updates.Load())

	_, err = f.svc.TakeTurn(ctx, r.ID, b.ID)
	assert.ErrorIs(t, err, domain.ErrRaidNotActive)
}

func TestTakeTurn_Validation(t *testing.T) {
	f := newFixture(t, withTable(stubTable(1, 10)))
	ctx := context.Background()
	a, stranger := f.character(t, "Ari"), f.character(t, "Stranger")
	r := f.startVillageRaid(t, 6, 20)
	f.join(t, r.ID, a)

	_, err := f.svc.TakeTurn(ctx, r.ID, stranger.ID)
	assert.ErrorIs(t, err, domain.ErrNotInRaid)

	// the hit knocks Ari out and the turn comes straight back
	res, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, res.CharacterHeartsAfter)

	_, err = f.svc.TakeTurn(ctx, r.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrCharacterKnockedOut)
}

func TestTakeTurn_KnockedOutParticipantsAreSkipped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.character(t, "Ari"), f.character(t, "Bo", knockedOut())
	r := f.startVillageRaid(t, 5, 20)
	f.join(t, r.ID, a, b)

	res, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, res.NextTurnCharacterID)
	assert.Equal(t, a.ID, *res.NextTurnCharacterID)
}

func TestTakeTurn_ExpeditionMembersKeepTheirTurnWhileKnockedOut(t *testing.T) {
	f := newFixture(t, withTable(stubTable(1, 1)))
	ctx := context.Background()
	a, b := f.character(t, "Ari"), f.character(t, "Bo", knockedOut())
	pool := f.startExpedition(t, 10, a, b)
	r := f.startExpeditionRaid(t, 6, 20, pool.ExpeditionID)
	f.join(t, r.ID, a, b)

	res, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, res.NextTurnCharacterID)
	assert.Equal(t, b.ID, *res.NextTurnCharacterID)

	res, err = f.svc.TakeTurn(ctx, r.ID, b.ID)
	require.NoError(t, err)
	require.NotNil(t, res.NextTurnCharacterID)
	assert.Equal(t, a.ID, *res.NextTurnCharacterID)
	require.NotNil(t, res.PoolHeartsAfter)
	assert.Equal(t, 8, *res.PoolHeartsAfter)
}

func TestTakeTurn_PenaltyFollowsPartyAndTier(t *testing.T) {
	f := newFixture(t, withRolls(50))
	ctx := context.Background()
	a, b, c := f.character(t, "Ari"), f.character(t, "Bo"), f.character(t, "Cy")
	mod := f.character(t, "Warden", asMod())
	r := f.startVillageRaid(t, 6, 20)
	f.join(t, r.ID, a, b, c, mod)

	res, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Roll)
	assert.Equal(t, 6, res.Penalty)
	assert.Equal(t, 44, res.AdjustedRoll)
}

func TestTakeTurn_CharacterWrittenOnce(t *testing.T) {
	tests := []struct {
		name string
		tier int
	}{
		{"resolver owns low tiers", 3},
		{"manager owns high tiers", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, withTable(stubTable(1, 2)))
			ctx := context.Background()
			a := f.character(t, "Ari")
			r := f.startVillageRaid(t, tt.tier, 20)
			f.join(t, r.ID, a)

			res, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
			require.NoError(t, err)
			assert.Empty(t, res.SecondaryFailures)
			assert.Equal(t, int32(1), f.characters.updates.Load())

			stored, err := f.store.Characters().GetCharacter(ctx, a.ID)
			require.NoError(t, err)
			assert.Equal(t, 8, stored.Hearts)
			assert.Equal(t, 8, f.raid(t, r.ID).Participants[0].CharacterState.Hearts)
		})
	}
}

func TestTakeTurn_CharacterWriteFailureDoesNotUndoTheTurn(t *testing.T) {
	f := newFixture(t, withTable(stubTable(1, 2)))
	ctx := context.Background()
	a := f.character(t, "Ari")
	r := f.startVillageRaid(t, 6, 20)
	f.join(t, r.ID, a)
	f.characters.fail.Store(true)

	res, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{EffectCharacterWrite}, res.SecondaryFailures)
	assert.Equal(t, int32(2), f.characters.updates.Load())

	stored := f.raid(t, r.ID)
	assert.Equal(t, 19, stored.Monster.CurrentHearts)
	assert.Equal(t, 1, stored.Analytics.TurnsTaken)
}

func TestTakeTurn_RearmsSkipTimerForNextHolder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.character(t, "Ari"), f.character(t, "Bo")
	r := f.startVillageRaid(t, 5, 20)
	f.join(t, r.ID, a, b)

	_, err := f.svc.TakeTurn(ctx, r.ID, a.ID)
	require.NoError(t, err)

	jobs := f.jobs.pending(domain.JobNameTurnSkip, r.ID)
	require.Len(t, jobs, 1)
	assert.Equal(t, b.ID.String(), jobs[0].Payload[domain.PayloadKeyCharacterID])
	assert.Equal(t, f.clock.Now().Add(domain.TurnSkipDelay), jobs[0].RunAt)
}

// randomWalk drives a raid through random joins, leaves and turns and calls
// check after every step. Mods never act so the raid stays active.
func randomWalk(t *testing.T, seed uint64, steps int, check func(t *testing.T, f *fixture, r *domain.Raid)) {
	t.Helper()
	f := newFixture(t, withTable(stubTable(0, 0)))
	ctx := context.Background()
	rng := rand.New(rand.NewPCG(seed, seed+1))

	var roster []*domain.Character
	for i := 0; i < 6; i++ {
		roster = append(roster, f.character(t, string(rune('A'+i))))
	}
	roster = append(roster, f.character(t, "ModX", asMod()), f.character(t, "ModY", asMod()))

	r := f.startVillageRaid(t, 5, 20)
	for step := 0; step < steps; step++ {
		c := roster[rng.IntN(len(roster))]
		cur := f.raid(t, r.ID)
		switch {
		case cur.ParticipantIndex(c.ID) < 0:
			_, err := f.svc.JoinRaid(ctx, r.ID, c.ID)
			require.NoError(t, err)
		case rng.IntN(3) == 0:
			_, err := f.svc.LeaveRaid(ctx, r.ID, c.ID)
			require.NoError(t, err)
		default:
			if h := cur.CurrentHolder(); h != nil {
				_, err := f.svc.TakeTurn(ctx, r.ID, h.CharacterID)
				require.NoError(t, err)
			}
		}
		check(t, f, f.raid(t, r.ID))
	}
}

func TestTurnPointer_NeverRestsOnAMod(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		randomWalk(t, seed, 80, func(t *testing.T, f *fixture, r *domain.Raid) {
			require.True(t, r.IsActive())
			if r.NonModCount() == 0 {
				assert.Nil(t, r.CurrentHolder())
				return
			}
			require.Less(t, r.CurrentTurn, len(r.Participants))
			assert.False(t, r.Participants[r.CurrentTurn].IsModCharacter, "pointer on a mod at seed %d", seed)
		})
	}
}

func TestRemoveParticipant_PointerRepair(t *testing.T) {
	mk := func(names ...string) *domain.Raid {
		r := &domain.Raid{}
		for _, n := range names {
			r.Participants = append(r.Participants, domain.RaidParticipant{Name: n, IsModCharacter: n[0] == 'm'})
		}
		return r
	}
	names := func(r *domain.Raid) string {
		return r.Participants[r.CurrentTurn].Name
	}

	t.Run("leaver before pointer", func(t *testing.T) {
		r := mk("a", "b", "c")
		r.CurrentTurn = 2
		assert.False(t, removeParticipant(r, 0))
		assert.Equal(t, "c", names(r))
	})

	t.Run("holder leaves mid list", func(t *testing.T) {
		r := mk("a", "b", "c")
		r.CurrentTurn = 1
		r.Participants[2].HasTakenActionThisTurn = true
		assert.True(t, removeParticipant(r, 1))
		assert.Equal(t, "c", names(r))
		assert.False(t, r.Participants[r.CurrentTurn].HasTakenActionThisTurn)
	})

	t.Run("holder at the end wraps", func(t *testing.T) {
		r := mk("a", "b", "c")
		r.CurrentTurn = 2
		assert.True(t, removeParticipant(r, 2))
		assert.Equal(t, "a", names(r))
	})

	t.Run("skips mods after removal", func(t *testing.T) {
		r := mk("a", "b", "m1", "c")
		r.CurrentTurn = 1
		assert.True(t, removeParticipant(r, 1))
		assert.Equal(t, "c", names(r))
	})

	t.Run("only mods remain", func(t *testing.T) {
		r := mk("m1", "a", "m2")
		r.CurrentTurn = 1
		assert.True(t, removeParticipant(r, 1))
		assert.Equal(t, 0, r.CurrentTurn)
		assert.Nil(t, r.CurrentHolder())
	})

	t.Run("does not alias the input", func(t *testing.T) {
		r := mk("a", "b", "c")
		orig := r.Participants
		removeParticipant(r, 0)
		assert.Equal(t, "a", orig[0].Name)
	})
}
