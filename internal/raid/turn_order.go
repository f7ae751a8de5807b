package raid

import "github.com/osse101/BrandishRaid_Go/internal/domain"

// normalizePointer moves CurrentTurn onto the first non-mod participant at or
// after it. With no non-mod participants the pointer rests at zero.
func normalizePointer(r *domain.Raid) {
	n := len(r.Participants)
	if r.CurrentTurn < 0 || r.CurrentTurn >= n {
		r.CurrentTurn = 0
	}
	for i := 0; i < n; i++ {
		j := (r.CurrentTurn + i) % n
		if !r.Participants[j].IsModCharacter {
			r.CurrentTurn = j
			return
		}
	}
	r.CurrentTurn = 0
}

// nextHolder finds the next non-mod participant after from, preferring one that
// is not knocked out. -1 means nobody can hold the turn.
func nextHolder(r *domain.Raid, from int) int {
	n := len(r.Participants)
	fallback := -1
	for i := 1; i <= n; i++ {
		j := (from + i) % n
		p := &r.Participants[j]
		if p.IsModCharacter {
			continue
		}
		if fallback < 0 {
			fallback = j
		}
		if !isKnockedOut(r, p) {
			return j
		}
	}
	return fallback
}

// isKnockedOut reports whether p is down. Expedition parties share the pool's
// health, so a KO captured at join time does not count there.
func isKnockedOut(r *domain.Raid, p *domain.RaidParticipant) bool {
	return p.CharacterState.KO && !r.IsExpeditionLinked()
}

// advanceTurn hands the turn to the next holder and opens their action window
func advanceTurn(r *domain.Raid) {
	next := nextHolder(r, r.CurrentTurn)
	if next < 0 {
		return
	}
	r.CurrentTurn = next
	r.Participants[next].HasTakenActionThisTurn = false
}

// removeParticipant drops the participant at idx and repairs the pointer.
// It reports whether the removed participant held the turn.
func removeParticipant(r *domain.Raid, idx int) bool {
	heldTurn := idx == r.CurrentTurn && !r.Participants[idx].IsModCharacter
	r.Participants = append(r.Participants[:idx:idx], r.Participants[idx+1:]...)

	if idx < r.CurrentTurn {
		r.CurrentTurn--
	}
	// when the holder leaves, whoever slid into its slot is next in line
	normalizePointer(r)

	if heldTurn {
		if h := r.CurrentHolder(); h != nil {
			h.HasTakenActionThisTurn = false
		}
	}
	return heldTurn
}
