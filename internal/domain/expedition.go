package domain

import (
	"time"

	"github.com/google/uuid"
)

// ExpeditionStatus is the state of a traveling party
type ExpeditionStatus string

const (
	ExpeditionStatusActive    ExpeditionStatus = "active"
	ExpeditionStatusCompleted ExpeditionStatus = "completed"
	ExpeditionStatusFailed    ExpeditionStatus = "failed"
)

// PartyMember is a character traveling with an expedition
type PartyMember struct {
	CharacterID uuid.UUID `json:"character_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
}

// PartyPool is the shared hearts/stamina counter of an expedition.
// While the expedition is active it is the only source of truth for the party's health.
type PartyPool struct {
	ExpeditionID uuid.UUID        `json:"expedition_id"`
	Status       ExpeditionStatus `json:"status"`
	TotalHearts  int              `json:"total_hearts"`
	TotalStamina int              `json:"total_stamina"`
	Members      []PartyMember    `json:"members"`
	CurrentTurn  int              `json:"current_turn"`
	Version      int64            `json:"version"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// HasCharacter reports whether the character travels with this party
func (p *PartyPool) HasCharacter(characterID uuid.UUID) bool {
	for _, m := range p.Members {
		if m.CharacterID == characterID {
			return true
		}
	}
	return false
}

// RaidOutcome is how a raid ended from the expedition's perspective
type RaidOutcome string

const (
	RaidOutcomeDefeated RaidOutcome = "defeated"
	RaidOutcomeFled     RaidOutcome = "fled"
	RaidOutcomeTimeout  RaidOutcome = "timeout"
	RaidOutcomePoolZero RaidOutcome = "pool_exhausted"
)

// RaidOutcomeRecord is one entry in an expedition's raid journal
type RaidOutcomeRecord struct {
	ExpeditionID uuid.UUID   `json:"expedition_id"`
	RaidID       uuid.UUID   `json:"raid_id"`
	Outcome      RaidOutcome `json:"outcome"`
	RecordedAt   time.Time   `json:"recorded_at"`
}
