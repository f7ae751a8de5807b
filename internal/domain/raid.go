package domain

import (
	"time"

	"github.com/google/uuid"
)

// RaidStatus is the lifecycle state of a raid
type RaidStatus string

const (
	RaidStatusActive   RaidStatus = "active"
	RaidStatusDefeated RaidStatus = "defeated"
	RaidStatusFled     RaidStatus = "fled"
	RaidStatusFailed   RaidStatus = "failed"
)

// IsTerminal reports whether no further transitions are allowed
func (s RaidStatus) IsTerminal() bool {
	return s != RaidStatusActive
}

// RaidTrigger records what spawned a raid
type RaidTrigger string

const (
	RaidTriggerWandering   RaidTrigger = "wandering"
	RaidTriggerQuota       RaidTrigger = "quota"
	RaidTriggerExploration RaidTrigger = "exploration"
	RaidTriggerManual      RaidTrigger = "manual"
)

// BypassesCooldown reports whether raids spawned by this trigger ignore village and global cooldowns
func (t RaidTrigger) BypassesCooldown() bool {
	return t == RaidTriggerQuota || t == RaidTriggerExploration
}

// Monster is the monster snapshot a raid fights
type Monster struct {
	Name          string `json:"name"`
	Tier          int    `json:"tier"`
	CurrentHearts int    `json:"current_hearts"`
	MaxHearts     int    `json:"max_hearts"`
}

// CharacterState is the combat snapshot of a participant
type CharacterState struct {
	Hearts    int    `json:"hearts"`
	MaxHearts int    `json:"max_hearts"`
	Stamina   int    `json:"stamina"`
	Attack    int    `json:"attack"`
	Defense   int    `json:"defense"`
	Gear      string `json:"gear,omitempty"`
	KO        bool   `json:"ko"`
}

// RaidParticipant is one character's membership in a raid
type RaidParticipant struct {
	UserID                 string         `json:"user_id"`
	CharacterID            uuid.UUID      `json:"character_id"`
	Name                   string         `json:"name"`
	Damage                 int            `json:"damage"`
	JoinedAt               time.Time      `json:"joined_at"`
	RoundsParticipated     int            `json:"rounds_participated"`
	IsModCharacter         bool           `json:"is_mod_character"`
	CharacterState         CharacterState `json:"character_state"`
	HasTakenActionThisTurn bool           `json:"has_taken_action_this_turn"`
}

// RaidAnalytics holds scaling reference and bookkeeping counters
type RaidAnalytics struct {
	BaseMonsterHearts int `json:"base_monster_hearts"`
	TotalDamage       int `json:"total_damage"`
	TurnsTaken        int `json:"turns_taken"`
	PeakParticipants  int `json:"peak_participants"`
}

// Raid is a single monster encounter with its own turn order
type Raid struct {
	ID           uuid.UUID         `json:"id"`
	Monster      Monster           `json:"monster"`
	Village      string            `json:"village,omitempty"`
	ExpeditionID *uuid.UUID        `json:"expedition_id,omitempty"`
	GrottoID     string            `json:"grotto_id,omitempty"`
	Trigger      RaidTrigger       `json:"trigger"`
	Participants []RaidParticipant `json:"participants"`
	CurrentTurn  int               `json:"current_turn"`
	Status       RaidStatus        `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
	EndedAt      *time.Time        `json:"ended_at,omitempty"`
	Analytics    RaidAnalytics     `json:"analytics"`
	ThreadID     string            `json:"thread_id,omitempty"`
	MessageID    string            `json:"message_id,omitempty"`
	Version      int64             `json:"version"`
}

// IsActive reports whether the raid still accepts actions
func (r *Raid) IsActive() bool {
	return r.Status == RaidStatusActive
}

// IsExpeditionLinked reports whether the raid draws from a party pool
func (r *Raid) IsExpeditionLinked() bool {
	return r.ExpeditionID != nil && *r.ExpeditionID != uuid.Nil
}

// IsExpired reports whether an active raid is past its deadline
func (r *Raid) IsExpired(now time.Time) bool {
	return r.IsActive() && !now.Before(r.ExpiresAt)
}

// ParticipantIndex returns the index of the character's participant record or -1
func (r *Raid) ParticipantIndex(characterID uuid.UUID) int {
	for i := range r.Participants {
		if r.Participants[i].CharacterID == characterID {
			return i
		}
	}
	return -1
}

// HasUser reports whether any participant belongs to the user
func (r *Raid) HasUser(userID string) bool {
	for i := range r.Participants {
		if r.Participants[i].UserID == userID {
			return true
		}
	}
	return false
}

// NonModCount counts participants that take part in turn order
func (r *Raid) NonModCount() int {
	n := 0
	for i := range r.Participants {
		if !r.Participants[i].IsModCharacter {
			n++
		}
	}
	return n
}

// CurrentHolder returns the participant whose turn it is, or nil when nobody can act
func (r *Raid) CurrentHolder() *RaidParticipant {
	if r.CurrentTurn < 0 || r.CurrentTurn >= len(r.Participants) {
		return nil
	}
	p := &r.Participants[r.CurrentTurn]
	if p.IsModCharacter {
		return nil
	}
	return p
}

// Clone returns a deep copy so callers can mutate without aliasing stored state
func (r *Raid) Clone() *Raid {
	if r == nil {
		return nil
	}
	c := *r
	c.Participants = append([]RaidParticipant(nil), r.Participants...)
	if r.ExpeditionID != nil {
		id := *r.ExpeditionID
		c.ExpeditionID = &id
	}
	if r.EndedAt != nil {
		t := *r.EndedAt
		c.EndedAt = &t
	}
	return &c
}

// BattleResult is what one take-turn produces for the presentation layer
type BattleResult struct {
	RaidID                uuid.UUID  `json:"raid_id"`
	CharacterID           uuid.UUID  `json:"character_id"`
	Roll                  int        `json:"roll"`
	Penalty               int        `json:"penalty"`
	AdjustedRoll          int        `json:"adjusted_roll"`
	DamageDealt           int        `json:"damage_dealt"`
	DamageTaken           int        `json:"damage_taken"`
	MonsterHeartsBefore   int        `json:"monster_hearts_before"`
	MonsterHeartsAfter    int        `json:"monster_hearts_after"`
	CharacterHeartsBefore int        `json:"character_hearts_before"`
	CharacterHeartsAfter  int        `json:"character_hearts_after"`
	PoolHeartsAfter       *int       `json:"pool_hearts_after,omitempty"`
	Narrative             string     `json:"narrative"`
	RaidStatus            RaidStatus `json:"raid_status"`
	Defeated              bool       `json:"defeated"`
	Fled                  bool       `json:"fled"`
	NextTurnCharacterID   *uuid.UUID `json:"next_turn_character_id,omitempty"`
	NextTurnUserID        string     `json:"next_turn_user_id,omitempty"`
	Attempts              int        `json:"attempts"`
	SecondaryFailures     []string   `json:"secondary_failures,omitempty"`
}

// LeaveResult reports loot eligibility and who acts next after a leave
type LeaveResult struct {
	EligibleForLoot     bool       `json:"eligible_for_loot"`
	NextTurnCharacterID *uuid.UUID `json:"next_turn_character_id,omitempty"`
	NextTurnUserID      string     `json:"next_turn_user_id,omitempty"`
	NextTurnName        string     `json:"next_turn_name,omitempty"`
}

// RaidSummary is the state digest rendered by chat surfaces
type RaidSummary struct {
	RaidID          uuid.UUID         `json:"raid_id"`
	Status          RaidStatus        `json:"status"`
	Monster         Monster           `json:"monster"`
	Village         string            `json:"village,omitempty"`
	ExpeditionID    *uuid.UUID        `json:"expedition_id,omitempty"`
	TimeRemaining   time.Duration     `json:"time_remaining"`
	Participants    []RaidParticipant `json:"participants"`
	CurrentTurnName string            `json:"current_turn_name,omitempty"`
	CurrentTurnUser string            `json:"current_turn_user,omitempty"`
}
