package domain

import "github.com/google/uuid"

// Character is the persisted combat record of a player's character
type Character struct {
	ID             uuid.UUID `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	CurrentVillage string    `json:"current_village"`
	Hearts         int       `json:"hearts"`
	MaxHearts      int       `json:"max_hearts"`
	Stamina        int       `json:"stamina"`
	Attack         int       `json:"attack"`
	Defense        int       `json:"defense"`
	Gear           string    `json:"gear,omitempty"`
	KnockedOut     bool      `json:"knocked_out"`
	IsModCharacter bool      `json:"is_mod_character"`
}

// Snapshot captures the combat-relevant state used inside a raid
func (c *Character) Snapshot() CharacterState {
	return CharacterState{
		Hearts:    c.Hearts,
		MaxHearts: c.MaxHearts,
		Stamina:   c.Stamina,
		Attack:    c.Attack,
		Defense:   c.Defense,
		Gear:      c.Gear,
		KO:        c.KnockedOut || c.Hearts <= 0,
	}
}

// CombatStateUpdate is the subset of a character written back after a raid turn
type CombatStateUpdate struct {
	Hearts     int
	Stamina    int
	KnockedOut bool
}
