// Package memory implements the repository interfaces in process memory.
// Writes follow the same version rules as the postgres backend, which makes it
// suitable for tests and single-process development runs.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// Store holds every in-memory table behind one mutex
type Store struct {
	mu         sync.RWMutex
	raids      map[uuid.UUID]*domain.Raid
	characters map[uuid.UUID]domain.Character
	pools      map[uuid.UUID]*domain.PartyPool
	journal    map[uuid.UUID][]domain.RaidOutcomeRecord
	jobs       map[uuid.UUID]domain.ScheduledJob
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		raids:      make(map[uuid.UUID]*domain.Raid),
		characters: make(map[uuid.UUID]domain.Character),
		pools:      make(map[uuid.UUID]*domain.PartyPool),
		journal:    make(map[uuid.UUID][]domain.RaidOutcomeRecord),
		jobs:       make(map[uuid.UUID]domain.ScheduledJob),
	}
}

// Raids returns the raid repository view of the store
func (s *Store) Raids() *RaidRepository { return &RaidRepository{s: s} }

// Characters returns the character repository view of the store
func (s *Store) Characters() *CharacterRepository { return &CharacterRepository{s: s} }

// Expeditions returns the expedition repository view of the store
func (s *Store) Expeditions() *ExpeditionRepository { return &ExpeditionRepository{s: s} }

// Jobs returns the scheduled job repository view of the store
func (s *Store) Jobs() *JobRepository { return &JobRepository{s: s} }
