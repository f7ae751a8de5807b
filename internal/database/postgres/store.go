// Package postgres implements the repository interfaces on PostgreSQL via pgx.
package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Store groups the repositories sharing one connection pool
type Store struct {
	db *pgxpool.Pool
}

// NewStore creates a store over the pool
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Raids returns the raid repository
func (s *Store) Raids() *RaidRepository { return NewRaidRepository(s.db) }

// Characters returns the character repository
func (s *Store) Characters() *CharacterRepository { return NewCharacterRepository(s.db) }

// Expeditions returns the party pool and journal repository
func (s *Store) Expeditions() *ExpeditionRepository { return NewExpeditionRepository(s.db) }

// Jobs returns the scheduled job repository
func (s *Store) Jobs() *JobRepository { return NewJobRepository(s.db) }
