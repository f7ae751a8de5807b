package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/raid"
)

// MockRaidService mocks raid.Service
type MockRaidService struct {
	mock.Mock
}

func (m *MockRaidService) StartRaid(ctx context.Context, req raid.StartRaidRequest) (*domain.Raid, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Raid), args.Error(1)
}

func (m *MockRaidService) JoinRaid(ctx context.Context, raidID, characterID uuid.UUID) (*domain.RaidParticipant, error) {
	args := m.Called(ctx, raidID, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RaidParticipant), args.Error(1)
}

func (m *MockRaidService) TakeTurn(ctx context.Context, raidID, characterID uuid.UUID) (*domain.BattleResult, error) {
	args := m.Called(ctx, raidID, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BattleResult), args.Error(1)
}

func (m *MockRaidService) LeaveRaid(ctx context.Context, raidID, characterID uuid.UUID) (*domain.LeaveResult, error) {
	args := m.Called(ctx, raidID, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LeaveResult), args.Error(1)
}

func (m *MockRaidService) RetreatRaid(ctx context.Context, raidID, characterID uuid.UUID) (*domain.Raid, error) {
	args := m.Called(ctx, raidID, characterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Raid), args.Error(1)
}

func (m *MockRaidService) CheckExpiration(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error) {
	args := m.Called(ctx, raidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Raid), args.Error(1)
}

func (m *MockRaidService) SkipTurn(ctx context.Context, payload raid.TurnSkipPayload) (bool, error) {
	args := m.Called(ctx, payload)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaidService) SweepExpired(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockRaidService) GetRaid(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error) {
	args := m.Called(ctx, raidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Raid), args.Error(1)
}

func (m *MockRaidService) GetSummary(ctx context.Context, raidID uuid.UUID) (*domain.RaidSummary, error) {
	args := m.Called(ctx, raidID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RaidSummary), args.Error(1)
}

func (m *MockRaidService) ListActive(ctx context.Context) ([]*domain.Raid, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Raid), args.Error(1)
}

// MockExpeditionService mocks expedition.Service
type MockExpeditionService struct {
	mock.Mock
}

func (m *MockExpeditionService) StartExpedition(ctx context.Context, members []domain.PartyMember, hearts, stamina int) (*domain.PartyPool, error) {
	args := m.Called(ctx, members, hearts, stamina)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyPool), args.Error(1)
}

func (m *MockExpeditionService) FindActiveByLinkageID(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error) {
	args := m.Called(ctx, expeditionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyPool), args.Error(1)
}

func (m *MockExpeditionService) GetPool(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error) {
	args := m.Called(ctx, expeditionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyPool), args.Error(1)
}

func (m *MockExpeditionService) SavePool(ctx context.Context, pool *domain.PartyPool) error {
	return m.Called(ctx, pool).Error(0)
}

func (m *MockExpeditionService) ApplyRaidDamage(ctx context.Context, expeditionID uuid.UUID, damage int) (*domain.PartyPool, error) {
	args := m.Called(ctx, expeditionID, damage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyPool), args.Error(1)
}

func (m *MockExpeditionService) RecordRaidOutcome(ctx context.Context, expeditionID, raidID uuid.UUID, outcome domain.RaidOutcome) (bool, error) {
	args := m.Called(ctx, expeditionID, raidID, outcome)
	return args.Bool(0), args.Error(1)
}

func (m *MockExpeditionService) FailExpedition(ctx context.Context, expeditionID, raidID uuid.UUID) (bool, error) {
	args := m.Called(ctx, expeditionID, raidID)
	return args.Bool(0), args.Error(1)
}

func (m *MockExpeditionService) GetJournal(ctx context.Context, expeditionID uuid.UUID) ([]domain.RaidOutcomeRecord, error) {
	args := m.Called(ctx, expeditionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RaidOutcomeRecord), args.Error(1)
}

// MockCharacterRoster mocks repository.CharacterRoster
type MockCharacterRoster struct {
	mock.Mock
}

func (m *MockCharacterRoster) GetCharacter(ctx context.Context, id uuid.UUID) (*domain.Character, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Character), args.Error(1)
}

func (m *MockCharacterRoster) UpdateCombatState(ctx context.Context, id uuid.UUID, update domain.CombatStateUpdate) error {
	return m.Called(ctx, id, update).Error(0)
}

func (m *MockCharacterRoster) SaveCharacter(ctx context.Context, c *domain.Character) error {
	return m.Called(ctx, c).Error(0)
}

// MockDBPool mocks the database.Pool interface
type MockDBPool struct {
	mock.Mock
}

func (m *MockDBPool) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockDBPool) Close() {
	m.Called()
}
