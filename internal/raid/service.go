// Package raid coordinates turn-based monster raids shared by many players.
//
// Every mutation goes through a versioned write with bounded optimistic retry;
// there are no raid-level locks. Side effects outside the raid document (party
// pool, character records, scheduled jobs) run once, after the raid write has
// committed, and never roll it back.
package raid

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/osse101/BrandishRaid_Go/internal/concurrency"
	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/encounter"
	"github.com/osse101/BrandishRaid_Go/internal/event"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
	"github.com/osse101/BrandishRaid_Go/internal/metrics"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

// Service defines the raid lifecycle operations
type Service interface {
	StartRaid(ctx context.Context, req StartRaidRequest) (*domain.Raid, error)
	JoinRaid(ctx context.Context, raidID, characterID uuid.UUID) (*domain.RaidParticipant, error)
	TakeTurn(ctx context.Context, raidID, characterID uuid.UUID) (*domain.BattleResult, error)
	LeaveRaid(ctx context.Context, raidID, characterID uuid.UUID) (*domain.LeaveResult, error)
	RetreatRaid(ctx context.Context, raidID, characterID uuid.UUID) (*domain.Raid, error)
	CheckExpiration(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error)
	SkipTurn(ctx context.Context, payload TurnSkipPayload) (bool, error)
	SweepExpired(ctx context.Context) (int, error)

	GetRaid(ctx context.Context, raidID uuid.UUID) (*domain.Raid, error)
	GetSummary(ctx context.Context, raidID uuid.UUID) (*domain.RaidSummary, error)
	ListActive(ctx context.Context) ([]*domain.Raid, error)
}

// PartyPools is the expedition side a raid needs
type PartyPools interface {
	FindActiveByLinkageID(ctx context.Context, expeditionID uuid.UUID) (*domain.PartyPool, error)
	ApplyRaidDamage(ctx context.Context, expeditionID uuid.UUID, damage int) (*domain.PartyPool, error)
	RecordRaidOutcome(ctx context.Context, expeditionID, raidID uuid.UUID, outcome domain.RaidOutcome) (bool, error)
	FailExpedition(ctx context.Context, expeditionID, raidID uuid.UUID) (bool, error)
}

// CooldownPolicy gates raid starts
type CooldownPolicy interface {
	Enforce(ctx context.Context, village string, trigger domain.RaidTrigger, start func() error) error
}

// EventPublisher defines the interface for publishing events with retry
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

type service struct {
	raids      repository.Raid
	characters repository.Character
	resolver   *encounter.Resolver
	jobs       JobScheduler
	timer      *TurnTimer
	pools      PartyPools
	policy     CooldownPolicy
	publisher  EventPublisher
	cache      *raidCache
	roller     encounter.Roller
	tracer     trace.Tracer
	now        func() time.Time

	secondaryAttempts int
	secondaryBackoff  time.Duration
}

// Option configures the service
type Option func(*service)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithRoller overrides the base roll source
func WithRoller(r encounter.Roller) Option {
	return func(s *service) { s.roller = r }
}

// WithSecondaryRetry tunes retries of side effects that follow a raid write
func WithSecondaryRetry(attempts int, backoff time.Duration) Option {
	return func(s *service) {
		s.secondaryAttempts = attempts
		s.secondaryBackoff = backoff
	}
}

// WithTracer overrides the tracer taken from the global provider
func WithTracer(t trace.Tracer) Option {
	return func(s *service) { s.tracer = t }
}

// NewService creates a new raid service. pools, policy and publisher may be nil:
// without pools expedition raids cannot start, without policy no cooldowns apply.
func NewService(
	raids repository.Raid,
	characters repository.Character,
	resolver *encounter.Resolver,
	jobs JobScheduler,
	pools PartyPools,
	policy CooldownPolicy,
	publisher EventPublisher,
	opts ...Option,
) Service {
	s := &service{
		raids:             raids,
		characters:        characters,
		resolver:          resolver,
		jobs:              jobs,
		pools:             pools,
		policy:            policy,
		publisher:         publisher,
		cache:             newRaidCache(DefaultCacheSize, DefaultCacheTTL),
		tracer:            otel.Tracer(TracerName),
		now:               time.Now,
		secondaryAttempts: concurrency.DefaultSecondaryAttempts,
		secondaryBackoff:  concurrency.DefaultSecondaryBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.resolver == nil {
		s.resolver = encounter.NewResolver(nil, characters)
	}
	if s.roller == nil {
		s.roller = defaultRoller()
	}
	s.timer = NewTurnTimer(jobs, s.now)
	return s
}

func defaultRoller() encounter.Roller {
	r, err := encounter.NewSeededRoller()
	if err != nil {
		return encounter.NewRandRoller(uint64(time.Now().UnixNano()))
	}
	return r
}

// retry runs an optimistic raid write and feeds the conflict metrics
func retry[T any](ctx context.Context, op string, fn concurrency.Attempt[T]) (concurrency.Result[T], error) {
	res, err := concurrency.RetryOptimistic(ctx, concurrency.Options{
		MaxAttempts: domain.MaxRaidWriteAttempts,
		Operation:   op,
		OnConflict: func(op string, _ int) {
			metrics.RaidVersionConflicts.WithLabelValues(op).Inc()
		},
	}, fn)
	if err != nil && isExhausted(err) {
		metrics.RaidConcurrencyExhausted.WithLabelValues(op).Inc()
	}
	return res, err
}

// secondary runs a best-effort effect and returns its name when it failed for good
func (s *service) secondary(ctx context.Context, name string, fn func(ctx context.Context) error) string {
	if err := concurrency.RetrySecondary(ctx, name, s.secondaryAttempts, s.secondaryBackoff, fn); err != nil {
		logger.FromContext(ctx).Warn(LogMsgSecondaryFailed, "effect", name, "error", err)
		return name
	}
	return ""
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.publisher != nil {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}

func (s *service) startSpan(ctx context.Context, name string, raidID uuid.UUID) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrRaidID(raidID)))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
