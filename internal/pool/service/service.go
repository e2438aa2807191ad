// Package service orchestrates pool operations: acquire the pool lock, load
// the aggregate, run the state machine, apply external effects, persist, then
// emit audit events and metrics. The state machine owns the rules; this layer
// owns ordering, atomicity, and the external world.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"tanda/internal/pool/metrics"
	"tanda/internal/pool/models"
	"tanda/internal/pool/ports"
	id "tanda/pkg/domain"
	dErrors "tanda/pkg/domain-errors"
	"tanda/pkg/platform/audit"
	request "tanda/pkg/platform/middleware/request"
	"tanda/pkg/platform/sentinel"
)

var tracer = otel.Tracer("tanda/pool")

// Service exposes the pool engine's entry points. All mutating operations on
// one pool are linearized by the locker; reads go straight to the store.
type Service struct {
	store          ports.PoolStore
	sink           ports.TransferSink
	locker         ports.PoolLocker
	clock          ports.Clock
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(clock ports.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func New(store ports.PoolStore, sink ports.TransferSink, locker ports.PoolLocker, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("pool store is required")
	}
	if sink == nil {
		return nil, fmt.Errorf("transfer sink is required")
	}
	if locker == nil {
		return nil, fmt.Errorf("pool locker is required")
	}

	svc := &Service{
		store:  store,
		sink:   sink,
		locker: locker,
		clock:  ports.SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create opens a new Forming pool with the creator seated as first member.
func (s *Service) Create(ctx context.Context, creator, backendManager id.AccountID, contributionAmount int64) (*models.Pool, error) {
	ctx, span := tracer.Start(ctx, "pool.Create")
	defer span.End()

	pool, err := models.NewPool(creator, backendManager, contributionAmount, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, pool); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save pool")
	}
	span.SetAttributes(attribute.String("pool.id", pool.ID.String()))

	if s.metrics != nil {
		s.metrics.IncrementPoolsCreated()
	}
	s.logAudit(ctx, audit.Event{
		Action:  audit.EventPoolCreated,
		PoolID:  pool.ID,
		ActorID: creator,
		Amount:  contributionAmount,
	})
	return pool, nil
}

// Invite admits a candidate while the pool is forming. Only the creator and
// the backend manager hold invite authority.
func (s *Service) Invite(ctx context.Context, caller id.AccountID, poolID id.PoolID, candidate id.AccountID) error {
	ctx, span := s.startSpan(ctx, "pool.Invite", poolID)
	defer span.End()

	return s.mutate(ctx, poolID, func(pool *models.Pool) error {
		if err := pool.Invite(caller, candidate); err != nil {
			return err
		}
		s.logAudit(ctx, audit.Event{
			Action:    audit.EventMemberInvited,
			PoolID:    poolID,
			ActorID:   caller,
			SubjectID: candidate,
		})
		return nil
	})
}

// Start freezes the roster and opens round 1.
func (s *Service) Start(ctx context.Context, caller id.AccountID, poolID id.PoolID, payoutOrder []id.AccountID) error {
	ctx, span := s.startSpan(ctx, "pool.Start", poolID)
	defer span.End()

	return s.mutate(ctx, poolID, func(pool *models.Pool) error {
		if err := pool.Start(caller, payoutOrder, s.clock.Now()); err != nil {
			return err
		}
		if s.metrics != nil {
			s.metrics.IncrementPoolsStarted()
		}
		s.logAudit(ctx, audit.Event{
			Action:  audit.EventPoolStarted,
			PoolID:  poolID,
			ActorID: caller,
			Round:   pool.CurrentRound,
		})
		return nil
	})
}

// Contribute records the caller's payment for the current round and moves the
// funds into the pool escrow. Nothing is persisted when the deposit fails, so
// the stored ledger and the escrow always agree.
func (s *Service) Contribute(ctx context.Context, caller id.AccountID, poolID id.PoolID, amount int64) (allPaid bool, err error) {
	ctx, span := s.startSpan(ctx, "pool.Contribute", poolID)
	defer span.End()

	err = s.mutate(ctx, poolID, func(pool *models.Pool) error {
		var contributeErr error
		allPaid, contributeErr = pool.Contribute(caller, amount)
		if contributeErr != nil {
			return contributeErr
		}

		// Validation passed: move the funds before the record is persisted.
		if depositErr := s.sink.Deposit(ctx, caller, poolID, amount); depositErr != nil {
			if s.metrics != nil {
				s.metrics.IncrementTransferFailures()
			}
			return s.mapTransferError(depositErr, "contribution deposit failed")
		}

		if s.metrics != nil {
			s.metrics.IncrementContributions()
		}
		s.logAudit(ctx, audit.Event{
			Action:  audit.EventContributionRecorded,
			PoolID:  poolID,
			ActorID: caller,
			Round:   pool.CurrentRound,
			Amount:  amount,
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	return allPaid, nil
}

// TriggerPayout executes the single allowed transfer for the current round.
// Check-effects-interaction: the aggregate is marked settled before the funds
// move, and the marked aggregate is persisted only after the transfer is
// confirmed. A failed transfer therefore leaves the stored round unsettled,
// and a reentrant claim of a settled round is rejected by the state machine.
func (s *Service) TriggerPayout(ctx context.Context, caller id.AccountID, poolID id.PoolID) (models.PayoutResult, error) {
	ctx, span := s.startSpan(ctx, "pool.TriggerPayout", poolID)
	defer span.End()

	start := time.Now()
	var result models.PayoutResult

	err := s.mutate(ctx, poolID, func(pool *models.Pool) error {
		round := pool.CurrentRound
		pot := pool.PotAmount()

		completed, err := pool.MarkPaidOut(caller, s.clock.Now())
		if err != nil {
			return err
		}

		if transferErr := s.sink.Payout(ctx, poolID, caller, pot); transferErr != nil {
			if s.metrics != nil {
				s.metrics.IncrementTransferFailures()
			}
			return s.mapTransferError(transferErr, "payout transfer failed")
		}

		result = models.PayoutResult{Round: round, Amount: pot, Completed: completed}

		if s.metrics != nil {
			s.metrics.IncrementPayouts()
			s.metrics.AddPayoutAmount(pot)
			s.metrics.PayoutDurationSec.Observe(time.Since(start).Seconds())
			if completed {
				s.metrics.IncrementPoolsCompleted()
			}
		}
		s.logAudit(ctx, audit.Event{
			Action:  audit.EventPayoutExecuted,
			PoolID:  poolID,
			ActorID: caller,
			Round:   round,
			Amount:  pot,
		})
		if completed {
			s.logAudit(ctx, audit.Event{
				Action:  audit.EventPoolCompleted,
				PoolID:  poolID,
				ActorID: caller,
				Round:   round,
			})
		}
		return nil
	})
	if err != nil {
		return models.PayoutResult{}, err
	}
	return result, nil
}

// StartNextRound advances the round clock once the current round is settled
// and the cooldown has elapsed. Any member may call it.
func (s *Service) StartNextRound(ctx context.Context, caller id.AccountID, poolID id.PoolID) error {
	ctx, span := s.startSpan(ctx, "pool.StartNextRound", poolID)
	defer span.End()

	return s.mutate(ctx, poolID, func(pool *models.Pool) error {
		if err := pool.StartNextRound(caller, s.clock.Now()); err != nil {
			return err
		}
		s.logAudit(ctx, audit.Event{
			Action:  audit.EventRoundAdvanced,
			PoolID:  poolID,
			ActorID: caller,
			Round:   pool.CurrentRound,
		})
		return nil
	})
}

// UpdateBackendManager replaces the second invite-authority slot.
func (s *Service) UpdateBackendManager(ctx context.Context, caller id.AccountID, poolID id.PoolID, newManager id.AccountID) error {
	ctx, span := s.startSpan(ctx, "pool.UpdateBackendManager", poolID)
	defer span.End()

	return s.mutate(ctx, poolID, func(pool *models.Pool) error {
		if err := pool.UpdateBackendManager(caller, newManager); err != nil {
			return err
		}
		s.logAudit(ctx, audit.Event{
			Action:    audit.EventBackendManagerUpdated,
			PoolID:    poolID,
			ActorID:   caller,
			SubjectID: newManager,
		})
		return nil
	})
}

// Get returns the aggregate for read endpoints.
func (s *Service) Get(ctx context.Context, poolID id.PoolID) (*models.Pool, error) {
	return s.load(ctx, poolID)
}

// List returns all pools.
func (s *Service) List(ctx context.Context) ([]*models.Pool, error) {
	pools, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list pools")
	}
	return pools, nil
}

// mutate runs fn against the pool under its lock and persists the mutated
// aggregate only when fn succeeds. fn must not retain the aggregate.
func (s *Service) mutate(ctx context.Context, poolID id.PoolID, fn func(pool *models.Pool) error) error {
	release, err := s.locker.Acquire(ctx, poolID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to acquire pool lock")
	}
	defer release()

	pool, err := s.load(ctx, poolID)
	if err != nil {
		return err
	}
	if err := fn(pool); err != nil {
		return err
	}
	if err := s.store.Save(ctx, pool); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "pool was modified concurrently")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save pool")
	}
	return nil
}

func (s *Service) load(ctx context.Context, poolID id.PoolID) (*models.Pool, error) {
	if poolID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "pool_id is required")
	}
	pool, err := s.store.FindByID(ctx, poolID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "pool not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pool")
	}
	return pool, nil
}

// mapTransferError converts sink failures into caller-facing codes. An
// unavailable sink means the movement outcome is unknown: surfaced as
// retryable, never retried here.
func (s *Service) mapTransferError(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrInsufficientFunds):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, msg+": insufficient funds")
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg+": transfer outcome unknown, retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
}

func (s *Service) startSpan(ctx context.Context, name string, poolID id.PoolID) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("pool.id", poolID.String()))
	return ctx, span
}

// logAudit mirrors every audit event into the structured log and forwards it
// to the publisher when configured. Publisher failure is logged, not fatal.
func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	event.RequestID = request.GetRequestID(ctx)
	event.Timestamp = s.clock.Now()

	s.logger.InfoContext(ctx, string(event.Action),
		"pool_id", event.PoolID.String(),
		"actor_id", event.ActorID.String(),
		"round", event.Round,
		"amount", event.Amount,
		"request_id", event.RequestID,
		"log_type", "audit",
	)

	if s.auditPublisher == nil {
		return
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"event", string(event.Action),
			"error", err,
		)
	}
}
