// Package service is the registration ledger: it keeps a profile's
// attendance list and a conference's seat counter consistent.
//
// Both entities change inside one store transaction. The profile row is
// locked before the conference row, the same order the wishlist ledger
// uses, so the ledgers never deadlock against each other.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	conference "confcentral/internal/conference/models"
	profile "confcentral/internal/profile/models"
	"confcentral/internal/registration/metrics"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
	"confcentral/pkg/requestcontext"
)

var tracer = otel.Tracer("confcentral/internal/registration")

// Store is the slice of the entity store the ledger needs.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error
	GetConferences(ctx context.Context, keys []domain.ConferenceKey) ([]*conference.Conference, error)
}

// ProfileProvisioner creates a profile on first use. The insert is
// idempotent and happens before the ledger transaction opens.
type ProfileProvisioner interface {
	EnsureByID(ctx context.Context, id domain.ProfileID) (*profile.Profile, error)
}

// Signaler is poked after every committed seat change so derived
// announcements are refreshed. Signal must not block.
type Signaler interface {
	Signal()
}

type Service struct {
	store    Store
	profiles ProfileProvisioner
	signaler Signaler
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSignaler sets the announcement refresher to notify after commits.
func WithSignaler(sig Signaler) Option {
	return func(s *Service) {
		s.signaler = sig
	}
}

func New(store Store, profiles ProfileProvisioner, opts ...Option) *Service {
	s := &Service{
		store:    store,
		profiles: profiles,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register reserves a seat for profileID. It fails with NotFound when the
// conference is absent and Conflict when already registered or sold out; on
// failure neither entity changes.
func (s *Service) Register(ctx context.Context, profileID domain.ProfileID, key domain.ConferenceKey) (bool, error) {
	ctx, span := startSpan(ctx, "registration.Register", profileID, key)
	defer span.End()

	if _, err := s.profiles.EnsureByID(ctx, profileID); err != nil {
		return false, s.fail(ctx, span, "register", err)
	}

	start := time.Now()
	var seatsLeft int
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetProfile(ctx, profileID)
		if err != nil {
			return err
		}
		c, err := tx.GetConference(ctx, key)
		if err != nil {
			return err
		}
		if err := p.Attend(key); err != nil {
			return err
		}
		if err := c.ReserveSeat(); err != nil {
			return err
		}
		if err := tx.PutProfile(ctx, p); err != nil {
			return err
		}
		seatsLeft = c.SeatsAvailable
		return tx.PutConference(ctx, c)
	})
	s.metrics.ObserveTx("register", start)
	if err != nil {
		err = translateStoreError(err, key)
		s.metrics.IncrementRegistration(outcomeOf(err))
		return false, s.fail(ctx, span, "register", err)
	}

	s.metrics.IncrementRegistration(metrics.OutcomeOK)
	span.SetAttributes(attribute.Int("seats_available", seatsLeft))
	s.logger.InfoContext(ctx, "conference registration",
		"profile_id", profileID,
		"conference_key", key.String(),
		"seats_available", seatsLeft,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.signal()
	return true, nil
}

// Unregister releases profileID's seat. It returns false without writing
// anything when the profile is not registered.
func (s *Service) Unregister(ctx context.Context, profileID domain.ProfileID, key domain.ConferenceKey) (bool, error) {
	ctx, span := startSpan(ctx, "registration.Unregister", profileID, key)
	defer span.End()

	if _, err := s.profiles.EnsureByID(ctx, profileID); err != nil {
		return false, s.fail(ctx, span, "unregister", err)
	}

	start := time.Now()
	changed := false
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetProfile(ctx, profileID)
		if err != nil {
			return err
		}
		c, err := tx.GetConference(ctx, key)
		if err != nil {
			return err
		}
		if !p.Leave(key) {
			return nil
		}
		if err := c.ReleaseSeat(); err != nil {
			return err
		}
		if err := tx.PutProfile(ctx, p); err != nil {
			return err
		}
		if err := tx.PutConference(ctx, c); err != nil {
			return err
		}
		changed = true
		return nil
	})
	s.metrics.ObserveTx("unregister", start)
	if err != nil {
		err = translateStoreError(err, key)
		s.metrics.IncrementUnregistration(outcomeOf(err))
		return false, s.fail(ctx, span, "unregister", err)
	}
	if !changed {
		s.metrics.IncrementUnregistration(metrics.OutcomeNoop)
		return false, nil
	}

	s.metrics.IncrementUnregistration(metrics.OutcomeOK)
	s.logger.InfoContext(ctx, "conference unregistration",
		"profile_id", profileID,
		"conference_key", key.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	s.signal()
	return true, nil
}

// Attending resolves the profile's attendance list in list order. Keys whose
// conference no longer resolves are skipped.
func (s *Service) Attending(ctx context.Context, profileID domain.ProfileID) ([]*conference.Conference, error) {
	p, err := s.profiles.EnsureByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if len(p.ConferenceKeysToAttend) == 0 {
		return []*conference.Conference{}, nil
	}
	out, err := s.store.GetConferences(ctx, p.ConferenceKeysToAttend)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load attended conferences")
	}
	return out, nil
}

func (s *Service) signal() {
	if s.signaler != nil {
		s.signaler.Signal()
	}
}

func (s *Service) fail(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		s.logger.ErrorContext(ctx, "registration ledger failure",
			"operation", op,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return err
}

func startSpan(ctx context.Context, name string, profileID domain.ProfileID, key domain.ConferenceKey) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("profile_id", profileID.String()),
		attribute.String("conference_key", key.String()),
	))
}

func translateStoreError(err error, key domain.ConferenceKey) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "no conference found with key: "+key.String())
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "registration contended with a concurrent change, retry")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "registration store failure")
}

func outcomeOf(err error) string {
	de, ok := dErrors.As(err)
	if !ok {
		return metrics.OutcomeError
	}
	switch de.Code {
	case dErrors.CodeConflict:
		if errors.Is(err, sentinel.ErrConflict) {
			return metrics.OutcomeConflict
		}
		return metrics.OutcomeRejected
	case dErrors.CodeNotFound, dErrors.CodeBadRequest:
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}
