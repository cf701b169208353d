// Package service is the wishlist ledger. It guards the uniqueness of a
// profile's wishlist under concurrent add and remove calls.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/internal/storage"
	"confcentral/internal/wishlist/metrics"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
	"confcentral/pkg/requestcontext"
)

var tracer = otel.Tracer("confcentral/internal/wishlist")

const (
	opAdd    = "add"
	opRemove = "remove"
)

// Store is the slice of the entity store the ledger needs.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error
	GetSessions(ctx context.Context, keys []domain.SessionKey) ([]*session.Session, error)
}

// ProfileProvisioner creates a profile on first use.
type ProfileProvisioner interface {
	EnsureByID(ctx context.Context, id domain.ProfileID) (*profile.Profile, error)
}

type Service struct {
	store    Store
	profiles ProfileProvisioner
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

func New(store Store, profiles ProfileProvisioner, opts ...Option) *Service {
	s := &Service{store: store, profiles: profiles, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a session to the wishlist and returns the resolved list.
func (s *Service) Add(ctx context.Context, profileID domain.ProfileID, key domain.SessionKey) ([]*session.Session, error) {
	return s.mutate(ctx, opAdd, profileID, key, func(p *profile.Profile) (bool, error) {
		if err := p.Wish(key); err != nil {
			return false, err
		}
		return true, nil
	})
}

// Remove drops a session from the wishlist. Removing a session that is not
// listed succeeds without writing.
func (s *Service) Remove(ctx context.Context, profileID domain.ProfileID, key domain.SessionKey) ([]*session.Session, error) {
	return s.mutate(ctx, opRemove, profileID, key, func(p *profile.Profile) (bool, error) {
		return p.Unwish(key), nil
	})
}

// List resolves the wishlist in list order.
func (s *Service) List(ctx context.Context, profileID domain.ProfileID) ([]*session.Session, error) {
	p, err := s.profiles.EnsureByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, p)
}

// ListBySpeaker keeps the wishlist entries given by speaker.
func (s *Service) ListBySpeaker(ctx context.Context, profileID domain.ProfileID, speaker string) ([]*session.Session, error) {
	all, err := s.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	out := make([]*session.Session, 0, len(all))
	for _, sess := range all {
		if sess.Speaker == speaker {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *Service) mutate(ctx context.Context, op string, profileID domain.ProfileID, key domain.SessionKey,
	change func(p *profile.Profile) (bool, error),
) ([]*session.Session, error) {
	ctx, span := tracer.Start(ctx, "wishlist."+op, trace.WithAttributes(
		attribute.String("profile_id", profileID.String()),
		attribute.String("session_key", key.String()),
	))
	defer span.End()

	if _, err := s.profiles.EnsureByID(ctx, profileID); err != nil {
		return nil, s.fail(span, op, err)
	}

	var updated *profile.Profile
	err := s.store.RunInTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetProfile(ctx, profileID)
		if err != nil {
			return err
		}
		if _, err := tx.GetSession(ctx, key); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "no session found with key: "+key.String())
			}
			return err
		}
		changed, err := change(p)
		if err != nil {
			return err
		}
		updated = p
		if !changed {
			return nil
		}
		return tx.PutProfile(ctx, p)
	})
	if err != nil {
		return nil, s.fail(span, op, translateStoreError(err))
	}

	s.metrics.IncrementOperation(op, "ok")
	s.logger.InfoContext(ctx, "wishlist updated",
		"operation", op,
		"profile_id", profileID,
		"session_key", key.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return s.resolve(ctx, updated)
}

func (s *Service) resolve(ctx context.Context, p *profile.Profile) ([]*session.Session, error) {
	if len(p.SessionsInWishlist) == 0 {
		return []*session.Session{}, nil
	}
	out, err := s.store.GetSessions(ctx, p.SessionsInWishlist)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load wishlist sessions")
	}
	return out, nil
}

func (s *Service) fail(span trace.Span, op string, err error) error {
	outcome := "error"
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		outcome = string(de.Code)
	}
	s.metrics.IncrementOperation(op, outcome)
	span.RecordError(err)
	span.SetStatus(codes.Error, op+" failed")
	return err
}

func translateStoreError(err error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.Wrap(err, dErrors.CodeConflict, "wishlist contended with a concurrent change, retry")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "wishlist store failure")
}
