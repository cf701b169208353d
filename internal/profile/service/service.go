// Package service provisions and updates profiles.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"confcentral/internal/profile/models"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
	"confcentral/pkg/requestcontext"
)

// Store is the slice of the entity store profiles need.
type Store interface {
	CreateProfileIfAbsent(ctx context.Context, p *models.Profile) (*models.Profile, error)
	RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error
}

// Service creates a profile on a user's first authenticated access and
// applies user edits.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ensure returns the caller's profile, creating it from the token identity
// when absent.
func (s *Service) Ensure(ctx context.Context) (*models.Profile, error) {
	id, ok := requestcontext.CallerIdentity(ctx)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthenticated, "Authorization required")
	}
	return s.EnsureByID(ctx, id.ProfileID)
}

// EnsureByID returns the profile for id, creating it when absent. Name and
// email come from the caller's identity when it is the same user. Concurrent
// first calls converge on one stored profile.
func (s *Service) EnsureByID(ctx context.Context, id domain.ProfileID) (*models.Profile, error) {
	ident, _ := requestcontext.CallerIdentity(ctx)
	if ident.ProfileID != id {
		ident = requestcontext.Identity{ProfileID: id}
	}

	fresh, err := models.NewProfile(id, defaultDisplayName(ident), ident.Email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid profile id")
	}
	p, err := s.store.CreateProfileIfAbsent(ctx, fresh)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return p, nil
}

// Update applies the caller's edits. The read-modify-write runs in a
// transaction so it cannot overwrite a concurrent ledger change to the
// profile's lists.
func (s *Service) Update(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error) {
	current, err := s.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.Profile
	err = s.store.RunInTx(ctx, func(tx storage.Tx) error {
		p, err := tx.GetProfile(ctx, current.ID)
		if err != nil {
			return err
		}
		update.Apply(p)
		if err := tx.PutProfile(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "profile is being modified concurrently, retry")
		}
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update profile")
	}

	s.logger.InfoContext(ctx, "profile updated",
		"profile_id", updated.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return updated, nil
}

func defaultDisplayName(id requestcontext.Identity) string {
	if name := strings.TrimSpace(id.DisplayName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(id.Email, "@"); ok && local != "" {
		return local
	}
	return id.ProfileID.String()
}
