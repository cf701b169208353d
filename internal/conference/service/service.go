// Package service implements conference creation, organizer updates and
// conference queries.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"confcentral/internal/conference/metrics"
	"confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	profile "confcentral/internal/profile/models"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
	"confcentral/pkg/requestcontext"
)

// Store is the slice of the entity store conferences need.
type Store interface {
	InsertConference(ctx context.Context, c *models.Conference) error
	GetConference(ctx context.Context, key domain.ConferenceKey) (*models.Conference, error)
	QueryConferences(ctx context.Context, plan query.Plan) ([]*models.Conference, error)
	ListConferencesByOrganizer(ctx context.Context, organizer domain.ProfileID) ([]*models.Conference, error)
	RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error
}

// ProfileProvisioner resolves the caller's profile, creating it on first use.
type ProfileProvisioner interface {
	Ensure(ctx context.Context) (*profile.Profile, error)
}

type Service struct {
	store    Store
	profiles ProfileProvisioner
	logger   *slog.Logger
	metrics  *metrics.Metrics
	newID    func() string
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

// WithIDGenerator replaces the random conference id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(store Store, profiles ProfileProvisioner, opts ...Option) *Service {
	s := &Service{
		store:    store,
		profiles: profiles,
		logger:   slog.Default(),
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new conference organized by the caller.
func (s *Service) Create(ctx context.Context, draft models.Draft) (*models.Conference, error) {
	organizer, err := s.profiles.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	c, err := models.NewConference(domain.NewConferenceKey(organizer.ID, s.newID()), draft)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertConference(ctx, c); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Wrap(err, dErrors.CodeConflict, "conference already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create conference")
	}

	s.logger.InfoContext(ctx, "conference created",
		"conference_key", c.Key.String(),
		"organizer_id", organizer.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return c, nil
}

// Update applies organizer edits. Only the organizer may update; seat
// counters are not editable here.
func (s *Service) Update(ctx context.Context, key domain.ConferenceKey, update models.Update) (*models.Conference, error) {
	caller, err := s.profiles.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var updated *models.Conference
	err = s.store.RunInTx(ctx, func(tx storage.Tx) error {
		c, err := tx.GetConference(ctx, key)
		if err != nil {
			return err
		}
		if !c.IsOrganizedBy(caller.ID) {
			return dErrors.New(dErrors.CodeForbidden, "only the owner can update the conference")
		}
		if err := update.Apply(c); err != nil {
			return err
		}
		if err := tx.PutConference(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, key)
	}
	return updated, nil
}

// Get loads one conference.
func (s *Service) Get(ctx context.Context, key domain.ConferenceKey) (*models.Conference, error) {
	c, err := s.store.GetConference(ctx, key)
	if err != nil {
		return nil, translateStoreError(err, key)
	}
	return c, nil
}

// ListCreated returns the caller's own conferences ordered by name.
func (s *Service) ListCreated(ctx context.Context) ([]*models.Conference, error) {
	caller, err := s.profiles.Ensure(ctx)
	if err != nil {
		return nil, err
	}
	out, err := s.store.ListConferencesByOrganizer(ctx, caller.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list conferences")
	}
	return out, nil
}

// Query compiles criteria and runs the resulting plan.
func (s *Service) Query(ctx context.Context, criteria []query.Criterion) ([]*models.Conference, error) {
	plan, err := query.Compile(criteria)
	if err != nil {
		if de, ok := dErrors.As(err); ok {
			s.metrics.IncrementFilterRejected(string(de.Code))
		}
		s.logger.InfoContext(ctx, "conference filter rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, err
	}

	start := time.Now()
	out, err := s.store.QueryConferences(ctx, plan)
	s.metrics.ObserveQuery(start)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query conferences")
	}
	return out, nil
}

// QueryFilter runs an AIP-160 filter string such as
// `city = "London" AND month > 5`.
func (s *Service) QueryFilter(ctx context.Context, filter string) ([]*models.Conference, error) {
	criteria, err := query.ParseFilter(filter)
	if err != nil {
		s.metrics.IncrementFilterRejected(string(dErrors.CodeInvalidFilter))
		return nil, err
	}
	return s.Query(ctx, criteria)
}

func translateStoreError(err error, key domain.ConferenceKey) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "no conference found with key: "+key.String())
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "conference is being modified concurrently, retry")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "conference store failure")
}
