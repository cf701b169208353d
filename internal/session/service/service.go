// Package service creates sessions under a conference and answers the
// session listings. Each created session emits one featured speaker trigger.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	announcement "confcentral/internal/announcement/models"
	profile "confcentral/internal/profile/models"
	"confcentral/internal/session/models"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
	"confcentral/pkg/requestcontext"
)

// EveningStart bounds the before-evening listing.
const EveningStart = "19:00"

// Store is the slice of the entity store sessions need.
type Store interface {
	RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error
	ListSessions(ctx context.Context, filter storage.SessionFilter) ([]*models.Session, error)
}

// ProfileProvisioner resolves the caller's profile, creating it on first use.
type ProfileProvisioner interface {
	Ensure(ctx context.Context) (*profile.Profile, error)
}

// TriggerPublisher hands featured speaker triggers to the announcement worker.
type TriggerPublisher interface {
	Publish(ctx context.Context, trigger announcement.FeaturedSpeakerTrigger) error
}

type Service struct {
	store     Store
	profiles  ProfileProvisioner
	publisher TriggerPublisher
	logger    *slog.Logger
	newID     func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the random session id source.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func New(store Store, profiles ProfileProvisioner, publisher TriggerPublisher, opts ...Option) *Service {
	s := &Service{
		store:     store,
		profiles:  profiles,
		publisher: publisher,
		logger:    slog.Default(),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a session to a conference the caller organizes. The trigger is
// published only after the session is stored; a publish failure is logged
// and does not fail the call.
func (s *Service) Create(ctx context.Context, conference domain.ConferenceKey, draft models.Draft) (*models.Session, error) {
	caller, err := s.profiles.Ensure(ctx)
	if err != nil {
		return nil, err
	}

	var created *models.Session
	err = s.store.RunInTx(ctx, func(tx storage.Tx) error {
		c, err := tx.GetConference(ctx, conference)
		if err != nil {
			return err
		}
		if !c.IsOrganizedBy(caller.ID) {
			return dErrors.New(dErrors.CodeForbidden, "only the owner can create a session")
		}
		sess, err := models.NewSession(domain.NewSessionKey(conference, s.newID()), caller.ID, draft)
		if err != nil {
			return err
		}
		if err := tx.InsertSession(ctx, sess); err != nil {
			return err
		}
		created = sess
		return nil
	})
	if err != nil {
		return nil, translateStoreError(err, conference)
	}

	trigger := announcement.FeaturedSpeakerTrigger{Speaker: created.Speaker, ConferenceKey: conference}
	if err := s.publisher.Publish(ctx, trigger); err != nil {
		s.logger.WarnContext(ctx, "failed to publish featured speaker trigger",
			"error", err,
			"session_key", created.Key.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	s.logger.InfoContext(ctx, "session created",
		"session_key", created.Key.String(),
		"speaker", created.Speaker,
		"request_id", requestcontext.RequestID(ctx),
	)
	return created, nil
}

// ListByConference returns every session of a conference.
func (s *Service) ListByConference(ctx context.Context, conference domain.ConferenceKey) ([]*models.Session, error) {
	return s.list(ctx, storage.SessionFilter{Conference: conference})
}

// ListByType returns a conference's sessions tagged with typ.
func (s *Service) ListByType(ctx context.Context, conference domain.ConferenceKey, typ string) ([]*models.Session, error) {
	return s.list(ctx, storage.SessionFilter{Conference: conference, Type: typ})
}

// ListBySpeaker searches all conferences.
func (s *Service) ListBySpeaker(ctx context.Context, speaker string) ([]*models.Session, error) {
	if speaker == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "speaker is required")
	}
	return s.list(ctx, storage.SessionFilter{Speaker: speaker})
}

// ListByStartTime returns sessions starting exactly at startTime ("HH:MM").
func (s *Service) ListByStartTime(ctx context.Context, startTime string) ([]*models.Session, error) {
	normalized, err := models.NormalizeStartTime(startTime)
	if err != nil {
		return nil, err
	}
	if normalized == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "startTime is required")
	}
	return s.list(ctx, storage.SessionFilter{StartTime: normalized})
}

// ListBeforeEveningNonWorkshop returns sessions starting before 19:00 that
// are not workshops. Only the start time bound reaches the store; the type
// exclusion is a second inequality and is applied here.
func (s *Service) ListBeforeEveningNonWorkshop(ctx context.Context) ([]*models.Session, error) {
	sessions, err := s.list(ctx, storage.SessionFilter{StartsBefore: EveningStart})
	if err != nil {
		return nil, err
	}
	out := sessions[:0]
	for _, sess := range sessions {
		if !sess.HasType(models.TypeWorkshop) {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *Service) list(ctx context.Context, filter storage.SessionFilter) ([]*models.Session, error) {
	out, err := s.store.ListSessions(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}
	return out, nil
}

func translateStoreError(err error, conference domain.ConferenceKey) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "no conference found with key: "+conference.String())
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, "session could not be stored, retry")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "session store failure")
}
