// Package service derives the cached announcements from current state and
// serves them.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"confcentral/internal/announcement/cache"
	"confcentral/internal/announcement/metrics"
	"confcentral/internal/announcement/models"
	conference "confcentral/internal/conference/models"
	session "confcentral/internal/session/models"
	"confcentral/internal/storage"
	dErrors "confcentral/pkg/domain-errors"
)

const (
	kindNearlySoldOut   = "nearly_sold_out"
	kindFeaturedSpeaker = "featured_speaker"
)

// Store is the slice of the entity store announcements read.
type Store interface {
	ListNearlySoldOut(ctx context.Context, threshold int) ([]*conference.Conference, error)
	ListSessions(ctx context.Context, filter storage.SessionFilter) ([]*session.Session, error)
}

type Service struct {
	store     Store
	cache     cache.Cache
	logger    *slog.Logger
	metrics   *metrics.Metrics
	threshold int
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

// WithNearlySoldOutSeats changes the seat bound of the nearly sold out
// announcement.
func WithNearlySoldOutSeats(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.threshold = n
		}
	}
}

func New(store Store, c cache.Cache, opts ...Option) *Service {
	s := &Service{
		store:     store,
		cache:     c,
		logger:    slog.Default(),
		threshold: models.NearlySoldOutSeats,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RefreshNearlySoldOut rewrites RECENT_ANNOUNCEMENTS from the current seat
// counts, deleting it when no conference qualifies. Safe to run repeatedly.
func (s *Service) RefreshNearlySoldOut(ctx context.Context) (string, error) {
	confs, err := s.store.ListNearlySoldOut(ctx, s.threshold)
	if err != nil {
		s.metrics.IncrementRefresh(kindNearlySoldOut, "error")
		return "", fmt.Errorf("list nearly sold out: %w", err)
	}
	if len(confs) == 0 {
		if err := s.cache.Delete(ctx, models.KeyRecentAnnouncements); err != nil {
			s.metrics.IncrementRefresh(kindNearlySoldOut, "error")
			return "", fmt.Errorf("clear announcement: %w", err)
		}
		s.metrics.IncrementRefresh(kindNearlySoldOut, "cleared")
		return "", nil
	}

	names := make([]string, 0, len(confs))
	for _, c := range confs {
		names = append(names, c.Name)
	}
	msg := models.NearlySoldOutMessage(names)
	if err := s.cache.Set(ctx, models.KeyRecentAnnouncements, msg); err != nil {
		s.metrics.IncrementRefresh(kindNearlySoldOut, "error")
		return "", fmt.Errorf("set announcement: %w", err)
	}
	s.metrics.IncrementRefresh(kindNearlySoldOut, "set")
	return msg, nil
}

// HandleTrigger recomputes the featured speaker for the trigger's
// conference. The speaker is featured when they hold more than one session
// in that conference; otherwise the cached value is left alone.
func (s *Service) HandleTrigger(ctx context.Context, trigger models.FeaturedSpeakerTrigger) error {
	if trigger.Speaker == "" || trigger.ConferenceKey.IsNil() {
		s.metrics.IncrementRefresh(kindFeaturedSpeaker, "unchanged")
		return nil
	}
	sessions, err := s.store.ListSessions(ctx, storage.SessionFilter{
		Conference: trigger.ConferenceKey,
		Speaker:    trigger.Speaker,
	})
	if err != nil {
		s.metrics.IncrementRefresh(kindFeaturedSpeaker, "error")
		return fmt.Errorf("list speaker sessions: %w", err)
	}
	if len(sessions) <= 1 {
		s.metrics.IncrementRefresh(kindFeaturedSpeaker, "unchanged")
		return nil
	}

	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.Name)
	}
	msg := models.FeaturedSpeakerMessage(trigger.Speaker, names)
	if err := s.cache.Set(ctx, models.KeyFeaturedSpeaker, msg); err != nil {
		s.metrics.IncrementRefresh(kindFeaturedSpeaker, "error")
		return fmt.Errorf("set featured speaker: %w", err)
	}
	s.metrics.IncrementRefresh(kindFeaturedSpeaker, "set")
	s.logger.InfoContext(ctx, "featured speaker updated",
		"speaker", trigger.Speaker,
		"conference_key", trigger.ConferenceKey.String(),
		"sessions", len(sessions),
	)
	return nil
}

// Announcement returns the nearly sold out message, or "" when none is cached.
func (s *Service) Announcement(ctx context.Context) (string, error) {
	return s.get(ctx, models.KeyRecentAnnouncements)
}

// FeaturedSpeaker returns the featured speaker message, or "".
func (s *Service) FeaturedSpeaker(ctx context.Context) (string, error) {
	return s.get(ctx, models.KeyFeaturedSpeaker)
}

func (s *Service) get(ctx context.Context, key string) (string, error) {
	v, _, err := s.cache.Get(ctx, key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to read announcement")
	}
	return v, nil
}
