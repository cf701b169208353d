// Package memory is the in-process entity store used for development and
// tests. A single store-wide lock serializes transactions; writes made
// inside a transaction are staged and applied only on commit.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	conference "confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
)

const defaultTxTimeout = 5 * time.Second

// Store keeps every entity in maps guarded by one RWMutex. Transactions take
// the write lock for their whole body, plain reads take the read lock.
type Store struct {
	mu          sync.RWMutex
	profiles    map[domain.ProfileID]*profile.Profile
	conferences map[domain.ConferenceKey]*conference.Conference
	sessions    map[domain.SessionKey]*session.Session
	timeout     time.Duration
}

type Option func(*Store)

// WithTxTimeout bounds how long RunInTx waits when the caller's context has
// no deadline.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		profiles:    make(map[domain.ProfileID]*profile.Profile),
		conferences: make(map[domain.ConferenceKey]*conference.Conference),
		sessions:    make(map[domain.SessionKey]*session.Session),
		timeout:     defaultTxTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ storage.Store = (*Store)(nil)

func (s *Store) RunInTx(ctx context.Context, fn func(tx storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	tx := newStagedTx(s)
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted before commit")
	}
	tx.commit()
	return nil
}

func (s *Store) GetProfile(_ context.Context, id domain.ProfileID) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[id]; ok {
		return p.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) GetConference(_ context.Context, key domain.ConferenceKey) (*conference.Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c, ok := s.conferences[key]; ok {
		return c.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) GetSession(_ context.Context, key domain.SessionKey) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sess, ok := s.sessions[key]; ok {
		return sess.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) CreateProfileIfAbsent(_ context.Context, p *profile.Profile) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[p.ID]; ok {
		return existing.Clone(), nil
	}
	s.profiles[p.ID] = p.Clone()
	return p.Clone(), nil
}

func (s *Store) PutProfile(_ context.Context, p *profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p.Clone()
	return nil
}

func (s *Store) InsertConference(_ context.Context, c *conference.Conference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.conferences[c.Key]; exists {
		return sentinel.ErrConflict
	}
	s.conferences[c.Key] = c.Clone()
	return nil
}

func (s *Store) GetConferences(_ context.Context, keys []domain.ConferenceKey) ([]*conference.Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*conference.Conference, 0, len(keys))
	for _, k := range keys {
		if c, ok := s.conferences[k]; ok {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *Store) GetSessions(_ context.Context, keys []domain.SessionKey) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*session.Session, 0, len(keys))
	for _, k := range keys {
		if sess, ok := s.sessions[k]; ok {
			out = append(out, sess.Clone())
		}
	}
	return out, nil
}

func (s *Store) QueryConferences(_ context.Context, plan query.Plan) ([]*conference.Conference, error) {
	return plan.Apply(s.conferenceSnapshot(nil)), nil
}

func (s *Store) ListConferencesByOrganizer(_ context.Context, organizer domain.ProfileID) ([]*conference.Conference, error) {
	out := s.conferenceSnapshot(func(c *conference.Conference) bool {
		return c.Key.Parent() == organizer
	})
	slices.SortFunc(out, byName)
	return out, nil
}

func (s *Store) ListNearlySoldOut(_ context.Context, threshold int) ([]*conference.Conference, error) {
	out := s.conferenceSnapshot(func(c *conference.Conference) bool {
		return c.IsNearlySoldOut(threshold)
	})
	slices.SortFunc(out, byName)
	return out, nil
}

func (s *Store) ListSessions(_ context.Context, f storage.SessionFilter) ([]*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*session.Session
	for _, sess := range s.sessions {
		if matchSession(sess, f) {
			out = append(out, sess.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *session.Session) int {
		return cmp.Or(
			cmp.Compare(a.StartTime, b.StartTime),
			cmp.Compare(a.Name, b.Name),
			cmp.Compare(a.Key.String(), b.Key.String()),
		)
	})
	return out, nil
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) conferenceSnapshot(keep func(*conference.Conference) bool) []*conference.Conference {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*conference.Conference, 0, len(s.conferences))
	for _, c := range s.conferences {
		if keep == nil || keep(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

func byName(a, b *conference.Conference) int {
	return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.Key.String(), b.Key.String()))
}

func matchSession(s *session.Session, f storage.SessionFilter) bool {
	if !f.Conference.IsNil() && s.Key.Parent() != f.Conference {
		return false
	}
	if f.Speaker != "" && s.Speaker != f.Speaker {
		return false
	}
	if f.Type != "" && !s.HasType(f.Type) {
		return false
	}
	if f.StartTime != "" && s.StartTime != f.StartTime {
		return false
	}
	if f.StartsBefore != "" && (s.StartTime == "" || s.StartTime >= f.StartsBefore) {
		return false
	}
	return true
}
