package memory

import (
	"context"

	conference "confcentral/internal/conference/models"
	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/pkg/domain"
	"confcentral/pkg/platform/sentinel"
)

// stagedTx buffers writes over the committed maps. The store lock is held by
// RunInTx for the lifetime of a stagedTx, so it reads the maps directly.
type stagedTx struct {
	store       *Store
	profiles    map[domain.ProfileID]*profile.Profile
	conferences map[domain.ConferenceKey]*conference.Conference
	sessions    map[domain.SessionKey]*session.Session
}

func newStagedTx(s *Store) *stagedTx {
	return &stagedTx{
		store:       s,
		profiles:    make(map[domain.ProfileID]*profile.Profile),
		conferences: make(map[domain.ConferenceKey]*conference.Conference),
		sessions:    make(map[domain.SessionKey]*session.Session),
	}
}

func (t *stagedTx) GetProfile(_ context.Context, id domain.ProfileID) (*profile.Profile, error) {
	if p, ok := t.profiles[id]; ok {
		return p.Clone(), nil
	}
	if p, ok := t.store.profiles[id]; ok {
		return p.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (t *stagedTx) GetConference(_ context.Context, key domain.ConferenceKey) (*conference.Conference, error) {
	if c, ok := t.conferences[key]; ok {
		return c.Clone(), nil
	}
	if c, ok := t.store.conferences[key]; ok {
		return c.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (t *stagedTx) GetSession(_ context.Context, key domain.SessionKey) (*session.Session, error) {
	if s, ok := t.sessions[key]; ok {
		return s.Clone(), nil
	}
	if s, ok := t.store.sessions[key]; ok {
		return s.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (t *stagedTx) PutProfile(_ context.Context, p *profile.Profile) error {
	t.profiles[p.ID] = p.Clone()
	return nil
}

func (t *stagedTx) PutConference(_ context.Context, c *conference.Conference) error {
	t.conferences[c.Key] = c.Clone()
	return nil
}

func (t *stagedTx) InsertSession(_ context.Context, s *session.Session) error {
	_, staged := t.sessions[s.Key]
	_, committed := t.store.sessions[s.Key]
	if staged || committed {
		return sentinel.ErrConflict
	}
	t.sessions[s.Key] = s.Clone()
	return nil
}

func (t *stagedTx) commit() {
	for id, p := range t.profiles {
		t.store.profiles[id] = p
	}
	for key, c := range t.conferences {
		t.store.conferences[key] = c
	}
	for key, s := range t.sessions {
		t.store.sessions[key] = s
	}
}
