// Package storage defines the entity store the ledgers and services run
// against. Implementations live in the memory and postgres subpackages.
//
// Stores are pure I/O: they persist and load entities and report
// infrastructure facts through sentinel errors (sentinel.ErrNotFound,
// sentinel.ErrConflict). Domain rules such as seat accounting or list
// uniqueness live on the models and in the services.
package storage

import (
	"context"

	conference "confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/pkg/domain"
)

// Reader loads single entities by key. Missing entities yield
// sentinel.ErrNotFound. Returned values are copies the caller may mutate.
type Reader interface {
	GetProfile(ctx context.Context, id domain.ProfileID) (*profile.Profile, error)
	GetConference(ctx context.Context, key domain.ConferenceKey) (*conference.Conference, error)
	GetSession(ctx context.Context, key domain.SessionKey) (*session.Session, error)
}

// Tx is the store as seen from inside RunInTx. Reads through a Tx lock the
// entity until commit where the backend supports row locks; writes become
// visible only when the transaction function returns nil.
type Tx interface {
	Reader
	PutProfile(ctx context.Context, p *profile.Profile) error
	PutConference(ctx context.Context, c *conference.Conference) error
	// InsertSession fails with sentinel.ErrConflict if the key exists.
	InsertSession(ctx context.Context, s *session.Session) error
}

// SessionFilter selects sessions. Zero-valued fields do not constrain.
type SessionFilter struct {
	Conference domain.ConferenceKey
	Speaker    string
	Type       string
	StartTime  string
	// StartsBefore keeps sessions with a non-empty StartTime strictly
	// earlier than this "HH:MM" value.
	StartsBefore string
}

// Store is the full entity store.
type Store interface {
	Reader

	// RunInTx runs fn atomically. If fn returns an error nothing it wrote is
	// kept. Contention the backend cannot resolve surfaces as
	// sentinel.ErrConflict.
	RunInTx(ctx context.Context, fn func(tx Tx) error) error

	// CreateProfileIfAbsent inserts p unless a profile with the same id
	// exists, and returns whichever profile is stored afterwards.
	CreateProfileIfAbsent(ctx context.Context, p *profile.Profile) (*profile.Profile, error)
	// PutProfile writes profile fields outside a ledger transaction.
	PutProfile(ctx context.Context, p *profile.Profile) error
	InsertConference(ctx context.Context, c *conference.Conference) error

	// GetConferences and GetSessions batch-load by key, in key order,
	// skipping keys that no longer resolve.
	GetConferences(ctx context.Context, keys []domain.ConferenceKey) ([]*conference.Conference, error)
	GetSessions(ctx context.Context, keys []domain.SessionKey) ([]*session.Session, error)

	QueryConferences(ctx context.Context, plan query.Plan) ([]*conference.Conference, error)
	ListConferencesByOrganizer(ctx context.Context, organizer domain.ProfileID) ([]*conference.Conference, error)
	// ListSessions returns matches ordered by start time then name.
	ListSessions(ctx context.Context, filter SessionFilter) ([]*session.Session, error)
	// ListNearlySoldOut returns conferences with 0 < seatsAvailable <= threshold,
	// ordered by name.
	ListNearlySoldOut(ctx context.Context, threshold int) ([]*conference.Conference, error)

	Ping(ctx context.Context) error
}
