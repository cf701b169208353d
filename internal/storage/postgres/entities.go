package postgres

import (
	"context"

	"github.com/lib/pq"

	conference "confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	txctx "confcentral/pkg/platform/tx"
)

const upsertProfile = `
	INSERT INTO profiles (` + profileColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE SET
		display_name = EXCLUDED.display_name,
		main_email = EXCLUDED.main_email,
		tee_shirt_size = EXCLUDED.tee_shirt_size,
		conference_keys = EXCLUDED.conference_keys,
		wishlist_keys = EXCLUDED.wishlist_keys
`

const upsertConference = `
	INSERT INTO conferences (key, organizer_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (key) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		topics = EXCLUDED.topics,
		city = EXCLUDED.city,
		start_date = EXCLUDED.start_date,
		end_date = EXCLUDED.end_date,
		month = EXCLUDED.month,
		seats_available = EXCLUDED.seats_available
`

const insertConference = `
	INSERT INTO conferences (key, organizer_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

const insertSession = `
	INSERT INTO sessions (key, conference_key, organizer_id, name, highlights, speaker, duration, types, date, start_time)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

// getProfile, getConference and getSession are shared by the store and its
// transactions; lock appends FOR UPDATE.
func getProfile(ctx context.Context, q txctx.Querier, id domain.ProfileID, lock bool) (*profile.Profile, error) {
	stmt := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	if lock {
		stmt += ` FOR UPDATE`
	}
	p, err := scanProfile(q.QueryRowContext(ctx, stmt, id.String()))
	if err != nil {
		return nil, mapError(err, "get profile")
	}
	return p, nil
}

func getConference(ctx context.Context, q txctx.Querier, key domain.ConferenceKey, lock bool) (*conference.Conference, error) {
	stmt := `SELECT ` + conferenceColumns + ` FROM conferences WHERE key = $1`
	if lock {
		stmt += ` FOR UPDATE`
	}
	c, err := scanConference(q.QueryRowContext(ctx, stmt, key.String()))
	if err != nil {
		return nil, mapError(err, "get conference")
	}
	return c, nil
}

func getSession(ctx context.Context, q txctx.Querier, key domain.SessionKey) (*session.Session, error) {
	stmt := `SELECT ` + sessionColumns + ` FROM sessions WHERE key = $1`
	s, err := scanSession(q.QueryRowContext(ctx, stmt, key.String()))
	if err != nil {
		return nil, mapError(err, "get session")
	}
	return s, nil
}

func putProfile(ctx context.Context, q txctx.Querier, p *profile.Profile) error {
	if _, err := q.ExecContext(ctx, upsertProfile, profileArgs(p)...); err != nil {
		return mapError(err, "put profile")
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, id domain.ProfileID) (*profile.Profile, error) {
	return getProfile(ctx, s.q(ctx), id, false)
}

func (s *Store) GetConference(ctx context.Context, key domain.ConferenceKey) (*conference.Conference, error) {
	return getConference(ctx, s.q(ctx), key, false)
}

func (s *Store) GetSession(ctx context.Context, key domain.SessionKey) (*session.Session, error) {
	return getSession(ctx, s.q(ctx), key)
}

func (s *Store) PutProfile(ctx context.Context, p *profile.Profile) error {
	return putProfile(ctx, s.q(ctx), p)
}

func (s *Store) CreateProfileIfAbsent(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	stmt := `
		INSERT INTO profiles (` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	q := s.q(ctx)
	if _, err := q.ExecContext(ctx, stmt, profileArgs(p)...); err != nil {
		return nil, mapError(err, "create profile")
	}
	return getProfile(ctx, q, p.ID, false)
}

func (s *Store) InsertConference(ctx context.Context, c *conference.Conference) error {
	if _, err := s.q(ctx).ExecContext(ctx, insertConference, conferenceArgs(c)...); err != nil {
		return mapError(err, "insert conference")
	}
	return nil
}

func (s *Store) GetConferences(ctx context.Context, keys []domain.ConferenceKey) ([]*conference.Conference, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	raw := make([]string, len(keys))
	for i, k := range keys {
		raw[i] = k.String()
	}
	found, err := s.listConferences(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE key = ANY($1)`, pq.Array(raw))
	if err != nil {
		return nil, err
	}
	byKey := make(map[domain.ConferenceKey]*conference.Conference, len(found))
	for _, c := range found {
		byKey[c.Key] = c
	}
	out := make([]*conference.Conference, 0, len(keys))
	for _, k := range keys {
		if c, ok := byKey[k]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) GetSessions(ctx context.Context, keys []domain.SessionKey) ([]*session.Session, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	raw := make([]string, len(keys))
	for i, k := range keys {
		raw[i] = k.String()
	}
	found, err := s.listSessions(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE key = ANY($1)`, pq.Array(raw))
	if err != nil {
		return nil, err
	}
	byKey := make(map[domain.SessionKey]*session.Session, len(found))
	for _, sess := range found {
		byKey[sess.Key] = sess
	}
	out := make([]*session.Session, 0, len(keys))
	for _, k := range keys {
		if sess, ok := byKey[k]; ok {
			out = append(out, sess)
		}
	}
	return out, nil
}

func (s *Store) QueryConferences(ctx context.Context, plan query.Plan) ([]*conference.Conference, error) {
	stmt, args := conferenceQuery(plan)
	return s.listConferences(ctx, stmt, args...)
}

func (s *Store) ListConferencesByOrganizer(ctx context.Context, organizer domain.ProfileID) ([]*conference.Conference, error) {
	return s.listConferences(ctx,
		`SELECT `+conferenceColumns+` FROM conferences WHERE organizer_id = $1 ORDER BY name, key`,
		organizer.String())
}

func (s *Store) ListNearlySoldOut(ctx context.Context, threshold int) ([]*conference.Conference, error) {
	return s.listConferences(ctx,
		`SELECT `+conferenceColumns+` FROM conferences
		 WHERE seats_available > 0 AND seats_available <= $1 ORDER BY name, key`,
		threshold)
}

func (s *Store) ListSessions(ctx context.Context, f storage.SessionFilter) ([]*session.Session, error) {
	stmt, args := sessionQuery(f)
	return s.listSessions(ctx, stmt, args...)
}

func (s *Store) listConferences(ctx context.Context, stmt string, args ...any) ([]*conference.Conference, error) {
	rows, err := s.q(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err, "list conferences")
	}
	defer rows.Close()
	var out []*conference.Conference
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, mapError(err, "scan conference")
		}
		out = append(out, c)
	}
	return out, mapError(rows.Err(), "list conferences")
}

func (s *Store) listSessions(ctx context.Context, stmt string, args ...any) ([]*session.Session, error) {
	rows, err := s.q(ctx).QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, mapError(err, "list sessions")
	}
	defer rows.Close()
	var out []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, mapError(err, "scan session")
		}
		out = append(out, sess)
	}
	return out, mapError(rows.Err(), "list sessions")
}

// pgTx is the storage.Tx handed to RunInTx callbacks.
type pgTx struct {
	q txctx.Querier
}

func (t *pgTx) GetProfile(ctx context.Context, id domain.ProfileID) (*profile.Profile, error) {
	return getProfile(ctx, t.q, id, true)
}

func (t *pgTx) GetConference(ctx context.Context, key domain.ConferenceKey) (*conference.Conference, error) {
	return getConference(ctx, t.q, key, true)
}

func (t *pgTx) GetSession(ctx context.Context, key domain.SessionKey) (*session.Session, error) {
	return getSession(ctx, t.q, key)
}

func (t *pgTx) PutProfile(ctx context.Context, p *profile.Profile) error {
	return putProfile(ctx, t.q, p)
}

func (t *pgTx) PutConference(ctx context.Context, c *conference.Conference) error {
	if _, err := t.q.ExecContext(ctx, upsertConference, conferenceArgs(c)...); err != nil {
		return mapError(err, "put conference")
	}
	return nil
}

func (t *pgTx) InsertSession(ctx context.Context, s *session.Session) error {
	_, err := t.q.ExecContext(ctx, insertSession,
		s.Key.String(), s.Key.Parent().String(), s.OrganizerID.String(), s.Name, s.Highlights,
		s.Speaker, s.Duration, pq.Array(s.TypeOfSession), nullDate(s.Date), s.StartTime)
	if err != nil {
		return mapError(err, "insert session")
	}
	return nil
}
