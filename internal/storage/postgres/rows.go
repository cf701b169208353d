package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	conference "confcentral/internal/conference/models"
	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/pkg/domain"
)

const (
	profileColumns    = `id, display_name, main_email, tee_shirt_size, conference_keys, wishlist_keys`
	conferenceColumns = `key, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available`
	sessionColumns    = `key, name, highlights, speaker, duration, types, date, start_time, organizer_id`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*profile.Profile, error) {
	var (
		p           profile.Profile
		size        string
		conferences []string
		wishlist    []string
	)
	if err := row.Scan(&p.ID, &p.DisplayName, &p.MainEmail, &size, pq.Array(&conferences), pq.Array(&wishlist)); err != nil {
		return nil, err
	}
	p.TeeShirtSize = profile.TeeShirtSize(size)
	for _, raw := range conferences {
		key, err := domain.ParseConferenceKey(raw)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.ID, err)
		}
		p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend, key)
	}
	for _, raw := range wishlist {
		key, err := domain.ParseSessionKey(raw)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", p.ID, err)
		}
		p.SessionsInWishlist = append(p.SessionsInWishlist, key)
	}
	return &p, nil
}

func profileArgs(p *profile.Profile) []any {
	conferences := make([]string, len(p.ConferenceKeysToAttend))
	for i, k := range p.ConferenceKeysToAttend {
		conferences[i] = k.String()
	}
	wishlist := make([]string, len(p.SessionsInWishlist))
	for i, k := range p.SessionsInWishlist {
		wishlist[i] = k.String()
	}
	return []any{
		p.ID.String(), p.DisplayName, p.MainEmail, string(p.TeeShirtSize),
		pq.Array(conferences), pq.Array(wishlist),
	}
}

func scanConference(row rowScanner) (*conference.Conference, error) {
	var (
		c          conference.Conference
		rawKey     string
		topics     []string
		start, end sql.NullTime
	)
	if err := row.Scan(&rawKey, &c.Name, &c.Description, pq.Array(&topics), &c.City,
		&start, &end, &c.Month, &c.MaxAttendees, &c.SeatsAvailable); err != nil {
		return nil, err
	}
	key, err := domain.ParseConferenceKey(rawKey)
	if err != nil {
		return nil, fmt.Errorf("conference row: %w", err)
	}
	c.Key = key
	c.OrganizerID = key.Parent()
	c.Topics = topics
	c.StartDate = start.Time
	c.EndDate = end.Time
	return &c, nil
}

func conferenceArgs(c *conference.Conference) []any {
	return []any{
		c.Key.String(), c.OrganizerID.String(), c.Name, c.Description, pq.Array(c.Topics), c.City,
		nullDate(c.StartDate), nullDate(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
	}
}

func scanSession(row rowScanner) (*session.Session, error) {
	var (
		s      session.Session
		rawKey string
		types  []string
		date   sql.NullTime
	)
	if err := row.Scan(&rawKey, &s.Name, &s.Highlights, &s.Speaker, &s.Duration,
		pq.Array(&types), &date, &s.StartTime, &s.OrganizerID); err != nil {
		return nil, err
	}
	key, err := domain.ParseSessionKey(rawKey)
	if err != nil {
		return nil, fmt.Errorf("session row: %w", err)
	}
	s.Key = key
	s.TypeOfSession = types
	s.Date = date.Time
	return &s, nil
}

func nullDate(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
