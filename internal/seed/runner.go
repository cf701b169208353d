package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	conference "confcentral/internal/conference/models"
	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
)

// Registrar is the registration ledger.
type Registrar interface {
	Register(ctx context.Context, profileID domain.ProfileID, key domain.ConferenceKey) (bool, error)
}

// Wishlist is the wishlist ledger.
type Wishlist interface {
	Add(ctx context.Context, profileID domain.ProfileID, key domain.SessionKey) ([]*session.Session, error)
}

// Summary counts what a run wrote. Entities that already existed are skipped.
type Summary struct {
	Profiles      int
	Conferences   int
	Sessions      int
	Registrations int
	Wishes        int
}

// Runner applies fixtures. Re-running the same fixture is a no-op.
type Runner struct {
	store     storage.Store
	registrar Registrar
	wishlist  Wishlist
	logger    *slog.Logger
}

func NewRunner(store storage.Store, registrar Registrar, wishlist Wishlist, logger *slog.Logger) *Runner {
	return &Runner{store: store, registrar: registrar, wishlist: wishlist, logger: logger}
}

// Apply writes profiles first, then conferences with their sessions, then
// registrations and wishlists.
func (r *Runner) Apply(ctx context.Context, f Fixture) (Summary, error) {
	var sum Summary
	for _, pf := range f.Profiles {
		created, err := r.applyProfile(ctx, pf)
		if err != nil {
			return sum, fmt.Errorf("profile %q: %w", pf.ID, err)
		}
		if created {
			sum.Profiles++
		}
	}

	for _, cf := range f.Conferences {
		if err := r.applyConference(ctx, cf, &sum); err != nil {
			return sum, fmt.Errorf("conference %q: %w", cf.ID, err)
		}
	}

	r.logger.InfoContext(ctx, "seed applied",
		"profiles", sum.Profiles,
		"conferences", sum.Conferences,
		"sessions", sum.Sessions,
		"registrations", sum.Registrations,
		"wishes", sum.Wishes,
	)
	return sum, nil
}

func (r *Runner) applyProfile(ctx context.Context, pf ProfileFixture) (bool, error) {
	id, err := domain.ParseProfileID(pf.ID)
	if err != nil {
		return false, err
	}
	if _, err := r.store.GetProfile(ctx, id); err == nil {
		return false, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return false, err
	}

	p, err := profile.NewProfile(id, pf.DisplayName, pf.Email)
	if err != nil {
		return false, err
	}
	if pf.TeeShirtSize != "" {
		if p.TeeShirtSize, err = profile.ParseTeeShirtSize(pf.TeeShirtSize); err != nil {
			return false, err
		}
	}
	if _, err := r.store.CreateProfileIfAbsent(ctx, p); err != nil {
		return false, err
	}
	return true, r.store.RunInTx(ctx, func(tx storage.Tx) error {
		stored, err := tx.GetProfile(ctx, id)
		if err != nil {
			return err
		}
		stored.TeeShirtSize = p.TeeShirtSize
		return tx.PutProfile(ctx, stored)
	})
}

func (r *Runner) applyConference(ctx context.Context, cf ConferenceFixture, sum *Summary) error {
	organizer, err := domain.ParseProfileID(cf.Organizer)
	if err != nil {
		return err
	}
	key := domain.NewConferenceKey(organizer, cf.ID)

	draft := conference.Draft{
		Name:         cf.Name,
		Description:  cf.Description,
		Topics:       cf.Topics,
		City:         cf.City,
		MaxAttendees: cf.MaxAttendees,
	}
	if draft.StartDate, err = parseDate(cf.StartDate); err != nil {
		return err
	}
	if draft.EndDate, err = parseDate(cf.EndDate); err != nil {
		return err
	}
	c, err := conference.NewConference(key, draft)
	if err != nil {
		return err
	}
	switch err := r.store.InsertConference(ctx, c); {
	case err == nil:
		sum.Conferences++
	case !errors.Is(err, sentinel.ErrConflict):
		return err
	}

	for _, sf := range cf.Sessions {
		if err := r.applySession(ctx, key, organizer, sf, sum); err != nil {
			return fmt.Errorf("session %q: %w", sf.ID, err)
		}
	}

	for _, attendee := range cf.Attendees {
		id, err := domain.ParseProfileID(attendee)
		if err != nil {
			return err
		}
		registered, err := r.registrar.Register(ctx, id, key)
		switch {
		case registered:
			sum.Registrations++
		case dErrors.HasCode(err, dErrors.CodeConflict):
			r.logger.WarnContext(ctx, "registration skipped",
				"profile_id", attendee,
				"conference_key", key.String(),
				"reason", err.Error(),
			)
		case err != nil:
			return fmt.Errorf("register %s: %w", attendee, err)
		}
	}
	return nil
}

func (r *Runner) applySession(ctx context.Context, conf domain.ConferenceKey, organizer domain.ProfileID, sf SessionFixture, sum *Summary) error {
	draft := session.Draft{
		Name:          sf.Name,
		Highlights:    sf.Highlights,
		Speaker:       sf.Speaker,
		Duration:      sf.Duration,
		TypeOfSession: sf.TypeOfSession,
		StartTime:     sf.StartTime,
	}
	var err error
	if draft.Date, err = parseDate(sf.Date); err != nil {
		return err
	}
	key := domain.NewSessionKey(conf, sf.ID)
	s, err := session.NewSession(key, organizer, draft)
	if err != nil {
		return err
	}

	err = r.store.RunInTx(ctx, func(tx storage.Tx) error {
		return tx.InsertSession(ctx, s)
	})
	switch {
	case err == nil:
		sum.Sessions++
	case !errors.Is(err, sentinel.ErrConflict):
		return err
	}

	for _, wisher := range sf.Wishlisted {
		id, err := domain.ParseProfileID(wisher)
		if err != nil {
			return err
		}
		_, err = r.wishlist.Add(ctx, id, key)
		switch {
		case err == nil:
			sum.Wishes++
		case !dErrors.HasCode(err, dErrors.CodeConflict):
			return fmt.Errorf("wishlist %s: %w", wisher, err)
		}
	}
	return nil
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(session.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", raw)
	}
	return t, nil
}
