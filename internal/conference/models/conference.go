package models

import (
	"strings"
	"time"

	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	setutil "confcentral/pkg/platform/strings"
)

// Defaults applied to missing fields at creation.
const DefaultCity = "Default City"

var DefaultTopics = []string{"Default", "Topic"}

// Conference is keyed under its organizing profile.
//
// Invariants:
//   - Name is non-empty
//   - MaxAttendees >= 0 and is fixed at creation
//   - 0 <= SeatsAvailable <= MaxAttendees
//   - Month is StartDate's month, or 0 without a StartDate
//
// SeatsAvailable changes only through ReserveSeat and ReleaseSeat, which the
// registration ledger calls inside a transaction that also writes the profile.
type Conference struct {
	Key            domain.ConferenceKey `json:"websafeKey"`
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	OrganizerID    domain.ProfileID     `json:"organizerUserId"`
	Topics         []string             `json:"topics"`
	City           string               `json:"city"`
	StartDate      time.Time            `json:"startDate"`
	EndDate        time.Time            `json:"endDate"`
	Month          int                  `json:"month"`
	MaxAttendees   int                  `json:"maxAttendees"`
	SeatsAvailable int                  `json:"seatsAvailable"`
}

// Draft is the creation input after transport decoding.
type Draft struct {
	Name         string
	Description  string
	Topics       []string
	City         string
	StartDate    time.Time
	EndDate      time.Time
	MaxAttendees int
}

// NewConference applies defaults and derives Month and SeatsAvailable.
func NewConference(key domain.ConferenceKey, d Draft) (*Conference, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "conference 'name' field required")
	}
	if d.MaxAttendees < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "maxAttendees cannot be negative")
	}
	if !d.StartDate.IsZero() && !d.EndDate.IsZero() && d.EndDate.Before(d.StartDate) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "endDate cannot precede startDate")
	}
	city := strings.TrimSpace(d.City)
	if city == "" {
		city = DefaultCity
	}
	return &Conference{
		Key:            key,
		Name:           name,
		Description:    d.Description,
		OrganizerID:    key.Parent(),
		Topics:         setutil.NormalizeSet(d.Topics, DefaultTopics),
		City:           city,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Month:          MonthOf(d.StartDate),
		MaxAttendees:   d.MaxAttendees,
		SeatsAvailable: d.MaxAttendees,
	}, nil
}

// MonthOf returns t's month number, or 0 for the zero time.
func MonthOf(t time.Time) int {
	if t.IsZero() {
		return 0
	}
	return int(t.Month())
}

// IsOrganizedBy reports whether profile owns the conference.
func (c *Conference) IsOrganizedBy(profile domain.ProfileID) bool {
	return c.OrganizerID == profile
}

// CanReserveSeat checks that a seat is left.
func (c *Conference) CanReserveSeat() error {
	if c.SeatsAvailable <= 0 {
		return dErrors.New(dErrors.CodeConflict, "there are no seats available")
	}
	return nil
}

// ReserveSeat takes one seat. Call CanReserveSeat first.
func (c *Conference) ReserveSeat() error {
	if err := c.CanReserveSeat(); err != nil {
		return err
	}
	c.SeatsAvailable--
	return nil
}

// ReleaseSeat gives one seat back.
func (c *Conference) ReleaseSeat() error {
	if c.SeatsAvailable >= c.MaxAttendees {
		return dErrors.New(dErrors.CodeInvariantViolation, "seatsAvailable already at maxAttendees")
	}
	c.SeatsAvailable++
	return nil
}

// IsNearlySoldOut reports whether at most threshold seats remain, but not zero.
func (c *Conference) IsNearlySoldOut(threshold int) bool {
	return c.SeatsAvailable > 0 && c.SeatsAvailable <= threshold
}

// Clone returns a deep copy.
func (c *Conference) Clone() *Conference {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Topics = append([]string(nil), c.Topics...)
	return &cp
}

// Update carries the organizer-editable fields; nil means unchanged.
// Seat counters are deliberately absent.
type Update struct {
	Name        *string
	Description *string
	Topics      []string
	City        *string
	StartDate   *time.Time
	EndDate     *time.Time
}

// Apply copies set fields onto c, keeping Month in step with StartDate.
func (u Update) Apply(c *Conference) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return dErrors.New(dErrors.CodeBadRequest, "conference 'name' cannot be blank")
		}
		c.Name = name
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if len(u.Topics) > 0 {
		c.Topics = setutil.NormalizeSet(u.Topics, c.Topics)
	}
	if u.City != nil && strings.TrimSpace(*u.City) != "" {
		c.City = strings.TrimSpace(*u.City)
	}
	if u.StartDate != nil {
		c.StartDate = *u.StartDate
		c.Month = MonthOf(c.StartDate)
	}
	if u.EndDate != nil {
		c.EndDate = *u.EndDate
	}
	if !c.StartDate.IsZero() && !c.EndDate.IsZero() && c.EndDate.Before(c.StartDate) {
		return dErrors.New(dErrors.CodeBadRequest, "endDate cannot precede startDate")
	}
	return nil
}
