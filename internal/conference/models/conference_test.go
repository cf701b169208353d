package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
)

var key = domain.NewConferenceKey("organizer", "c1")

func TestNewConferenceDefaults(t *testing.T) {
	c, err := NewConference(key, Draft{Name: "  GopherCon  "})
	require.NoError(t, err)

	assert.Equal(t, "GopherCon", c.Name)
	assert.Equal(t, DefaultCity, c.City)
	assert.Equal(t, []string{"Default", "Topic"}, c.Topics)
	assert.Equal(t, 0, c.MaxAttendees)
	assert.Equal(t, 0, c.SeatsAvailable)
	assert.Equal(t, 0, c.Month)
	assert.Equal(t, domain.ProfileID("organizer"), c.OrganizerID)
}

func TestNewConferenceDerivesMonthAndSeats(t *testing.T) {
	start := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	c, err := NewConference(key, Draft{
		Name:         "Med",
		City:         "London",
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 2),
		MaxAttendees: 50,
		Topics:       []string{"Medical", "Medical", " AI "},
	})
	require.NoError(t, err)

	assert.Equal(t, 6, c.Month)
	assert.Equal(t, 50, c.SeatsAvailable)
	assert.Equal(t, []string{"Medical", "AI"}, c.Topics)
}

func TestNewConferenceValidation(t *testing.T) {
	start := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)
	cases := map[string]Draft{
		"missing name":      {},
		"negative capacity": {Name: "x", MaxAttendees: -1},
		"end before start":  {Name: "x", StartDate: start, EndDate: start.AddDate(0, 0, -1)},
	}
	for name, d := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewConference(key, d)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		})
	}
}

func TestSeatAccounting(t *testing.T) {
	c, err := NewConference(key, Draft{Name: "x", MaxAttendees: 1})
	require.NoError(t, err)

	require.NoError(t, c.ReserveSeat())
	assert.Equal(t, 0, c.SeatsAvailable)
	assert.True(t, dErrors.HasCode(c.ReserveSeat(), dErrors.CodeConflict))

	require.NoError(t, c.ReleaseSeat())
	assert.Equal(t, 1, c.SeatsAvailable)
	assert.True(t, dErrors.HasCode(c.ReleaseSeat(), dErrors.CodeInvariantViolation))
}

func TestIsNearlySoldOut(t *testing.T) {
	c := &Conference{MaxAttendees: 100}
	for seats, want := range map[int]bool{0: false, 1: true, 5: true, 6: false} {
		c.SeatsAvailable = seats
		assert.Equal(t, want, c.IsNearlySoldOut(5), "seats=%d", seats)
	}
}

func TestUpdateApplyKeepsMonthInStep(t *testing.T) {
	c, err := NewConference(key, Draft{Name: "x", MaxAttendees: 10})
	require.NoError(t, err)

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	city := "Paris"
	require.NoError(t, Update{StartDate: &start, City: &city}.Apply(c))
	assert.Equal(t, 3, c.Month)
	assert.Equal(t, "Paris", c.City)
	assert.Equal(t, 10, c.SeatsAvailable)

	blank := " "
	assert.True(t, dErrors.HasCode(Update{Name: &blank}.Apply(c), dErrors.CodeBadRequest))
}
