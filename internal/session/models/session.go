package models

import (
	"strings"
	"time"

	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	setutil "confcentral/pkg/platform/strings"
)

const (
	DefaultHighlights = "Default"
	// TimeLayout is the wire and storage form of StartTime.
	TimeLayout = "15:04"
	// DateLayout is the wire form of dates.
	DateLayout = "2006-01-02"
	// TypeWorkshop is excluded by the before-evening query.
	TypeWorkshop = "Workshop"
)

var DefaultTypes = []string{"Default"}

// Session is keyed under its conference and never changes after creation.
type Session struct {
	Key           domain.SessionKey `json:"websafeKey"`
	Name          string            `json:"name"`
	Highlights    string            `json:"highlights"`
	Speaker       string            `json:"speaker"`
	Duration      int               `json:"duration"`
	TypeOfSession []string          `json:"typeOfSession"`
	Date          time.Time         `json:"date"`
	StartTime     string            `json:"startTime"`
	OrganizerID   domain.ProfileID  `json:"organizerUserId"`
}

// Draft is the creation input after transport decoding.
type Draft struct {
	Name          string
	Highlights    string
	Speaker       string
	Duration      int
	TypeOfSession []string
	Date          time.Time
	StartTime     string
}

// NewSession validates the draft and applies defaults.
func NewSession(key domain.SessionKey, organizer domain.ProfileID, d Draft) (*Session, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session 'name' field required")
	}
	if d.Duration < 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "duration cannot be negative")
	}
	start, err := NormalizeStartTime(d.StartTime)
	if err != nil {
		return nil, err
	}
	highlights := d.Highlights
	if highlights == "" {
		highlights = DefaultHighlights
	}
	return &Session{
		Key:           key,
		Name:          name,
		Highlights:    highlights,
		Speaker:       strings.TrimSpace(d.Speaker),
		Duration:      d.Duration,
		TypeOfSession: setutil.NormalizeSet(d.TypeOfSession, DefaultTypes),
		Date:          d.Date,
		StartTime:     start,
		OrganizerID:   organizer,
	}, nil
}

// NormalizeStartTime parses "HH:MM" (ignoring anything after the first five
// characters) and returns it zero-padded. Empty stays empty.
func NormalizeStartTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if len(s) > len(TimeLayout) {
		s = s[:len(TimeLayout)]
	}
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "startTime must be HH:MM")
	}
	return t.Format(TimeLayout), nil
}

// HasType reports whether the session is tagged with typ.
func (s *Session) HasType(typ string) bool {
	return setutil.Contains(s.TypeOfSession, typ)
}

// Conference returns the owning conference key.
func (s *Session) Conference() domain.ConferenceKey {
	return s.Key.Parent()
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.TypeOfSession = append([]string(nil), s.TypeOfSession...)
	return &cp
}
