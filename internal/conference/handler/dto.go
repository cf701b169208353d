package handler

import (
	"strings"
	"time"

	"confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	dErrors "confcentral/pkg/domain-errors"
)

// dateLayout is the wire form of conference dates. Longer timestamps are
// accepted and truncated to the date.
const dateLayout = "2006-01-02"

// ConferenceRequest is the body of create and update calls. Fields left out
// of an update stay unchanged.
type ConferenceRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Topics       []string `json:"topics"`
	City         *string  `json:"city"`
	StartDate    *string  `json:"startDate"`
	EndDate      *string  `json:"endDate"`
	MaxAttendees *int     `json:"maxAttendees"`
}

// ToDraft converts a create request.
func (r ConferenceRequest) ToDraft() (models.Draft, error) {
	d := models.Draft{
		Name:        deref(r.Name),
		Description: deref(r.Description),
		Topics:      r.Topics,
		City:        deref(r.City),
	}
	if r.MaxAttendees != nil {
		d.MaxAttendees = *r.MaxAttendees
	}
	var err error
	if d.StartDate, err = parseDate("startDate", r.StartDate); err != nil {
		return models.Draft{}, err
	}
	if d.EndDate, err = parseDate("endDate", r.EndDate); err != nil {
		return models.Draft{}, err
	}
	return d, nil
}

// ToUpdate converts an update request. maxAttendees cannot change after
// creation and is rejected.
func (r ConferenceRequest) ToUpdate() (models.Update, error) {
	if r.MaxAttendees != nil {
		return models.Update{}, dErrors.New(dErrors.CodeBadRequest, "maxAttendees cannot be changed after creation")
	}
	u := models.Update{
		Name:        r.Name,
		Description: r.Description,
		Topics:      r.Topics,
		City:        r.City,
	}
	if r.StartDate != nil {
		t, err := parseDate("startDate", r.StartDate)
		if err != nil {
			return models.Update{}, err
		}
		u.StartDate = &t
	}
	if r.EndDate != nil {
		t, err := parseDate("endDate", r.EndDate)
		if err != nil {
			return models.Update{}, err
		}
		u.EndDate = &t
	}
	return u, nil
}

// ConferenceResponse is the wire form of a conference.
type ConferenceResponse struct {
	WebsafeKey      string   `json:"websafeKey"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	OrganizerUserID string   `json:"organizerUserId"`
	Topics          []string `json:"topics"`
	City            string   `json:"city"`
	StartDate       string   `json:"startDate,omitempty"`
	EndDate         string   `json:"endDate,omitempty"`
	Month           int      `json:"month"`
	MaxAttendees    int      `json:"maxAttendees"`
	SeatsAvailable  int      `json:"seatsAvailable"`
}

// ConferencesResponse wraps a list of conferences.
type ConferencesResponse struct {
	Items []ConferenceResponse `json:"items"`
}

// QueryRequest carries filter criteria in evaluation order.
type QueryRequest struct {
	Filters []query.Criterion `json:"filters"`
}

// ToResponse renders a conference.
func ToResponse(c *models.Conference) ConferenceResponse {
	return ConferenceResponse{
		WebsafeKey:      c.Key.String(),
		Name:            c.Name,
		Description:     c.Description,
		OrganizerUserID: c.OrganizerID.String(),
		Topics:          append([]string{}, c.Topics...),
		City:            c.City,
		StartDate:       formatDate(c.StartDate),
		EndDate:         formatDate(c.EndDate),
		Month:           c.Month,
		MaxAttendees:    c.MaxAttendees,
		SeatsAvailable:  c.SeatsAvailable,
	}
}

// ToListResponse renders conferences in order.
func ToListResponse(cs []*models.Conference) ConferencesResponse {
	items := make([]ConferenceResponse, 0, len(cs))
	for _, c := range cs {
		items = append(items, ToResponse(c))
	}
	return ConferencesResponse{Items: items}
}

func parseDate(field string, raw *string) (time.Time, error) {
	if raw == nil {
		return time.Time{}, nil
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, dErrors.New(dErrors.CodeBadRequest, field+" must be YYYY-MM-DD")
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
