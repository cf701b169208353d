package handler

import (
	"strings"
	"time"

	"confcentral/internal/session/models"
	dErrors "confcentral/pkg/domain-errors"
)

// SessionRequest is the body of a create call.
type SessionRequest struct {
	Name          string   `json:"name"`
	Highlights    string   `json:"highlights"`
	Speaker       string   `json:"speaker"`
	Duration      int      `json:"duration"`
	TypeOfSession []string `json:"typeOfSession"`
	Date          string   `json:"date"`
	StartTime     string   `json:"startTime"`
}

// ToDraft parses the date. Start time parsing happens in the model.
func (r SessionRequest) ToDraft() (models.Draft, error) {
	d := models.Draft{
		Name:          r.Name,
		Highlights:    r.Highlights,
		Speaker:       r.Speaker,
		Duration:      r.Duration,
		TypeOfSession: r.TypeOfSession,
		StartTime:     r.StartTime,
	}
	if date := strings.TrimSpace(r.Date); date != "" {
		if len(date) > len(models.DateLayout) {
			date = date[:len(models.DateLayout)]
		}
		t, err := time.Parse(models.DateLayout, date)
		if err != nil {
			return models.Draft{}, dErrors.New(dErrors.CodeBadRequest, "date must be YYYY-MM-DD")
		}
		d.Date = t
	}
	return d, nil
}

// SessionResponse is the wire form of a session.
type SessionResponse struct {
	WebsafeKey           string   `json:"websafeKey"`
	WebsafeConferenceKey string   `json:"websafeConferenceKey"`
	Name                 string   `json:"name"`
	Highlights           string   `json:"highlights"`
	Speaker              string   `json:"speaker"`
	Duration             int      `json:"duration"`
	TypeOfSession        []string `json:"typeOfSession"`
	Date                 string   `json:"date,omitempty"`
	StartTime            string   `json:"startTime,omitempty"`
	OrganizerUserID      string   `json:"organizerUserId"`
}

// SessionsResponse wraps a list of sessions.
type SessionsResponse struct {
	Items []SessionResponse `json:"items"`
}

func ToResponse(s *models.Session) SessionResponse {
	resp := SessionResponse{
		WebsafeKey:           s.Key.String(),
		WebsafeConferenceKey: s.Conference().String(),
		Name:                 s.Name,
		Highlights:           s.Highlights,
		Speaker:              s.Speaker,
		Duration:             s.Duration,
		TypeOfSession:        append([]string{}, s.TypeOfSession...),
		StartTime:            s.StartTime,
		OrganizerUserID:      s.OrganizerID.String(),
	}
	if !s.Date.IsZero() {
		resp.Date = s.Date.Format(models.DateLayout)
	}
	return resp
}

func ToListResponse(ss []*models.Session) SessionsResponse {
	items := make([]SessionResponse, 0, len(ss))
	for _, s := range ss {
		items = append(items, ToResponse(s))
	}
	return SessionsResponse{Items: items}
}
