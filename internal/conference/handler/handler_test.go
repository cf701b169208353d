package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"confcentral/internal/conference/handler/mocks"
	"confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	"confcentral/internal/platform/logger"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
)

//go:generate mockgen -source=handler.go -destination=mocks/conference-mocks.go -package=mocks Service
type ConferenceHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  http.Handler
	conf    *models.Conference
}

func TestConferenceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ConferenceHandlerSuite))
}

func (s *ConferenceHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(s.service, logger.Discard()).Register(r)
	s.router = r

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	c, err := models.NewConference(domain.NewConferenceKey("org", "c1"), models.Draft{
		Name: "GopherCon", City: "London", StartDate: start, MaxAttendees: 100,
	})
	s.Require().NoError(err)
	s.conf = c
}

func (s *ConferenceHandlerSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *ConferenceHandlerSuite) TestCreate() {
	s.Run("decodes dates and returns 201", func() {
		s.service.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, d models.Draft) (*models.Conference, error) {
				s.Equal("GopherCon", d.Name)
				s.Equal(time.June, d.StartDate.Month())
				s.Equal(100, d.MaxAttendees)
				return s.conf, nil
			})

		rec := s.do(http.MethodPost, "/conference", map[string]any{
			"name": "GopherCon", "startDate": "2026-06-01T00:00:00Z", "maxAttendees": 100,
		})
		s.Equal(http.StatusCreated, rec.Code)

		var resp ConferenceResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Equal(s.conf.Key.String(), resp.WebsafeKey)
		s.Equal("2026-06-01", resp.StartDate)
		s.Equal(6, resp.Month)
		s.Equal(100, resp.SeatsAvailable)
	})

	s.Run("malformed date is a bad request", func() {
		rec := s.do(http.MethodPost, "/conference", map[string]any{"name": "x", "startDate": "June"})
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *ConferenceHandlerSuite) TestUpdate() {
	s.Run("rejects maxAttendees", func() {
		rec := s.do(http.MethodPut, "/conference/"+s.conf.Key.String(), map[string]any{"maxAttendees": 5})
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("forbidden for non-owners", func() {
		s.service.EXPECT().Update(gomock.Any(), s.conf.Key, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "only the owner can update the conference"))
		rec := s.do(http.MethodPut, "/conference/"+s.conf.Key.String(), map[string]any{"city": "Paris"})
		s.Equal(http.StatusForbidden, rec.Code)
	})
}

func (s *ConferenceHandlerSuite) TestGet() {
	s.Run("malformed key", func() {
		rec := s.do(http.MethodGet, "/conference/not*a*key", nil)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("not found", func() {
		s.service.EXPECT().Get(gomock.Any(), s.conf.Key).Return(nil, dErrors.New(dErrors.CodeNotFound, "no conference"))
		rec := s.do(http.MethodGet, "/conference/"+s.conf.Key.String(), nil)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *ConferenceHandlerSuite) TestQuery() {
	s.Run("passes criteria through in order", func() {
		want := []query.Criterion{
			{Field: "city", Operator: "=", Value: "London"},
			{Field: "month", Operator: ">", Value: "5"},
		}
		s.service.EXPECT().Query(gomock.Any(), want).Return([]*models.Conference{s.conf}, nil)

		rec := s.do(http.MethodPost, "/queryConferences", QueryRequest{Filters: want})
		s.Equal(http.StatusOK, rec.Code)
		var resp ConferencesResponse
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&resp))
		s.Len(resp.Items, 1)
	})

	s.Run("invalid filter maps to 400 with a distinct code", func() {
		s.service.EXPECT().Query(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInvalidFilter, "inequality filter is allowed on only one field"))
		rec := s.do(http.MethodPost, "/queryConferences", QueryRequest{})
		s.Equal(http.StatusBadRequest, rec.Code)

		var body map[string]string
		s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
		s.Equal("invalid_filter", body["error"])
	})

	s.Run("filter string", func() {
		s.service.EXPECT().QueryFilter(gomock.Any(), `city = "London"`).Return(nil, nil)
		req := httptest.NewRequest(http.MethodGet, `/conferences?filter=city+%3D+%22London%22`, nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[]}`, rec.Body.String())
	})
}
