package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	jwttoken "confcentral/internal/jwt_token"
	"confcentral/internal/platform/config"
	"confcentral/internal/platform/logger"
)

const (
	signingKey = "app-test-key"
	issuer     = "confcentral"
	audience   = "confcentral-api"
)

// AppSuite drives the assembled router over the in-memory backends.
type AppSuite struct {
	suite.Suite
	app    *App
	tokens *jwttoken.JWTService
	cancel context.CancelFunc
	done   chan error
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	cfg := config.Config{
		Server: config.Server{RequestTimeout: 5 * time.Second},
		Auth:   config.AuthConfig{JWTSigningKey: signingKey, JWTIssuer: issuer, JWTAudience: audience},
		Store:  config.StoreConfig{TxTimeout: 5 * time.Second},
		Announcement: config.AnnouncementConfig{
			RefreshInterval:   time.Hour,
			NearlySoldOutMax:  5,
			TriggerBufferSize: 16,
		},
	}
	a, err := Build(context.Background(), cfg, logger.Discard())
	s.Require().NoError(err)
	s.app = a
	s.tokens = jwttoken.NewJWTService(signingKey, issuer, audience)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() { s.done <- a.RunWorkers(ctx) }()
}

func (s *AppSuite) TearDownTest() {
	s.cancel()
	s.NoError(<-s.done)
	s.app.Close()
}

func (s *AppSuite) call(user, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		token, err := s.tokens.GenerateAccessToken(user, user+"@example.com", user, time.Hour)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.app.Handler.ServeHTTP(rec, req)
	return rec
}

func (s *AppSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func (s *AppSuite) TestHealthAndAuth() {
	s.Equal(http.StatusOK, s.call("", http.MethodGet, "/healthz", nil).Code)
	s.Equal(http.StatusUnauthorized, s.call("", http.MethodGet, "/profile", nil).Code)

	rec := s.call("ada", http.MethodGet, "/profile", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("ada@example.com", s.decode(rec)["mainEmail"])
}

func (s *AppSuite) TestRegistrationFlow() {
	rec := s.call("org", http.MethodPost, "/conference", map[string]any{
		"name": "GopherCon", "city": "Berlin", "maxAttendees": 3,
	})
	s.Require().Equal(http.StatusCreated, rec.Code)
	key := s.decode(rec)["websafeKey"].(string)

	rec = s.call("ada", http.MethodPost, "/conference/"+key+"/registration", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(true, s.decode(rec)["data"])

	rec = s.call("ada", http.MethodPost, "/conference/"+key+"/registration", nil)
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.call("ada", http.MethodGet, "/conferences/attending", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(s.decode(rec)["items"], 1)

	s.Eventually(func() bool {
		rec := s.call("", http.MethodGet, "/conference/announcement", nil)
		return rec.Code == http.StatusOK &&
			s.decode(rec)["data"] == "Last chance to attend! The following conferences are nearly sold out: GopherCon"
	}, 2*time.Second, 10*time.Millisecond)

	rec = s.call("ada", http.MethodDelete, "/conference/"+key+"/registration", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(true, s.decode(rec)["data"])
}

func (s *AppSuite) TestFeaturedSpeakerFlow() {
	rec := s.call("org", http.MethodPost, "/conference", map[string]any{"name": "RustConf"})
	s.Require().Equal(http.StatusCreated, rec.Code)
	key := s.decode(rec)["websafeKey"].(string)

	for _, name := range []string{"Ownership", "Lifetimes"} {
		rec := s.call("org", http.MethodPost, "/conference/"+key+"/sessions", map[string]any{
			"name": name, "speaker": "Niko", "startTime": "10:00",
		})
		s.Require().Equal(http.StatusCreated, rec.Code)
	}

	rec = s.call("ada", http.MethodPost, "/conference/"+key+"/sessions", map[string]any{"name": "Intruder"})
	s.Equal(http.StatusForbidden, rec.Code)

	s.Eventually(func() bool {
		rec := s.call("", http.MethodGet, "/sessions/featured", nil)
		return rec.Code == http.StatusOK &&
			s.decode(rec)["data"] == "Featured Speaker: Niko; Sessions: Lifetimes, Ownership"
	}, 2*time.Second, 10*time.Millisecond)

	rec = s.call("ada", http.MethodGet, "/sessions/speaker/Niko", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	items := s.decode(rec)["items"].([]any)
	s.Require().Len(items, 2)

	sessionKey := items[0].(map[string]any)["websafeKey"].(string)
	rec = s.call("ada", http.MethodPost, "/wishlist/"+sessionKey, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal(http.StatusConflict, s.call("ada", http.MethodPost, "/wishlist/"+sessionKey, nil).Code)

	rec = s.call("ada", http.MethodGet, "/wishlist", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Len(s.decode(rec)["items"], 1)
}

func (s *AppSuite) TestQueryConferences() {
	for _, c := range []map[string]any{
		{"name": "B", "city": "London", "maxAttendees": 10},
		{"name": "A", "city": "London", "maxAttendees": 50},
		{"name": "C", "city": "Paris", "maxAttendees": 20},
	} {
		s.Require().Equal(http.StatusCreated, s.call("org", http.MethodPost, "/conference", c).Code)
	}

	rec := s.call("ada", http.MethodPost, "/queryConferences", map[string]any{
		"filters": []map[string]string{
			{"field": "city", "operator": "=", "value": "London"},
			{"field": "maxAttendees", "operator": ">", "value": "5"},
		},
	})
	s.Require().Equal(http.StatusOK, rec.Code)
	var names []string
	for _, item := range s.decode(rec)["items"].([]any) {
		names = append(names, item.(map[string]any)["name"].(string))
	}
	s.Equal([]string{"B", "A"}, names)

	rec = s.call("ada", http.MethodPost, "/queryConferences", map[string]any{
		"filters": []map[string]string{
			{"field": "city", "operator": ">", "value": "A"},
			{"field": "month", "operator": "<", "value": "5"},
		},
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid_filter", s.decode(rec)["error"])
}
