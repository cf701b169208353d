package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"confcentral/internal/platform/logger"
	"confcentral/internal/platform/metrics"
	"confcentral/pkg/domain"
	"confcentral/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (v stubValidator) ValidateToken(string) (*JWTClaims, error) { return v.claims, v.err }

type AuthSuite struct {
	suite.Suite
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) serve(v JWTValidator, header string) (*httptest.ResponseRecorder, requestcontext.Identity) {
	var seen requestcontext.Identity
	h := RequireAuth(v, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = requestcontext.CallerIdentity(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, seen
}

func (s *AuthSuite) TestRejectsMissingOrInvalidTokens() {
	valid := stubValidator{claims: &JWTClaims{UserID: "u1"}}
	cases := map[string]struct {
		v      JWTValidator
		header string
	}{
		"no header":     {v: valid},
		"wrong scheme":  {v: valid, header: "Basic abc"},
		"empty bearer":  {v: valid, header: "Bearer   "},
		"invalid token": {v: stubValidator{err: errors.New("bad signature")}, header: "Bearer x"},
		"blank user id": {v: stubValidator{claims: &JWTClaims{}}, header: "Bearer x"},
	}
	for name, tc := range cases {
		s.Run(name, func() {
			rec, _ := s.serve(tc.v, tc.header)
			s.Equal(http.StatusUnauthorized, rec.Code)

			var body map[string]string
			s.Require().NoError(json.NewDecoder(rec.Body).Decode(&body))
			s.Equal("unauthenticated", body["error"])
		})
	}
}

func (s *AuthSuite) TestInjectsIdentity() {
	v := stubValidator{claims: &JWTClaims{UserID: "u1", Email: "u1@example.com", Name: "Una"}}
	rec, id := s.serve(v, "Bearer token")

	s.Equal(http.StatusNoContent, rec.Code)
	s.Equal(domain.ProfileID("u1"), id.ProfileID)
	s.Equal("u1@example.com", id.Email)
	s.Equal("Una", id.DisplayName)
}

func TestRequestIDPropagates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRecoveryReturns500(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}

func TestContentTypeJSON(t *testing.T) {
	h := ContentTypeJSON(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	var hasDeadline bool
	h := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)
}

func TestLatencyMiddlewareUsesRoutePattern(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(LatencyMiddleware(m))
	r.Get("/conference/{key}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/conference/abc", nil))

	count := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("/conference/{key}", http.MethodGet, "4xx"))
	require.Equal(t, float64(1), count)
}
