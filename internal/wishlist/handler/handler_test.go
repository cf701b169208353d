package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"confcentral/internal/platform/logger"
	session "confcentral/internal/session/models"
	"confcentral/internal/wishlist/handler/mocks"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/wishlist-mocks.go -package=mocks Service

var sessKey = domain.NewSessionKey(domain.NewConferenceKey("org", "c1"), "s1")

func newTestHandler(t *testing.T) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	r := chi.NewRouter()
	New(svc, logger.Discard()).Register(r)
	return r, svc
}

func do(h http.Handler, method, path string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authenticated {
		req = req.WithContext(requestcontext.WithIdentity(req.Context(), requestcontext.Identity{ProfileID: "A"}))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWishlistRoutes(t *testing.T) {
	sess, err := session.NewSession(sessKey, "org", session.Draft{Name: "Concurrency", Speaker: "Ada"})
	require.NoError(t, err)
	list := []*session.Session{sess}

	t.Run("add", func(t *testing.T) {
		h, svc := newTestHandler(t)
		svc.EXPECT().Add(gomock.Any(), domain.ProfileID("A"), sessKey).Return(list, nil)
		rec := do(h, http.MethodPost, "/wishlist/"+sessKey.String(), true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"Concurrency"`)
	})

	t.Run("add duplicate", func(t *testing.T) {
		h, svc := newTestHandler(t)
		svc.EXPECT().Add(gomock.Any(), domain.ProfileID("A"), sessKey).
			Return(nil, dErrors.New(dErrors.CodeConflict, "you have already added this session to your wishlist"))
		rec := do(h, http.MethodPost, "/wishlist/"+sessKey.String(), true)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("remove", func(t *testing.T) {
		h, svc := newTestHandler(t)
		svc.EXPECT().Remove(gomock.Any(), domain.ProfileID("A"), sessKey).Return([]*session.Session{}, nil)
		rec := do(h, http.MethodDelete, "/wishlist/"+sessKey.String(), true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
	})

	t.Run("list by speaker", func(t *testing.T) {
		h, svc := newTestHandler(t)
		svc.EXPECT().ListBySpeaker(gomock.Any(), domain.ProfileID("A"), "Ada").Return(list, nil)
		rec := do(h, http.MethodGet, "/wishlist/speaker/Ada", true)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("conference key is not a session key", func(t *testing.T) {
		h, _ := newTestHandler(t)
		rec := do(h, http.MethodPost, "/wishlist/"+sessKey.Parent().String(), true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h, _ := newTestHandler(t)
		rec := do(h, http.MethodGet, "/wishlist", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
