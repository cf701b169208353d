package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confcentral/internal/session/models"
	"confcentral/pkg/domain"
	"confcentral/pkg/platform/httputil"
)

// Service defines the session operations the handler needs.
type Service interface {
	Create(ctx context.Context, conference domain.ConferenceKey, draft models.Draft) (*models.Session, error)
	ListByConference(ctx context.Context, conference domain.ConferenceKey) ([]*models.Session, error)
	ListByType(ctx context.Context, conference domain.ConferenceKey, typ string) ([]*models.Session, error)
	ListBySpeaker(ctx context.Context, speaker string) ([]*models.Session, error)
	ListByStartTime(ctx context.Context, startTime string) ([]*models.Session, error)
	ListBeforeEveningNonWorkshop(ctx context.Context) ([]*models.Session, error)
}

type Handler struct {
	sessions Service
	logger   *slog.Logger
}

func New(sessions Service, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

// Register mounts the session routes. Callers must wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/conference/{websafeConferenceKey}/sessions", h.handleCreate)
	r.Get("/conference/{websafeConferenceKey}/sessions", h.handleListByConference)
	r.Get("/conference/{websafeConferenceKey}/sessions/type/{typeOfSession}", h.handleListByType)
	r.Get("/sessions/speaker/{speaker}", h.handleListBySpeaker)
	r.Get("/sessions/time/{startTime}", h.handleListByStartTime)
	r.Get("/sessions/before-evening", h.handleBeforeEvening)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key, err := domain.ParseConferenceKey(chi.URLParam(r, "websafeConferenceKey"))
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference key", err)
		return
	}
	var req SessionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid session request", err)
		return
	}
	draft, err := req.ToDraft()
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid session request", err)
		return
	}
	sess, err := h.sessions.Create(ctx, key, draft)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "failed to create session", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ToResponse(sess))
}

func (h *Handler) handleListByConference(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseConferenceKey(chi.URLParam(r, "websafeConferenceKey"))
	if err != nil {
		httputil.Fail(r.Context(), h.logger, w, "invalid conference key", err)
		return
	}
	h.writeList(w, r, func(ctx context.Context) ([]*models.Session, error) {
		return h.sessions.ListByConference(ctx, key)
	})
}

func (h *Handler) handleListByType(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseConferenceKey(chi.URLParam(r, "websafeConferenceKey"))
	if err != nil {
		httputil.Fail(r.Context(), h.logger, w, "invalid conference key", err)
		return
	}
	typ := chi.URLParam(r, "typeOfSession")
	h.writeList(w, r, func(ctx context.Context) ([]*models.Session, error) {
		return h.sessions.ListByType(ctx, key, typ)
	})
}

func (h *Handler) handleListBySpeaker(w http.ResponseWriter, r *http.Request) {
	speaker := chi.URLParam(r, "speaker")
	h.writeList(w, r, func(ctx context.Context) ([]*models.Session, error) {
		return h.sessions.ListBySpeaker(ctx, speaker)
	})
}

func (h *Handler) handleListByStartTime(w http.ResponseWriter, r *http.Request) {
	startTime := chi.URLParam(r, "startTime")
	h.writeList(w, r, func(ctx context.Context) ([]*models.Session, error) {
		return h.sessions.ListByStartTime(ctx, startTime)
	})
}

func (h *Handler) handleBeforeEvening(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.sessions.ListBeforeEveningNonWorkshop)
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]*models.Session, error)) {
	sessions, err := list(r.Context())
	if err != nil {
		httputil.Fail(r.Context(), h.logger, w, "failed to list sessions", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToListResponse(sessions))
}
