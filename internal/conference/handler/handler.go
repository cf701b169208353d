package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	"confcentral/pkg/domain"
	"confcentral/pkg/platform/httputil"
)

// Service defines the conference operations the handler needs.
type Service interface {
	Create(ctx context.Context, draft models.Draft) (*models.Conference, error)
	Update(ctx context.Context, key domain.ConferenceKey, update models.Update) (*models.Conference, error)
	Get(ctx context.Context, key domain.ConferenceKey) (*models.Conference, error)
	ListCreated(ctx context.Context) ([]*models.Conference, error)
	Query(ctx context.Context, criteria []query.Criterion) ([]*models.Conference, error)
	QueryFilter(ctx context.Context, filter string) ([]*models.Conference, error)
}

// Handler serves conference CRUD and queries.
type Handler struct {
	conferences Service
	logger      *slog.Logger
}

func New(conferences Service, logger *slog.Logger) *Handler {
	return &Handler{conferences: conferences, logger: logger}
}

// Register mounts the conference routes. Callers must wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/conference", h.handleCreate)
	r.Put("/conference/{websafeConferenceKey}", h.handleUpdate)
	r.Get("/conference/{websafeConferenceKey}", h.handleGet)
	r.Get("/conferences/created", h.handleListCreated)
	r.Get("/conferences", h.handleFilter)
	r.Post("/queryConferences", h.handleQuery)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ConferenceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference request", err)
		return
	}
	draft, err := req.ToDraft()
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference request", err)
		return
	}
	c, err := h.conferences.Create(ctx, draft)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "failed to create conference", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, ToResponse(c))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key, err := domain.ParseConferenceKey(chi.URLParam(r, "websafeConferenceKey"))
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference key", err)
		return
	}
	var req ConferenceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference request", err)
		return
	}
	update, err := req.ToUpdate()
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference request", err)
		return
	}
	c, err := h.conferences.Update(ctx, key, update)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "failed to update conference", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToResponse(c))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key, err := domain.ParseConferenceKey(chi.URLParam(r, "websafeConferenceKey"))
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference key", err)
		return
	}
	c, err := h.conferences.Get(ctx, key)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "failed to load conference", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToResponse(c))
}

func (h *Handler) handleListCreated(w http.ResponseWriter, r *http.Request) {
	cs, err := h.conferences.ListCreated(r.Context())
	if err != nil {
		httputil.Fail(r.Context(), h.logger, w, "failed to list conferences", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToListResponse(cs))
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req QueryRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid query request", err)
		return
	}
	cs, err := h.conferences.Query(ctx, req.Filters)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "conference query failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToListResponse(cs))
}

func (h *Handler) handleFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cs, err := h.conferences.QueryFilter(ctx, r.URL.Query().Get("filter"))
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "conference query failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ToListResponse(cs))
}
