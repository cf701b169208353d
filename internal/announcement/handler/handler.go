package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confcentral/pkg/platform/httputil"
)

// Service defines the announcement reads the handler needs.
type Service interface {
	Announcement(ctx context.Context) (string, error)
	FeaturedSpeaker(ctx context.Context) (string, error)
}

type Handler struct {
	announcements Service
	logger        *slog.Logger
}

func New(announcements Service, logger *slog.Logger) *Handler {
	return &Handler{announcements: announcements, logger: logger}
}

// StringResponse carries a cached announcement; Data is empty when none is set.
type StringResponse struct {
	Data string `json:"data"`
}

// Register mounts the announcement routes.
func (h *Handler) Register(r chi.Router) {
	r.Get("/conference/announcement", h.handleAnnouncement)
	r.Get("/sessions/featured", h.handleFeatured)
}

func (h *Handler) handleAnnouncement(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.announcements.Announcement)
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.announcements.FeaturedSpeaker)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, read func(context.Context) (string, error)) {
	msg, err := read(r.Context())
	if err != nil {
		httputil.Fail(r.Context(), h.logger, w, "failed to read announcement", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StringResponse{Data: msg})
}
