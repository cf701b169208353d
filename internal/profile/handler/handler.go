package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"confcentral/internal/profile/models"
	"confcentral/pkg/platform/httputil"
)

// Service defines the profile operations the handler needs.
type Service interface {
	Ensure(ctx context.Context) (*models.Profile, error)
	Update(ctx context.Context, update models.ProfileUpdate) (*models.Profile, error)
}

// Handler serves the caller's own profile.
type Handler struct {
	profiles Service
	logger   *slog.Logger
}

func New(profiles Service, logger *slog.Logger) *Handler {
	return &Handler{profiles: profiles, logger: logger}
}

// Register mounts the profile routes. Callers must wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/profile", h.handleGetProfile)
	r.Post("/profile", h.handleSaveProfile)
}

// Response is the wire form of a profile.
type Response struct {
	DisplayName            string   `json:"displayName"`
	MainEmail              string   `json:"mainEmail"`
	TeeShirtSize           string   `json:"teeShirtSize"`
	ConferenceKeysToAttend []string `json:"conferenceKeysToAttend"`
	SessionKeysInWishlist  []string `json:"sessionKeysInWishlist"`
}

// UpdateRequest carries the editable profile fields.
type UpdateRequest struct {
	DisplayName  *string `json:"displayName"`
	TeeShirtSize *string `json:"teeShirtSize"`
}

// ToUpdate validates the request.
func (r UpdateRequest) ToUpdate() (models.ProfileUpdate, error) {
	update := models.ProfileUpdate{DisplayName: r.DisplayName}
	if r.TeeShirtSize != nil && *r.TeeShirtSize != "" {
		size, err := models.ParseTeeShirtSize(*r.TeeShirtSize)
		if err != nil {
			return models.ProfileUpdate{}, err
		}
		update.TeeShirtSize = &size
	}
	return update, nil
}

func toResponse(p *models.Profile) Response {
	resp := Response{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		TeeShirtSize:           string(p.TeeShirtSize),
		ConferenceKeysToAttend: make([]string, 0, len(p.ConferenceKeysToAttend)),
		SessionKeysInWishlist:  make([]string, 0, len(p.SessionsInWishlist)),
	}
	for _, k := range p.ConferenceKeysToAttend {
		resp.ConferenceKeysToAttend = append(resp.ConferenceKeysToAttend, k.String())
	}
	for _, k := range p.SessionsInWishlist {
		resp.SessionKeysInWishlist = append(resp.SessionKeysInWishlist, k.String())
	}
	return resp
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.profiles.Ensure(r.Context())
	if err != nil {
		httputil.Fail(r.Context(), h.logger, w, "failed to load profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req UpdateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid profile request", err)
		return
	}
	update, err := req.ToUpdate()
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid profile request", err)
		return
	}
	p, err := h.profiles.Update(ctx, update)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "failed to update profile", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(p))
}
