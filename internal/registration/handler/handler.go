package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	conferencehandler "confcentral/internal/conference/handler"
	conference "confcentral/internal/conference/models"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/httputil"
	"confcentral/pkg/requestcontext"
)

// Service defines the ledger operations the handler needs.
type Service interface {
	Register(ctx context.Context, profileID domain.ProfileID, key domain.ConferenceKey) (bool, error)
	Unregister(ctx context.Context, profileID domain.ProfileID, key domain.ConferenceKey) (bool, error)
	Attending(ctx context.Context, profileID domain.ProfileID) ([]*conference.Conference, error)
}

type Handler struct {
	ledger Service
	logger *slog.Logger
}

func New(ledger Service, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, logger: logger}
}

// BooleanResponse reports whether the call changed anything.
type BooleanResponse struct {
	Data bool `json:"data"`
}

// Register mounts the registration routes. Callers must wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/conference/{websafeConferenceKey}/registration", h.handleRegister)
	r.Delete("/conference/{websafeConferenceKey}/registration", h.handleUnregister)
	r.Get("/conferences/attending", h.handleAttending)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	h.handleLedger(w, r, "registration failed", h.ledger.Register)
}

func (h *Handler) handleUnregister(w http.ResponseWriter, r *http.Request) {
	h.handleLedger(w, r, "unregistration failed", h.ledger.Unregister)
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request, msg string,
	op func(context.Context, domain.ProfileID, domain.ConferenceKey) (bool, error),
) {
	ctx := r.Context()
	caller, err := callerID(ctx)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, msg, err)
		return
	}
	key, err := domain.ParseConferenceKey(chi.URLParam(r, "websafeConferenceKey"))
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "invalid conference key", err)
		return
	}
	changed, err := op(ctx, caller, key)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, msg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BooleanResponse{Data: changed})
}

func (h *Handler) handleAttending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, err := callerID(ctx)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "failed to list attended conferences", err)
		return
	}
	cs, err := h.ledger.Attending(ctx, caller)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, "failed to list attended conferences", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, conferencehandler.ToListResponse(cs))
}

func callerID(ctx context.Context) (domain.ProfileID, error) {
	id := requestcontext.ProfileID(ctx)
	if id.IsNil() {
		return "", dErrors.New(dErrors.CodeUnauthenticated, "Authorization required")
	}
	return id, nil
}
