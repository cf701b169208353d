package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	sessionhandler "confcentral/internal/session/handler"
	session "confcentral/internal/session/models"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/httputil"
	"confcentral/pkg/requestcontext"
)

// Service defines the wishlist operations the handler needs.
type Service interface {
	Add(ctx context.Context, profileID domain.ProfileID, key domain.SessionKey) ([]*session.Session, error)
	Remove(ctx context.Context, profileID domain.ProfileID, key domain.SessionKey) ([]*session.Session, error)
	List(ctx context.Context, profileID domain.ProfileID) ([]*session.Session, error)
	ListBySpeaker(ctx context.Context, profileID domain.ProfileID, speaker string) ([]*session.Session, error)
}

type Handler struct {
	wishlist Service
	logger   *slog.Logger
}

func New(wishlist Service, logger *slog.Logger) *Handler {
	return &Handler{wishlist: wishlist, logger: logger}
}

// Register mounts the wishlist routes. Callers must wrap r with RequireAuth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/wishlist", h.handleList)
	r.Get("/wishlist/speaker/{speaker}", h.handleListBySpeaker)
	r.Post("/wishlist/{websafeSessionKey}", h.handleAdd)
	r.Delete("/wishlist/{websafeSessionKey}", h.handleRemove)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "failed to load wishlist", func(ctx context.Context, caller domain.ProfileID) ([]*session.Session, error) {
		return h.wishlist.List(ctx, caller)
	})
}

func (h *Handler) handleListBySpeaker(w http.ResponseWriter, r *http.Request) {
	speaker := chi.URLParam(r, "speaker")
	h.respond(w, r, "failed to load wishlist", func(ctx context.Context, caller domain.ProfileID) ([]*session.Session, error) {
		return h.wishlist.ListBySpeaker(ctx, caller, speaker)
	})
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "failed to add to wishlist", h.wishlist.Add)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "failed to remove from wishlist", h.wishlist.Remove)
}

func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, msg string,
	op func(context.Context, domain.ProfileID, domain.SessionKey) ([]*session.Session, error),
) {
	key, err := domain.ParseSessionKey(chi.URLParam(r, "websafeSessionKey"))
	if err != nil {
		httputil.Fail(r.Context(), h.logger, w, "invalid session key", err)
		return
	}
	h.respond(w, r, msg, func(ctx context.Context, caller domain.ProfileID) ([]*session.Session, error) {
		return op(ctx, caller, key)
	})
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, msg string,
	load func(context.Context, domain.ProfileID) ([]*session.Session, error),
) {
	ctx := r.Context()
	caller := requestcontext.ProfileID(ctx)
	if caller.IsNil() {
		httputil.Fail(ctx, h.logger, w, msg, dErrors.New(dErrors.CodeUnauthenticated, "Authorization required"))
		return
	}
	sessions, err := load(ctx, caller)
	if err != nil {
		httputil.Fail(ctx, h.logger, w, msg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionhandler.ToListResponse(sessions))
}
