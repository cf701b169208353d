package testutil

import (
	"net/http"

	"confcentral/pkg/domain"
	"confcentral/pkg/requestcontext"
)

// WithIdentity puts an authenticated caller on the request context, as
// RequireAuth would after validating a token.
func WithIdentity(req *http.Request, profileID, email string) *http.Request {
	ctx := requestcontext.WithIdentity(req.Context(), requestcontext.Identity{
		ProfileID: domain.ProfileID(profileID),
		Email:     email,
	})
	return req.WithContext(ctx)
}
