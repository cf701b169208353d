package models

import (
	"strings"

	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
)

// TeeShirtSize is the profile's shirt size preference.
type TeeShirtSize string

const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var validSizes = map[TeeShirtSize]struct{}{
	TeeShirtNotSpecified: {}, TeeShirtXSM: {}, TeeShirtXSW: {}, TeeShirtSM: {}, TeeShirtSW: {},
	TeeShirtMM: {}, TeeShirtMW: {}, TeeShirtLM: {}, TeeShirtLW: {}, TeeShirtXLM: {}, TeeShirtXLW: {},
	TeeShirtXXLM: {}, TeeShirtXXLW: {}, TeeShirtXXXLM: {}, TeeShirtXXXLW: {},
}

// ParseTeeShirtSize accepts any case.
func ParseTeeShirtSize(s string) (TeeShirtSize, error) {
	size := TeeShirtSize(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := validSizes[size]; !ok {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid teeShirtSize: "+s)
	}
	return size, nil
}

// Profile is the per-user record. Its attendance and wishlist lists are
// mutated only by the registration and wishlist ledgers.
//
// Invariants:
//   - ID is non-empty and never changes
//   - a conference key appears at most once in ConferenceKeysToAttend
//   - a session key appears at most once in SessionsInWishlist
type Profile struct {
	ID                     domain.ProfileID              `json:"id"`
	DisplayName            string                        `json:"displayName"`
	MainEmail              string                        `json:"mainEmail"`
	TeeShirtSize           TeeShirtSize                  `json:"teeShirtSize"`
	ConferenceKeysToAttend KeyList[domain.ConferenceKey] `json:"conferenceKeysToAttend"`
	SessionsInWishlist     KeyList[domain.SessionKey]    `json:"sessionsInWishlist"`
}

// NewProfile builds the profile created on a user's first authenticated access.
func NewProfile(id domain.ProfileID, displayName, email string) (*Profile, error) {
	if id.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "profile id cannot be empty")
	}
	return &Profile{
		ID:           id,
		DisplayName:  displayName,
		MainEmail:    email,
		TeeShirtSize: TeeShirtNotSpecified,
	}, nil
}

// IsAttending reports whether the profile is registered for conference.
func (p *Profile) IsAttending(conference domain.ConferenceKey) bool {
	return p.ConferenceKeysToAttend.Contains(conference)
}

// Attend records a registration. Conflict if already registered.
func (p *Profile) Attend(conference domain.ConferenceKey) error {
	if err := p.ConferenceKeysToAttend.Add(conference); err != nil {
		return dErrors.New(dErrors.CodeConflict, "you have already registered for this conference")
	}
	return nil
}

// Leave removes a registration and reports whether one existed.
func (p *Profile) Leave(conference domain.ConferenceKey) bool {
	return p.ConferenceKeysToAttend.Remove(conference)
}

// Wish adds a session to the wishlist. Conflict if already present.
func (p *Profile) Wish(session domain.SessionKey) error {
	if err := p.SessionsInWishlist.Add(session); err != nil {
		return dErrors.New(dErrors.CodeConflict, "you have already added this session to your wishlist")
	}
	return nil
}

// Unwish removes a session from the wishlist and reports whether it was there.
func (p *Profile) Unwish(session domain.SessionKey) bool {
	return p.SessionsInWishlist.Remove(session)
}

// Clone returns a deep copy so stores never share list backing arrays.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.ConferenceKeysToAttend = p.ConferenceKeysToAttend.Clone()
	c.SessionsInWishlist = p.SessionsInWishlist.Clone()
	return &c
}

// ProfileUpdate carries the user-modifiable fields; nil means unchanged.
type ProfileUpdate struct {
	DisplayName  *string
	TeeShirtSize *TeeShirtSize
}

// Apply copies the set fields onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.DisplayName != nil && *u.DisplayName != "" {
		p.DisplayName = *u.DisplayName
	}
	if u.TeeShirtSize != nil && *u.TeeShirtSize != "" {
		p.TeeShirtSize = *u.TeeShirtSize
	}
}
