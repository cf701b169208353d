package domain

import (
	"encoding/base64"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	dErrors "confcentral/pkg/domain-errors"
)

// Entity keys mirror an ancestor path: conferences live under the profile
// that organizes them and sessions under their conference. The exported
// string form is "websafe": base64url of the slash-joined kind/id path, so a
// key can travel in URLs and still reveal its own ancestors once decoded.

const (
	kindProfile    = "Profile"
	kindConference = "Conference"
	kindSession    = "Session"
)

var keyEncoding = base64.RawURLEncoding

// ProfileID is the stable, opaque identifier of a profile, derived from the
// authenticated user id.
type ProfileID string

// ParseProfileID validates a raw user identifier.
func ParseProfileID(s string) (ProfileID, error) {
	if err := validateComponent(s); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid profile id")
	}
	return ProfileID(s), nil
}

func (p ProfileID) String() string { return string(p) }

// IsNil reports whether the profile id is empty.
func (p ProfileID) IsNil() bool { return p == "" }

// ConferenceKey identifies a conference under its organizing profile.
type ConferenceKey struct {
	Organizer ProfileID
	ID        string
}

// NewConferenceKey builds a key for a conference organized by organizer.
func NewConferenceKey(organizer ProfileID, id string) ConferenceKey {
	return ConferenceKey{Organizer: organizer, ID: id}
}

// ParseConferenceKey decodes a websafe conference key.
func ParseConferenceKey(s string) (ConferenceKey, error) {
	parts, err := decodePath(s)
	if err != nil || len(parts) != 4 || parts[0] != kindProfile || parts[2] != kindConference {
		return ConferenceKey{}, dErrors.New(dErrors.CodeBadRequest, "invalid conference key")
	}
	return ConferenceKey{Organizer: ProfileID(parts[1]), ID: parts[3]}, nil
}

// String returns the websafe encoding.
func (k ConferenceKey) String() string {
	return encodePath(kindProfile, string(k.Organizer), kindConference, k.ID)
}

// IsNil reports whether the key is the zero value.
func (k ConferenceKey) IsNil() bool { return k.ID == "" }

// Parent returns the organizing profile.
func (k ConferenceKey) Parent() ProfileID { return k.Organizer }

// MarshalText lets keys travel as JSON strings and map keys.
func (k ConferenceKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes the websafe encoding.
func (k *ConferenceKey) UnmarshalText(b []byte) error {
	parsed, err := ParseConferenceKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SessionKey identifies a session under its conference.
type SessionKey struct {
	Conference ConferenceKey
	ID         string
}

// NewSessionKey builds a key for a session of conference.
func NewSessionKey(conference ConferenceKey, id string) SessionKey {
	return SessionKey{Conference: conference, ID: id}
}

// ParseSessionKey decodes a websafe session key.
func ParseSessionKey(s string) (SessionKey, error) {
	parts, err := decodePath(s)
	if err != nil || len(parts) != 6 || parts[0] != kindProfile || parts[2] != kindConference || parts[4] != kindSession {
		return SessionKey{}, dErrors.New(dErrors.CodeBadRequest, "invalid session key")
	}
	return SessionKey{
		Conference: ConferenceKey{Organizer: ProfileID(parts[1]), ID: parts[3]},
		ID:         parts[5],
	}, nil
}

func (k SessionKey) String() string {
	return encodePath(kindProfile, string(k.Conference.Organizer), kindConference, k.Conference.ID, kindSession, k.ID)
}

func (k SessionKey) IsNil() bool { return k.ID == "" }

// Parent returns the conference the session belongs to.
func (k SessionKey) Parent() ConferenceKey { return k.Conference }

func (k SessionKey) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *SessionKey) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func encodePath(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return keyEncoding.EncodeToString([]byte(strings.Join(escaped, "/")))
}

func decodePath(s string) ([]string, error) {
	raw, err := keyEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(string(raw), "/")
	for i, p := range parts {
		unescaped, err := url.PathUnescape(p)
		if err != nil {
			return nil, err
		}
		if err := validateComponent(unescaped); err != nil {
			return nil, err
		}
		parts[i] = unescaped
	}
	return parts, nil
}

func validateComponent(s string) error {
	if s == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "empty key component")
	}
	if !utf8.ValidString(s) {
		return dErrors.New(dErrors.CodeInvalidInput, "key component is not valid UTF-8")
	}
	if strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "key component contains control characters")
	}
	return nil
}
