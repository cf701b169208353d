package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "confcentral/pkg/domain-errors"
)

func TestConferenceKeyRoundTrip(t *testing.T) {
	key := NewConferenceKey("user@example.com", "5a4c")

	parsed, err := ParseConferenceKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
	assert.Equal(t, ProfileID("user@example.com"), parsed.Parent())
}

func TestSessionKeyCarriesAncestors(t *testing.T) {
	conf := NewConferenceKey("organizer/with/slashes", "c1")
	key := NewSessionKey(conf, "s1")

	parsed, err := ParseSessionKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, conf, parsed.Parent())
	assert.Equal(t, ProfileID("organizer/with/slashes"), parsed.Parent().Parent())
}

func TestParseRejectsWrongKind(t *testing.T) {
	conf := NewConferenceKey("u1", "c1")
	session := NewSessionKey(conf, "s1")

	t.Run("session key is not a conference key", func(t *testing.T) {
		_, err := ParseConferenceKey(session.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("conference key is not a session key", func(t *testing.T) {
		_, err := ParseSessionKey(conf.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseConferenceKey("%%%")
		require.Error(t, err)
	})

	t.Run("empty component", func(t *testing.T) {
		_, err := ParseConferenceKey(encodePath(kindProfile, "", kindConference, "c1"))
		require.Error(t, err)
	})
}

func TestParseProfileID(t *testing.T) {
	_, err := ParseProfileID("")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = ParseProfileID("bad\x00id")
	assert.Error(t, err)

	id, err := ParseProfileID("108234")
	require.NoError(t, err)
	assert.Equal(t, "108234", id.String())
}

func TestKeysMarshalAsJSONStrings(t *testing.T) {
	type payload struct {
		Conference ConferenceKey `json:"conference"`
		Session    SessionKey    `json:"session"`
	}
	conf := NewConferenceKey("u1", "c1")
	in := payload{Conference: conf, Session: NewSessionKey(conf, "s1")}

	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}
