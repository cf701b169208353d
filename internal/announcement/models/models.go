package models

import (
	"fmt"
	"strings"

	"confcentral/pkg/domain"
)

// Cache keys for the derived announcements.
const (
	KeyRecentAnnouncements = "RECENT_ANNOUNCEMENTS"
	KeyFeaturedSpeaker     = "FEATURED_SPEAKER"
)

// NearlySoldOutSeats is the default upper bound (inclusive) on remaining
// seats for a conference to be announced as nearly sold out.
const NearlySoldOutSeats = 5

// FeaturedSpeakerTrigger is emitted once per created session.
type FeaturedSpeakerTrigger struct {
	Speaker       string               `json:"speaker"`
	ConferenceKey domain.ConferenceKey `json:"conferenceKey"`
}

// NearlySoldOutMessage renders the announcement for the given conference names.
func NearlySoldOutMessage(names []string) string {
	return "Last chance to attend! The following conferences are nearly sold out: " + strings.Join(names, ", ")
}

// FeaturedSpeakerMessage renders the featured speaker announcement.
func FeaturedSpeakerMessage(speaker string, sessionNames []string) string {
	return fmt.Sprintf("Featured Speaker: %s; Sessions: %s", speaker, strings.Join(sessionNames, ", "))
}
