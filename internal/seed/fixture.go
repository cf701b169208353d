// Package seed loads YAML fixtures of profiles, conferences and sessions into
// an entity store. Registrations in a fixture go through the registration
// ledger so seat counts stay consistent with attendance lists.
package seed

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Fixture is the top-level seed document.
type Fixture struct {
	Profiles    []ProfileFixture    `yaml:"profiles"`
	Conferences []ConferenceFixture `yaml:"conferences"`
}

// ProfileFixture describes one user profile.
type ProfileFixture struct {
	ID           string `yaml:"id"`
	DisplayName  string `yaml:"displayName"`
	Email        string `yaml:"email"`
	TeeShirtSize string `yaml:"teeShirtSize"`
}

// ConferenceFixture describes a conference, its sessions and the profiles
// registered for it. Dates use YYYY-MM-DD.
type ConferenceFixture struct {
	ID           string           `yaml:"id"`
	Organizer    string           `yaml:"organizer"`
	Name         string           `yaml:"name"`
	Description  string           `yaml:"description"`
	Topics       []string         `yaml:"topics"`
	City         string           `yaml:"city"`
	StartDate    string           `yaml:"startDate"`
	EndDate      string           `yaml:"endDate"`
	MaxAttendees int              `yaml:"maxAttendees"`
	Sessions     []SessionFixture `yaml:"sessions"`
	Attendees    []string         `yaml:"attendees"`
}

// SessionFixture describes one session. StartTime uses HH:MM.
type SessionFixture struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Highlights    string   `yaml:"highlights"`
	Speaker       string   `yaml:"speaker"`
	Duration      int      `yaml:"duration"`
	TypeOfSession []string `yaml:"typeOfSession"`
	Date          string   `yaml:"date"`
	StartTime     string   `yaml:"startTime"`
	Wishlisted    []string `yaml:"wishlistedBy"`
}

// Decode reads a fixture. Unknown fields are rejected so typos surface.
func Decode(r io.Reader) (Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return Fixture{}, nil
		}
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	return f, nil
}

// LoadFile reads a fixture from path.
func LoadFile(path string) (Fixture, error) {
	file, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()
	return Decode(file)
}
