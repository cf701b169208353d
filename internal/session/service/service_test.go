package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	announcement "confcentral/internal/announcement/models"
	conference "confcentral/internal/conference/models"
	"confcentral/internal/platform/logger"
	profilesvc "confcentral/internal/profile/service"
	"confcentral/internal/session/models"
	"confcentral/internal/storage/memory"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/requestcontext"
)

type recordingPublisher struct {
	mu       sync.Mutex
	triggers []announcement.FeaturedSpeakerTrigger
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, t announcement.FeaturedSpeakerTrigger) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.triggers = append(p.triggers, t)
	return p.err
}

type SessionServiceSuite struct {
	suite.Suite
	store     *memory.Store
	publisher *recordingPublisher
	service   *Service
	owner     context.Context
	conf      domain.ConferenceKey
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceSuite))
}

func (s *SessionServiceSuite) SetupTest() {
	s.store = memory.New()
	s.publisher = &recordingPublisher{}
	profiles := profilesvc.New(s.store, profilesvc.WithLogger(logger.Discard()))
	s.service = New(s.store, profiles, s.publisher, WithLogger(logger.Discard()))
	s.owner = requestcontext.WithIdentity(context.Background(), requestcontext.Identity{ProfileID: "owner"})

	s.conf = domain.NewConferenceKey("owner", "c1")
	c, err := conference.NewConference(s.conf, conference.Draft{Name: "GopherCon", MaxAttendees: 10})
	s.Require().NoError(err)
	s.Require().NoError(s.store.InsertConference(context.Background(), c))
}

func (s *SessionServiceSuite) create(name, speaker, start string, types ...string) *models.Session {
	sess, err := s.service.Create(s.owner, s.conf, models.Draft{
		Name: name, Speaker: speaker, StartTime: start, TypeOfSession: types,
	})
	s.Require().NoError(err)
	return sess
}

func (s *SessionServiceSuite) TestCreate() {
	s.Run("stores the session and emits one trigger", func() {
		sess := s.create("Intro", "Ada", "9:30")
		s.Equal(s.conf, sess.Conference())
		s.Equal("09:30", sess.StartTime)
		s.Equal(models.DefaultTypes, sess.TypeOfSession)
		s.Equal(models.DefaultHighlights, sess.Highlights)

		s.Require().Len(s.publisher.triggers, 1)
		s.Equal(announcement.FeaturedSpeakerTrigger{Speaker: "Ada", ConferenceKey: s.conf}, s.publisher.triggers[0])
	})

	s.Run("only the owner may add sessions", func() {
		other := requestcontext.WithIdentity(context.Background(), requestcontext.Identity{ProfileID: "other"})
		_, err := s.service.Create(other, s.conf, models.Draft{Name: "Sneaky"})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("missing conference", func() {
		_, err := s.service.Create(s.owner, domain.NewConferenceKey("owner", "nope"), models.Draft{Name: "x"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid start time stores nothing", func() {
		before := len(s.publisher.triggers)
		_, err := s.service.Create(s.owner, s.conf, models.Draft{Name: "x", StartTime: "noon"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.Len(s.publisher.triggers, before)
	})

	s.Run("publish failure does not fail creation", func() {
		s.publisher.err = errors.New("broker down")
		defer func() { s.publisher.err = nil }()
		_, err := s.service.Create(s.owner, s.conf, models.Draft{Name: "Resilient"})
		s.NoError(err)
	})
}

func (s *SessionServiceSuite) TestListings() {
	s.create("Keynote", "Ada", "09:00", "Keynote")
	s.create("Hands-on Go", "Grace", "14:00", "Workshop")
	s.create("Late Talk", "Ada", "20:00", "Lecture")
	s.create("Lunch Talk", "Linus", "12:00", "Lecture")

	s.Run("by conference ordered by start time", func() {
		got, err := s.service.ListByConference(s.owner, s.conf)
		s.Require().NoError(err)
		s.Equal([]string{"Keynote", "Lunch Talk", "Hands-on Go", "Late Talk"}, names(got))
	})

	s.Run("by type", func() {
		got, err := s.service.ListByType(s.owner, s.conf, "Lecture")
		s.Require().NoError(err)
		s.Equal([]string{"Lunch Talk", "Late Talk"}, names(got))
	})

	s.Run("by speaker", func() {
		got, err := s.service.ListBySpeaker(s.owner, "Ada")
		s.Require().NoError(err)
		s.Equal([]string{"Keynote", "Late Talk"}, names(got))

		_, err = s.service.ListBySpeaker(s.owner, "")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("by start time", func() {
		got, err := s.service.ListByStartTime(s.owner, "9:00")
		s.Require().NoError(err)
		s.Equal([]string{"Keynote"}, names(got))

		_, err = s.service.ListByStartTime(s.owner, "soon")
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("before evening excludes workshops", func() {
		got, err := s.service.ListBeforeEveningNonWorkshop(s.owner)
		s.Require().NoError(err)
		s.Equal([]string{"Keynote", "Lunch Talk"}, names(got))
	})
}

func names(ss []*models.Session) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.Name)
	}
	return out
}
