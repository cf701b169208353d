package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	conference "confcentral/internal/conference/models"
	"confcentral/internal/conference/query"
	profile "confcentral/internal/profile/models"
	session "confcentral/internal/session/models"
	"confcentral/internal/storage"
	"confcentral/pkg/domain"
	dErrors "confcentral/pkg/domain-errors"
	"confcentral/pkg/platform/sentinel"
)

type StoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
	conf  *conference.Conference
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = New()
	s.conf = s.insertConference("c1", "GopherCon", 10)
}

func (s *StoreSuite) insertConference(id, name string, seats int) *conference.Conference {
	c, err := conference.NewConference(domain.NewConferenceKey("org", id), conference.Draft{Name: name, MaxAttendees: seats})
	s.Require().NoError(err)
	s.Require().NoError(s.store.InsertConference(s.ctx, c))
	return c
}

func (s *StoreSuite) insertSession(conf domain.ConferenceKey, id, name, speaker, start string, types ...string) *session.Session {
	sess, err := session.NewSession(domain.NewSessionKey(conf, id), conf.Parent(), session.Draft{
		Name: name, Speaker: speaker, StartTime: start, TypeOfSession: types,
	})
	s.Require().NoError(err)
	s.Require().NoError(s.store.RunInTx(s.ctx, func(tx storage.Tx) error {
		return tx.InsertSession(s.ctx, sess)
	}))
	return sess
}

func (s *StoreSuite) TestLookups() {
	s.Run("missing entities are ErrNotFound", func() {
		_, err := s.store.GetProfile(s.ctx, "nobody")
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.GetConference(s.ctx, domain.NewConferenceKey("org", "missing"))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned values are copies", func() {
		got, err := s.store.GetConference(s.ctx, s.conf.Key)
		s.Require().NoError(err)
		got.SeatsAvailable = 0
		got.Topics[0] = "mutated"

		again, err := s.store.GetConference(s.ctx, s.conf.Key)
		s.Require().NoError(err)
		s.Equal(10, again.SeatsAvailable)
		s.Equal("Default", again.Topics[0])
	})

	s.Run("batch get skips missing keys and keeps order", func() {
		other := s.insertConference("c2", "Alpha", 5)
		got, err := s.store.GetConferences(s.ctx, []domain.ConferenceKey{
			other.Key, domain.NewConferenceKey("org", "gone"), s.conf.Key,
		})
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal("Alpha", got[0].Name)
		s.Equal("GopherCon", got[1].Name)
	})
}

func (s *StoreSuite) TestRunInTx() {
	s.Run("commits staged writes", func() {
		err := s.store.RunInTx(s.ctx, func(tx storage.Tx) error {
			c, err := tx.GetConference(s.ctx, s.conf.Key)
			if err != nil {
				return err
			}
			if err := c.ReserveSeat(); err != nil {
				return err
			}
			if err := tx.PutConference(s.ctx, c); err != nil {
				return err
			}
			staged, err := tx.GetConference(s.ctx, s.conf.Key)
			s.Require().NoError(err)
			s.Equal(9, staged.SeatsAvailable, "reads see staged writes")
			return nil
		})
		s.Require().NoError(err)

		got, err := s.store.GetConference(s.ctx, s.conf.Key)
		s.Require().NoError(err)
		s.Equal(9, got.SeatsAvailable)
	})

	s.Run("discards writes when fn fails", func() {
		before, err := s.store.GetConference(s.ctx, s.conf.Key)
		s.Require().NoError(err)
		boom := errors.New("boom")

		err = s.store.RunInTx(s.ctx, func(tx storage.Tx) error {
			c, _ := tx.GetConference(s.ctx, s.conf.Key)
			c.SeatsAvailable = 0
			_ = tx.PutConference(s.ctx, c)
			p, _ := profile.NewProfile("u1", "U", "u@example.com")
			_ = tx.PutProfile(s.ctx, p)
			return boom
		})
		s.ErrorIs(err, boom)

		after, err := s.store.GetConference(s.ctx, s.conf.Key)
		s.Require().NoError(err)
		s.Equal(before.SeatsAvailable, after.SeatsAvailable)
		_, err = s.store.GetProfile(s.ctx, "u1")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("cancelled context is a timeout", func() {
		ctx, cancel := context.WithCancel(s.ctx)
		cancel()
		err := s.store.RunInTx(ctx, func(storage.Tx) error { return nil })
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})

	s.Run("duplicate session insert conflicts", func() {
		sess := s.insertSession(s.conf.Key, "dup", "Talk", "Ann", "10:00")
		err := s.store.RunInTx(s.ctx, func(tx storage.Tx) error {
			return tx.InsertSession(s.ctx, sess)
		})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *StoreSuite) TestConcurrentReservationsNeverOversell() {
	c := s.insertConference("tiny", "Tiny", 3)
	var wg sync.WaitGroup
	var mu sync.Mutex
	reserved := 0
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.RunInTx(s.ctx, func(tx storage.Tx) error {
				got, err := tx.GetConference(s.ctx, c.Key)
				if err != nil {
					return err
				}
				if err := got.ReserveSeat(); err != nil {
					return err
				}
				return tx.PutConference(s.ctx, got)
			})
			if err == nil {
				mu.Lock()
				reserved++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := s.store.GetConference(s.ctx, c.Key)
	s.Require().NoError(err)
	s.Equal(3, reserved)
	s.Equal(0, got.SeatsAvailable)
}

func (s *StoreSuite) TestCreateProfileIfAbsent() {
	p, _ := profile.NewProfile("u1", "First", "u@example.com")
	created, err := s.store.CreateProfileIfAbsent(s.ctx, p)
	s.Require().NoError(err)
	s.Equal("First", created.DisplayName)

	again, _ := profile.NewProfile("u1", "Second", "u@example.com")
	existing, err := s.store.CreateProfileIfAbsent(s.ctx, again)
	s.Require().NoError(err)
	s.Equal("First", existing.DisplayName)
}

func (s *StoreSuite) TestQueryConferences() {
	s.insertConference("c2", "Alpha", 3)
	s.insertConference("c3", "Beta", 300)

	plan, err := query.Compile([]query.Criterion{{Field: "maxAttendees", Operator: "<", Value: "100"}})
	s.Require().NoError(err)
	got, err := s.store.QueryConferences(s.ctx, plan)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("Alpha", got[0].Name)
	s.Equal("GopherCon", got[1].Name)
}

func (s *StoreSuite) TestListSessions() {
	other := s.insertConference("c2", "Other", 10)
	s.insertSession(s.conf.Key, "s1", "Keynote", "Ann", "09:00", "Keynote")
	s.insertSession(s.conf.Key, "s2", "Lab", "Bob", "14:00", "Workshop")
	s.insertSession(s.conf.Key, "s3", "Late", "Ann", "20:00")
	s.insertSession(other.Key, "s4", "Elsewhere", "Ann", "10:00")

	names := func(f storage.SessionFilter) []string {
		got, err := s.store.ListSessions(s.ctx, f)
		s.Require().NoError(err)
		out := make([]string, len(got))
		for i, sess := range got {
			out[i] = sess.Name
		}
		return out
	}

	s.Equal([]string{"Keynote", "Lab", "Late"}, names(storage.SessionFilter{Conference: s.conf.Key}))
	s.Equal([]string{"Keynote", "Late"}, names(storage.SessionFilter{Conference: s.conf.Key, Speaker: "Ann"}))
	s.Equal([]string{"Keynote", "Elsewhere", "Late"}, names(storage.SessionFilter{Speaker: "Ann"}))
	s.Equal([]string{"Lab"}, names(storage.SessionFilter{Conference: s.conf.Key, Type: "Workshop"}))
	s.Equal([]string{"Elsewhere"}, names(storage.SessionFilter{StartTime: "10:00"}))
	s.Equal([]string{"Keynote", "Elsewhere", "Lab"}, names(storage.SessionFilter{StartsBefore: "19:00"}))
}

func (s *StoreSuite) TestListNearlySoldOut() {
	s.insertConference("c2", "Zed", 5)
	s.insertConference("c3", "Full", 0)
	s.insertConference("c4", "Alpha", 1)

	got, err := s.store.ListNearlySoldOut(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal("Alpha", got[0].Name)
	s.Equal("Zed", got[1].Name)
}

func (s *StoreSuite) TestTxTimeoutOption() {
	store := New(WithTxTimeout(10 * time.Millisecond))
	err := store.RunInTx(s.ctx, func(storage.Tx) error {
		time.Sleep(30 * time.Millisecond)
		return nil
	})
	s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
}
