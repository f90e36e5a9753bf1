package room

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/deadnumber/internal/model"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry(DefaultConfig())
}

func (s *RegistrySuite) TestCreateSeatsCreator() {
	r, err := s.registry.Create("  fun  ", "alice")
	s.Require().NoError(err)

	s.Equal(model.RoomID("001"), r.ID())
	s.Equal("fun", r.Name())
	s.True(r.HasMember("alice"))

	found, ok := s.registry.FindByPlayer("alice")
	s.True(ok)
	s.Same(r, found)
}

func (s *RegistrySuite) TestCreateRejectsInvalidName() {
	_, err := s.registry.Create("   ", "alice")
	s.ErrorIs(err, model.ErrInvalidRoomName)
	s.Zero(s.registry.Len())
}

func (s *RegistrySuite) TestCreateRejectsPlayerAlreadySeated() {
	_, _ = s.registry.Create("one", "alice")

	_, err := s.registry.Create("two", "alice")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *RegistrySuite) TestIdsAreNeverReused() {
	_, _ = s.registry.Create("one", "alice")
	_, _, err := s.registry.Leave("alice")
	s.Require().NoError(err)

	r, err := s.registry.Create("two", "bob")
	s.Require().NoError(err)
	s.Equal(model.RoomID("002"), r.ID())
}

func (s *RegistrySuite) TestJoin() {
	r, _ := s.registry.Create("fun", "alice")

	joined, err := s.registry.Join(r.ID(), "bob")
	s.Require().NoError(err)
	s.Same(r, joined)
	s.Equal(2, r.MemberCount())

	_, err = s.registry.Join("999", "carol")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, err = s.registry.Join(r.ID(), "bob")
	s.ErrorIs(err, model.ErrAlreadyInRoom)
}

func (s *RegistrySuite) TestJoinFullRoom() {
	r, _ := s.registry.Create("fun", "a")
	for _, id := range []model.PlayerID{"b", "c", "d"} {
		_, err := s.registry.Join(r.ID(), id)
		s.Require().NoError(err)
	}

	_, err := s.registry.Join(r.ID(), "e")
	s.ErrorIs(err, model.ErrRoomFull)

	_, ok := s.registry.FindByPlayer("e")
	s.False(ok)
}

func (s *RegistrySuite) TestLeaveDestroysEmptyRoom() {
	r, _ := s.registry.Create("fun", "alice")
	_, _ = s.registry.Join(r.ID(), "bob")

	_, destroyed, err := s.registry.Leave("alice")
	s.Require().NoError(err)
	s.False(destroyed)
	s.Equal(1, s.registry.Len())

	_, destroyed, err = s.registry.Leave("bob")
	s.Require().NoError(err)
	s.True(destroyed)
	s.Zero(s.registry.Len())

	_, err = s.registry.Get(r.ID())
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RegistrySuite) TestLeaveWhenNotSeated() {
	_, _, err := s.registry.Leave("ghost")
	s.ErrorIs(err, model.ErrNotInRoom)
}

func (s *RegistrySuite) TestAllIsOrderedById() {
	for i, name := range []string{"a", "b", "c"} {
		_, err := s.registry.Create(name, model.PlayerID(name+"-owner"))
		s.Require().NoError(err, i)
	}

	var ids []model.RoomID
	for _, sum := range s.registry.Summaries() {
		ids = append(ids, sum.ID)
	}
	s.Equal([]model.RoomID{"001", "002", "003"}, ids)
}

func (s *RegistrySuite) TestZeroConfigUsesDefaults() {
	g := NewRegistry(Config{})
	s.Equal(DefaultConfig(), g.Config())
}
