package presence

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/softpunk/emberfell/internal/model"
	"github.com/softpunk/emberfell/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry(testutil.NopLogger())
}

func (s *RegistrySuite) TestJoinInsertsAtZeroPosition() {
	snap, err := s.registry.Join("1", "Aria", model.GenderFemale)
	s.Require().NoError(err)

	s.Equal(model.PlayerID("1"), snap.ID)
	s.Equal("Aria", snap.Name)
	s.Equal(model.GenderFemale, snap.Gender)
	s.Equal(model.Vec3{}, snap.Position)
	s.Equal(1, s.registry.Count())
}

func (s *RegistrySuite) TestJoinDuplicateIdentityRejected() {
	_, err := s.registry.Join("1", "Aria", model.GenderFemale)
	s.Require().NoError(err)
	_ = s.registry.Move("1", model.Vec3{X: 3})

	_, err = s.registry.Join("1", "Impostor", model.GenderMale)
	s.ErrorIs(err, model.ErrDuplicateIdentity)

	// The first snapshot must be unmodified
	players := s.registry.Snapshot()
	s.Require().Len(players, 1)
	s.Equal("Aria", players[0].Name)
	s.Equal(model.GenderFemale, players[0].Gender)
	s.Equal(model.Vec3{X: 3}, players[0].Position)
}

func (s *RegistrySuite) TestMoveOverwritesPosition() {
	_, err := s.registry.Join("1", "Aria", model.GenderFemale)
	s.Require().NoError(err)

	err = s.registry.Move("1", model.Vec3{X: 3, Y: 0, Z: -2})
	s.Require().NoError(err)

	players := s.registry.Snapshot()
	s.Require().Len(players, 1)
	s.Equal(model.Vec3{X: 3, Y: 0, Z: -2}, players[0].Position)
}

func (s *RegistrySuite) TestMoveUnknownPlayerDoesNotCreateEntry() {
	err := s.registry.Move("ghost", model.Vec3{X: 1})
	s.ErrorIs(err, model.ErrUnknownPlayer)
	s.Equal(0, s.registry.Count())
}

func (s *RegistrySuite) TestLeaveRemovesSnapshot() {
	_, _ = s.registry.Join("1", "Aria", model.GenderFemale)

	err := s.registry.Leave("1")
	s.Require().NoError(err)
	s.Equal(0, s.registry.Count())

	err = s.registry.Leave("1")
	s.ErrorIs(err, model.ErrUnknownPlayer)
}

func (s *RegistrySuite) TestSnapshotMatchesJoinedNotLeft() {
	_, _ = s.registry.Join("1", "Aria", model.GenderFemale)
	_, _ = s.registry.Join("2", "Borin", model.GenderMale)
	_, _ = s.registry.Join("3", "Cael", model.GenderMale)
	_ = s.registry.Leave("2")

	players := s.registry.Snapshot()
	s.Require().Len(players, 2)

	ids := map[model.PlayerID]bool{}
	for _, p := range players {
		ids[p.ID] = true
	}
	s.True(ids["1"])
	s.True(ids["3"])
	s.False(ids["2"])
}

func (s *RegistrySuite) TestSnapshotIsACopy() {
	_, _ = s.registry.Join("1", "Aria", model.GenderFemale)

	players := s.registry.Snapshot()
	players[0].Position = model.Vec3{X: 99}

	fresh := s.registry.Snapshot()
	s.Equal(model.Vec3{}, fresh[0].Position)
}

func (s *RegistrySuite) TestConcurrentJoinLeaveSnapshot() {
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n byte) {
			defer wg.Done()
			id := model.PlayerID(string([]byte{'a' + n}))
			_, _ = s.registry.Join(id, "p", model.GenderMale)
			_ = s.registry.Move(id, model.Vec3{X: float64(n)})
			if n%2 == 0 {
				_ = s.registry.Leave(id)
			}
		}(byte(i))
	}

	// Snapshots taken mid-churn must never contain duplicates
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			players := s.registry.Snapshot()
			seen := map[model.PlayerID]bool{}
			for _, p := range players {
				if seen[p.ID] {
					s.Failf("duplicate id in snapshot", "id %s", p.ID)
					return
				}
				seen[p.ID] = true
			}
		}
	}()

	wg.Wait()
	<-done
	s.Equal(10, s.registry.Count())
}
