package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/softpunk/emberfell/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.app.Start()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) TearDownTest() {
	s.Require().NoError(s.app.Shutdown())
}

// Test: a player creates a character, then brings it online
func (s *IntegrationSuite) TestCharacterThenPresenceFlow() {
	// Step 1: Create a character over the persistence API
	created, err := s.app.CharacterController.CreateCharacter(
		s.ctx, "player-1", "Borin", model.GenderMale, model.ClassWarrior)
	s.Require().NoError(err)
	s.Equal(1, created.Level)

	// Step 2: Player connects and joins the shared space
	s.app.MockRandom.QueueString("sess-1")
	session := s.app.Coordinator.Connect()

	snapshot, err := s.app.Coordinator.Join(session, model.JoinPayload{
		ID:     "player-1",
		Name:   created.Name,
		Gender: created.Gender,
	})
	s.Require().NoError(err)
	s.Len(snapshot.Players, 1)
	s.Equal(model.PlayerID("player-1"), snapshot.Players[0].ID)

	s.Equal(1, s.app.Registry.Count())

	// Step 3: A second player sees the first in their join snapshot
	s.app.MockRandom.QueueString("sess-2")
	session2 := s.app.Coordinator.Connect()

	snapshot2, err := s.app.Coordinator.Join(session2, model.JoinPayload{
		ID:     "player-2",
		Name:   "Lyra",
		Gender: model.GenderFemale,
	})
	s.Require().NoError(err)
	s.Len(snapshot2.Players, 2)

	// Step 4: Disconnects drain the registry
	s.app.Coordinator.Disconnect(session)
	s.app.Coordinator.Disconnect(session2)
	s.Equal(0, s.app.Registry.Count())

	// The character outlives the live session
	stored, err := s.app.CharacterController.GetCharacter(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("Borin", stored.Name)
}

// Test: memory is the default storage backend
func (s *IntegrationSuite) TestDefaultStorageIsMemory() {
	app, err := New(Config{})
	s.Require().NoError(err)
	s.NotNil(app.Storage)
	s.NoError(app.Shutdown())
}

func (s *IntegrationSuite) TestRedisStorageRequiresConfig() {
	_, err := New(Config{StorageType: StorageTypeRedis})
	s.Error(err)
}

func (s *IntegrationSuite) TestInvalidStorageTypeRejected() {
	_, err := New(Config{StorageType: "cassandra"})
	s.Error(err)
}
