package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/softpunk/emberfell/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) character(id, owner, name string, created time.Time) *model.Character {
	return &model.Character{
		ID:        model.CharacterID(id),
		OwnerID:   model.PlayerID(owner),
		Name:      name,
		Gender:    model.GenderFemale,
		Class:     model.ClassMage,
		Level:     1,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func (s *StorageSuite) TestSaveAndGetCharacter() {
	c := s.character("char-1", "owner-1", "Aria", time.Now())
	s.Require().NoError(s.storage.SaveCharacter(s.ctx, c))

	got, err := s.storage.GetCharacter(s.ctx, "char-1")
	s.Require().NoError(err)
	s.Equal(c.Name, got.Name)
	s.Equal(c.OwnerID, got.OwnerID)
}

func (s *StorageSuite) TestGetCharacterNotFound() {
	_, err := s.storage.GetCharacter(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrCharacterNotFound)
}

func (s *StorageSuite) TestGetReturnsACopy() {
	c := s.character("char-1", "owner-1", "Aria", time.Now())
	s.Require().NoError(s.storage.SaveCharacter(s.ctx, c))

	got, _ := s.storage.GetCharacter(s.ctx, "char-1")
	got.Name = "Mutated"

	fresh, _ := s.storage.GetCharacter(s.ctx, "char-1")
	s.Equal("Aria", fresh.Name)
}

func (s *StorageSuite) TestListCharactersByOwnerOrdered() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveCharacter(s.ctx, s.character("char-2", "owner-1", "Second", base.Add(time.Hour)))
	_ = s.storage.SaveCharacter(s.ctx, s.character("char-1", "owner-1", "First", base))
	_ = s.storage.SaveCharacter(s.ctx, s.character("char-3", "owner-2", "Other", base))

	characters, err := s.storage.ListCharactersByOwner(s.ctx, "owner-1")
	s.Require().NoError(err)
	s.Require().Len(characters, 2)
	s.Equal("First", characters[0].Name)
	s.Equal("Second", characters[1].Name)
}

func (s *StorageSuite) TestListCharactersByOwnerEmpty() {
	characters, err := s.storage.ListCharactersByOwner(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(characters)
}

func (s *StorageSuite) TestDeleteCharacter() {
	c := s.character("char-1", "owner-1", "Aria", time.Now())
	_ = s.storage.SaveCharacter(s.ctx, c)

	s.Require().NoError(s.storage.DeleteCharacter(s.ctx, "char-1"))

	_, err := s.storage.GetCharacter(s.ctx, "char-1")
	s.ErrorIs(err, model.ErrCharacterNotFound)

	characters, _ := s.storage.ListCharactersByOwner(s.ctx, "owner-1")
	s.Empty(characters)

	// Deleting an absent character is a no-op
	s.NoError(s.storage.DeleteCharacter(s.ctx, "char-1"))
}
