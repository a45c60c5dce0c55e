package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/softpunk/emberfell/internal/model"
	"github.com/softpunk/emberfell/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	characters map[model.CharacterID]*model.Character
	ownerIndex map[model.PlayerID]map[model.CharacterID]bool
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		characters: make(map[model.CharacterID]*model.Character),
		ownerIndex: make(map[model.PlayerID]map[model.CharacterID]bool),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveCharacter(ctx context.Context, character *model.Character) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.characters[character.ID]; ok && existing.OwnerID != character.OwnerID {
		delete(s.ownerIndex[existing.OwnerID], character.ID)
	}

	copied := *character
	s.characters[character.ID] = &copied

	if s.ownerIndex[character.OwnerID] == nil {
		s.ownerIndex[character.OwnerID] = make(map[model.CharacterID]bool)
	}
	s.ownerIndex[character.OwnerID][character.ID] = true
	return nil
}

func (s *Storage) GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	character, ok := s.characters[id]
	if !ok {
		return nil, model.ErrCharacterNotFound
	}
	copied := *character
	return &copied, nil
}

func (s *Storage) ListCharactersByOwner(ctx context.Context, owner model.PlayerID) ([]*model.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.ownerIndex[owner]
	characters := make([]*model.Character, 0, len(ids))
	for id := range ids {
		if character, ok := s.characters[id]; ok {
			copied := *character
			characters = append(characters, &copied)
		}
	}
	sort.Slice(characters, func(i, j int) bool {
		return characters[i].CreatedAt.Before(characters[j].CreatedAt)
	})
	return characters, nil
}

func (s *Storage) DeleteCharacter(ctx context.Context, id model.CharacterID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	character, ok := s.characters[id]
	if !ok {
		return nil
	}
	delete(s.characters, id)
	delete(s.ownerIndex[character.OwnerID], id)
	return nil
}
