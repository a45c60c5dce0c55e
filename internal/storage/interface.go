package storage

import (
	"context"

	"github.com/softpunk/emberfell/internal/model"
)

// Storage defines the interface for character persistence. Live presence
// state never goes through here; it exists only for the duration of a
// sync session.
type Storage interface {
	SaveCharacter(ctx context.Context, character *model.Character) error
	GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error)
	ListCharactersByOwner(ctx context.Context, owner model.PlayerID) ([]*model.Character, error)
	DeleteCharacter(ctx context.Context, id model.CharacterID) error
}
