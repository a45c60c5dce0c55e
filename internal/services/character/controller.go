package character

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/softpunk/emberfell/internal/dependencies/clock"
	"github.com/softpunk/emberfell/internal/model"
	"github.com/softpunk/emberfell/internal/storage"
)

const (
	// MinNameLength is the minimum character name length in runes
	MinNameLength = 2
	// MaxNameLength is the maximum character name length in runes
	MaxNameLength = 24
)

// Controller manages character creation and ownership operations
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
}

// NewController creates a new character Controller
func NewController(storage storage.Storage, clock clock.Clock) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
	}
}

// CreateCharacter creates a new character owned by the given player
func (c *Controller) CreateCharacter(
	ctx context.Context,
	owner model.PlayerID,
	name string,
	gender model.Gender,
	class model.CharacterClass,
) (*model.Character, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !gender.Valid() {
		return nil, model.ErrInvalidGender
	}
	if !class.Valid() {
		return nil, model.ErrInvalidCharacterClass
	}

	now := c.clock.Now()
	character := &model.Character{
		ID:        model.CharacterID(uuid.NewString()),
		OwnerID:   owner,
		Name:      name,
		Gender:    gender,
		Class:     class,
		Level:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveCharacter(ctx, character); err != nil {
		return nil, err
	}

	return character, nil
}

// GetCharacter retrieves a character by id
func (c *Controller) GetCharacter(ctx context.Context, id model.CharacterID) (*model.Character, error) {
	return c.storage.GetCharacter(ctx, id)
}

// ListCharacters returns all characters owned by the given player
func (c *Controller) ListCharacters(ctx context.Context, owner model.PlayerID) ([]*model.Character, error) {
	return c.storage.ListCharactersByOwner(ctx, owner)
}

// RenameCharacter changes a character's name, enforcing ownership
func (c *Controller) RenameCharacter(
	ctx context.Context,
	requester model.PlayerID,
	id model.CharacterID,
	name string,
) (*model.Character, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	character, err := c.storage.GetCharacter(ctx, id)
	if err != nil {
		return nil, err
	}
	if character.OwnerID != requester {
		return nil, model.ErrNotCharacterOwner
	}

	character.Name = name
	character.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveCharacter(ctx, character); err != nil {
		return nil, err
	}

	return character, nil
}

// DeleteCharacter removes a character, enforcing ownership
func (c *Controller) DeleteCharacter(ctx context.Context, requester model.PlayerID, id model.CharacterID) error {
	character, err := c.storage.GetCharacter(ctx, id)
	if err != nil {
		return err
	}
	if character.OwnerID != requester {
		return model.ErrNotCharacterOwner
	}

	return c.storage.DeleteCharacter(ctx, id)
}

func validateName(name string) error {
	length := utf8.RuneCountInString(name)
	if length < MinNameLength || length > MaxNameLength {
		return model.ErrInvalidCharacterName
	}
	return nil
}
