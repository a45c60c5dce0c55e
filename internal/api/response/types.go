package response

import (
	"time"

	"github.com/softpunk/emberfell/internal/model"
)

// Character is the API representation of a character
type Character struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Class     string    `json:"class"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CharacterFromModel converts a model character to its API representation
func CharacterFromModel(c *model.Character) Character {
	return Character{
		ID:        string(c.ID),
		OwnerID:   string(c.OwnerID),
		Name:      c.Name,
		Gender:    string(c.Gender),
		Class:     string(c.Class),
		Level:     c.Level,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// CharacterList is a list of characters
type CharacterList struct {
	Characters []Character `json:"characters"`
}

// CharacterListFromModel converts a slice of model characters
func CharacterListFromModel(characters []*model.Character) CharacterList {
	out := CharacterList{Characters: make([]Character, 0, len(characters))}
	for _, c := range characters {
		out.Characters = append(out.Characters, CharacterFromModel(c))
	}
	return out
}

// Health is the health check response
type Health struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}
