package model

import "time"

// CharacterID uniquely identifies a stored character
type CharacterID string

// CharacterClass is a character's archetype
type CharacterClass string

const (
	ClassWarrior CharacterClass = "warrior"
	ClassMage    CharacterClass = "mage"
	ClassRanger  CharacterClass = "ranger"
)

// Valid reports whether c is a known class
func (c CharacterClass) Valid() bool {
	return c == ClassWarrior || c == ClassMage || c == ClassRanger
}

// Character is a persisted character created through the character
// creation front end. Live position is deliberately not part of this
// record; it exists only for the duration of a sync session.
type Character struct {
	ID        CharacterID
	OwnerID   PlayerID // host platform user that owns this character
	Name      string
	Gender    Gender
	Class     CharacterClass
	Level     int
	CreatedAt time.Time
	UpdatedAt time.Time
}
