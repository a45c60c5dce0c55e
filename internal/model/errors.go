package model

import "errors"

// Common errors used across the application
var (
	// Presence errors
	ErrDuplicateIdentity   = errors.New("player id is already connected")
	ErrUnknownPlayer       = errors.New("no connected player with that id")
	ErrSessionAlreadyBound = errors.New("session is already bound to a player")
	ErrSessionClosed       = errors.New("session is closed")

	// Character errors
	ErrCharacterNotFound     = errors.New("character not found")
	ErrNotCharacterOwner     = errors.New("character belongs to another player")
	ErrInvalidCharacterName  = errors.New("character name must be 2-24 characters")
	ErrInvalidCharacterClass = errors.New("unknown character class")
	ErrInvalidGender         = errors.New("gender must be male or female")
)
