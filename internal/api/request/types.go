package request

// CreateCharacterRequest is the request body for creating a character
type CreateCharacterRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	Class  string `json:"class"`
}

// RenameCharacterRequest is the request body for renaming a character
type RenameCharacterRequest struct {
	Name string `json:"name"`
}
