package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/softpunk/emberfell/internal/api/middleware"
	"github.com/softpunk/emberfell/internal/api/request"
	"github.com/softpunk/emberfell/internal/api/response"
	"github.com/softpunk/emberfell/internal/model"
	"github.com/softpunk/emberfell/internal/services/character"
)

// CharacterHandler handles character-related endpoints
type CharacterHandler struct {
	characters *character.Controller
}

// NewCharacterHandler creates a new character handler
func NewCharacterHandler(characters *character.Controller) *CharacterHandler {
	return &CharacterHandler{
		characters: characters,
	}
}

// Create handles POST /api/v1/characters
func (h *CharacterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	identity := middleware.MustGetIdentity(r.Context())

	created, err := h.characters.CreateCharacter(
		r.Context(),
		identity.ID,
		req.Name,
		model.Gender(req.Gender),
		model.CharacterClass(req.Class),
	)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CharacterFromModel(created))
}

// List handles GET /api/v1/characters
func (h *CharacterHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())

	characters, err := h.characters.ListCharacters(r.Context(), identity.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CharacterListFromModel(characters))
}

// Get handles GET /api/v1/characters/{id}
func (h *CharacterHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.CharacterID(mux.Vars(r)["id"])

	c, err := h.characters.GetCharacter(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CharacterFromModel(c))
}

// Rename handles PATCH /api/v1/characters/{id}
func (h *CharacterHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req request.RenameCharacterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	identity := middleware.MustGetIdentity(r.Context())
	id := model.CharacterID(mux.Vars(r)["id"])

	renamed, err := h.characters.RenameCharacter(r.Context(), identity.ID, id, req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CharacterFromModel(renamed))
}

// Delete handles DELETE /api/v1/characters/{id}
func (h *CharacterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.CharacterID(mux.Vars(r)["id"])

	if err := h.characters.DeleteCharacter(r.Context(), identity.ID, id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}
