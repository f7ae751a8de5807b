package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/repository"
)

// CharacterHandler syncs character combat records from the game's character sheets
type CharacterHandler struct {
	characters repository.CharacterRoster
}

// NewCharacterHandler creates a new CharacterHandler
func NewCharacterHandler(characters repository.CharacterRoster) *CharacterHandler {
	return &CharacterHandler{characters: characters}
}

// SaveCharacterRequest carries a character's current combat record
type SaveCharacterRequest struct {
	ID             string `json:"id" validate:"required,uuid"`
	UserID         string `json:"user_id" validate:"notblank,max=64"`
	Name           string `json:"name" validate:"notblank,max=100,excludesall=\x00\n\r\t"`
	CurrentVillage string `json:"current_village" validate:"max=64"`
	Hearts         int    `json:"hearts" validate:"min=0"`
	MaxHearts      int    `json:"max_hearts" validate:"min=1"`
	Stamina        int    `json:"stamina" validate:"min=0"`
	Attack         int    `json:"attack" validate:"min=0"`
	Defense        int    `json:"defense" validate:"min=0"`
	Gear           string `json:"gear,omitempty" validate:"max=100"`
	KnockedOut     bool   `json:"knocked_out"`
	IsModCharacter bool   `json:"is_mod_character"`
}

// HandleSaveCharacter creates or replaces a character record
// @Summary Sync a character
// @Tags character
// @Accept json
// @Produce json
// @Param request body SaveCharacterRequest true "Character record"
// @Success 200 {object} domain.Character
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/character [post]
func (h *CharacterHandler) HandleSaveCharacter(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpSaveCharacter, http.StatusOK, func(ctx context.Context, req *SaveCharacterRequest) (*domain.Character, error) {
		c := &domain.Character{
			ID:             uuid.MustParse(req.ID),
			UserID:         strings.TrimSpace(req.UserID),
			Name:           strings.TrimSpace(req.Name),
			CurrentVillage: strings.TrimSpace(req.CurrentVillage),
			Hearts:         min(req.Hearts, req.MaxHearts),
			MaxHearts:      req.MaxHearts,
			Stamina:        req.Stamina,
			Attack:         req.Attack,
			Defense:        req.Defense,
			Gear:           req.Gear,
			KnockedOut:     req.KnockedOut,
			IsModCharacter: req.IsModCharacter,
		}
		if err := h.characters.SaveCharacter(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// HandleGetCharacter returns a character record
// @Summary Get a character
// @Tags character
// @Produce json
// @Param id query string true "Character ID"
// @Success 200 {object} domain.Character
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/character [get]
func (h *CharacterHandler) HandleGetCharacter(w http.ResponseWriter, r *http.Request) {
	id, ok := GetUUIDQueryParam(r, w, QueryParamID)
	if !ok {
		return
	}

	c, err := h.characters.GetCharacter(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpGetCharacter, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}
