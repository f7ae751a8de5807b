package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/expedition"
)

// ExpeditionHandler serves /api/v1/expedition
type ExpeditionHandler struct {
	service expedition.Service
}

// NewExpeditionHandler creates a new ExpeditionHandler
func NewExpeditionHandler(service expedition.Service) *ExpeditionHandler {
	return &ExpeditionHandler{service: service}
}

// ExpeditionMemberRequest is one traveling character
type ExpeditionMemberRequest struct {
	CharacterID string `json:"character_id" validate:"required,uuid"`
	UserID      string `json:"user_id" validate:"notblank,max=64"`
	Name        string `json:"name" validate:"notblank,max=100"`
}

// StartExpeditionRequest represents an expedition start request
type StartExpeditionRequest struct {
	Members []ExpeditionMemberRequest `json:"members" validate:"required,min=1,max=10,dive"`
	Hearts  int                       `json:"hearts" validate:"min=0,max=1000"`
	Stamina int                       `json:"stamina" validate:"min=0,max=1000"`
}

// JournalResponse is an expedition's raid history
type JournalResponse struct {
	ExpeditionID uuid.UUID                  `json:"expedition_id"`
	Entries      []domain.RaidOutcomeRecord `json:"entries"`
}

// HandleStart opens an expedition with a shared party pool
// @Summary Start an expedition
// @Tags expedition
// @Accept json
// @Produce json
// @Param request body StartExpeditionRequest true "Party and starting pool"
// @Success 201 {object} domain.PartyPool
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/v1/expedition/start [post]
func (h *ExpeditionHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpStartExpedition, http.StatusCreated, func(ctx context.Context, req *StartExpeditionRequest) (*domain.PartyPool, error) {
		members := make([]domain.PartyMember, 0, len(req.Members))
		for _, m := range req.Members {
			members = append(members, domain.PartyMember{
				CharacterID: uuid.MustParse(m.CharacterID),
				UserID:      m.UserID,
				Name:        m.Name,
			})
		}
		return h.service.StartExpedition(ctx, members, req.Hearts, req.Stamina)
	})
}

// HandleGetPool returns the party pool
// @Summary Get an expedition's party pool
// @Tags expedition
// @Produce json
// @Param id query string true "Expedition ID"
// @Success 200 {object} domain.PartyPool
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/expedition/pool [get]
func (h *ExpeditionHandler) HandleGetPool(w http.ResponseWriter, r *http.Request) {
	expeditionID, ok := GetUUIDQueryParam(r, w, QueryParamID)
	if !ok {
		return
	}

	pool, err := h.service.GetPool(r.Context(), expeditionID)
	if err != nil {
		respondServiceError(w, r, OpGetPool, err)
		return
	}
	respondJSON(w, http.StatusOK, pool)
}

// HandleGetJournal returns the raid outcomes recorded for an expedition
// @Summary Get an expedition's raid journal
// @Tags expedition
// @Produce json
// @Param id query string true "Expedition ID"
// @Success 200 {object} JournalResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/expedition/journal [get]
func (h *ExpeditionHandler) HandleGetJournal(w http.ResponseWriter, r *http.Request) {
	expeditionID, ok := GetUUIDQueryParam(r, w, QueryParamID)
	if !ok {
		return
	}

	entries, err := h.service.GetJournal(r.Context(), expeditionID)
	if err != nil {
		respondServiceError(w, r, OpGetJournal, err)
		return
	}
	if entries == nil {
		entries = []domain.RaidOutcomeRecord{}
	}
	respondJSON(w, http.StatusOK, JournalResponse{ExpeditionID: expeditionID, Entries: entries})
}
