package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/raid"
)

// RaidHandler serves /api/v1/raid
type RaidHandler struct {
	service raid.Service
}

// NewRaidHandler creates a new RaidHandler
func NewRaidHandler(service raid.Service) *RaidHandler {
	return &RaidHandler{service: service}
}

// StartRaidRequest represents a raid start request. Exactly one of village
// and expedition_id links the raid.
type StartRaidRequest struct {
	MonsterName  string `json:"monster_name" validate:"notblank,max=100,excludesall=\x00\n\r\t"`
	Tier         int    `json:"tier" validate:"min=1,max=10"`
	Hearts       int    `json:"hearts" validate:"min=1,max=10000"`
	Village      string `json:"village,omitempty" validate:"max=64,excludesall=\x00\n\r\t"`
	ExpeditionID string `json:"expedition_id,omitempty" validate:"omitempty,uuid"`
	GrottoID     string `json:"grotto_id,omitempty" validate:"max=64"`
	Trigger      string `json:"trigger,omitempty" validate:"trigger"`
	ThreadID     string `json:"thread_id,omitempty" validate:"max=64"`
	MessageID    string `json:"message_id,omitempty" validate:"max=64"`
}

func (req *StartRaidRequest) toServiceRequest() raid.StartRaidRequest {
	out := raid.StartRaidRequest{
		Monster: domain.Monster{
			Name:      req.MonsterName,
			Tier:      req.Tier,
			MaxHearts: req.Hearts,
		},
		Village:   req.Village,
		GrottoID:  req.GrottoID,
		Trigger:   domain.RaidTrigger(strings.ToLower(req.Trigger)),
		ThreadID:  req.ThreadID,
		MessageID: req.MessageID,
	}
	if req.ExpeditionID != "" {
		id := uuid.MustParse(req.ExpeditionID)
		out.ExpeditionID = &id
	}
	return out
}

// RaidActionRequest names a character acting in a raid
type RaidActionRequest struct {
	RaidID      string `json:"raid_id" validate:"required,uuid"`
	CharacterID string `json:"character_id" validate:"required,uuid"`
}

func (req *RaidActionRequest) ids() (uuid.UUID, uuid.UUID) {
	return uuid.MustParse(req.RaidID), uuid.MustParse(req.CharacterID)
}

// JoinRaidResponse is returned after joining
type JoinRaidResponse struct {
	Message     string                  `json:"message"`
	Participant *domain.RaidParticipant `json:"participant"`
}

// LeaveRaidResponse is returned after leaving
type LeaveRaidResponse struct {
	Message string `json:"message"`
	*domain.LeaveResult
}

// RetreatRaidResponse is returned after the party retreats
type RetreatRaidResponse struct {
	Message string       `json:"message"`
	Raid    *domain.Raid `json:"raid"`
}

// ActiveRaidsResponse lists active raids
type ActiveRaidsResponse struct {
	Raids []*domain.Raid `json:"raids"`
	Count int            `json:"count"`
}

// HandleStartRaid starts a raid
// @Summary Start a raid
// @Description Spawns a raid in a village or on an expedition. Village raids honor the village and global cooldowns unless the trigger bypasses them.
// @Tags raid
// @Accept json
// @Produce json
// @Param request body StartRaidRequest true "Raid details"
// @Success 201 {object} domain.Raid
// @Failure 400 {object} ValidationErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /api/v1/raid/start [post]
func (h *RaidHandler) HandleStartRaid(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpStartRaid, http.StatusCreated, func(ctx context.Context, req *StartRaidRequest) (*domain.Raid, error) {
		return h.service.StartRaid(ctx, req.toServiceRequest())
	})
}

// HandleJoinRaid adds a character to a raid
// @Summary Join a raid
// @Tags raid
// @Accept json
// @Produce json
// @Param request body RaidActionRequest true "Raid and character"
// @Success 201 {object} JoinRaidResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/raid/join [post]
func (h *RaidHandler) HandleJoinRaid(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpJoinRaid, http.StatusCreated, func(ctx context.Context, req *RaidActionRequest) (JoinRaidResponse, error) {
		raidID, characterID := req.ids()
		p, err := h.service.JoinRaid(ctx, raidID, characterID)
		if err != nil {
			return JoinRaidResponse{}, err
		}
		return JoinRaidResponse{Message: MsgRaidJoined, Participant: p}, nil
	})
}

// HandleTakeTurn resolves one attack for the character holding the turn
// @Summary Take a raid turn
// @Description Resolves the character's attack against the monster. Only the current turn holder (or a mod character) may act, once per turn.
// @Tags raid
// @Accept json
// @Produce json
// @Param request body RaidActionRequest true "Raid and character"
// @Success 200 {object} domain.BattleResult
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/raid/turn [post]
func (h *RaidHandler) HandleTakeTurn(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpTakeTurn, http.StatusOK, func(ctx context.Context, req *RaidActionRequest) (*domain.BattleResult, error) {
		raidID, characterID := req.ids()
		return h.service.TakeTurn(ctx, raidID, characterID)
	})
}

// HandleLeaveRaid removes a character from a village raid
// @Summary Leave a raid
// @Tags raid
// @Accept json
// @Produce json
// @Param request body RaidActionRequest true "Raid and character"
// @Success 200 {object} LeaveRaidResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/raid/leave [post]
func (h *RaidHandler) HandleLeaveRaid(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpLeaveRaid, http.StatusOK, func(ctx context.Context, req *RaidActionRequest) (LeaveRaidResponse, error) {
		raidID, characterID := req.ids()
		res, err := h.service.LeaveRaid(ctx, raidID, characterID)
		if err != nil {
			return LeaveRaidResponse{}, err
		}
		return LeaveRaidResponse{Message: MsgRaidLeft, LeaveResult: res}, nil
	})
}

// HandleRetreatRaid ends the raid as fled
// @Summary Retreat from a raid
// @Tags raid
// @Accept json
// @Produce json
// @Param request body RaidActionRequest true "Raid and character"
// @Success 200 {object} RetreatRaidResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/raid/retreat [post]
func (h *RaidHandler) HandleRetreatRaid(w http.ResponseWriter, r *http.Request) {
	handleAction(w, r, OpRetreatRaid, http.StatusOK, func(ctx context.Context, req *RaidActionRequest) (RetreatRaidResponse, error) {
		raidID, characterID := req.ids()
		fled, err := h.service.RetreatRaid(ctx, raidID, characterID)
		if err != nil {
			return RetreatRaidResponse{}, err
		}
		return RetreatRaidResponse{Message: MsgPartyRetreated, Raid: fled}, nil
	})
}

// HandleGetRaid returns the full raid document
// @Summary Get a raid
// @Tags raid
// @Produce json
// @Param id query string true "Raid ID"
// @Success 200 {object} domain.Raid
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/raid/get [get]
func (h *RaidHandler) HandleGetRaid(w http.ResponseWriter, r *http.Request) {
	raidID, ok := GetUUIDQueryParam(r, w, QueryParamID)
	if !ok {
		return
	}

	found, err := h.service.GetRaid(r.Context(), raidID)
	if err != nil {
		respondServiceError(w, r, OpGetRaid, err)
		return
	}
	respondJSON(w, http.StatusOK, found)
}

// HandleGetSummary returns the raid status view shown to players
// @Summary Get a raid summary
// @Tags raid
// @Produce json
// @Param id query string true "Raid ID"
// @Success 200 {object} domain.RaidSummary
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/raid/summary [get]
func (h *RaidHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	raidID, ok := GetUUIDQueryParam(r, w, QueryParamID)
	if !ok {
		return
	}

	sum, err := h.service.GetSummary(r.Context(), raidID)
	if err != nil {
		respondServiceError(w, r, OpGetSummary, err)
		return
	}
	respondJSON(w, http.StatusOK, sum)
}

// HandleListActive lists active raids
// @Summary List active raids
// @Tags raid
// @Produce json
// @Success 200 {object} ActiveRaidsResponse
// @Router /api/v1/raid/active [get]
func (h *RaidHandler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	raids, err := h.service.ListActive(r.Context())
	if err != nil {
		respondServiceError(w, r, OpListActive, err)
		return
	}
	if raids == nil {
		raids = []*domain.Raid{}
	}
	respondJSON(w, http.StatusOK, ActiveRaidsResponse{Raids: raids, Count: len(raids)})
}
