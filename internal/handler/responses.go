package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/osse101/BrandishRaid_Go/internal/cooldown"
	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/logger"
)

// Standard response types for consistent API responses

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// headers are already sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped response.
// Cooldown rejections carry a Retry-After header in whole seconds.
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)

	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Info(opName+" rejected", "status", status, "reason", err.Error())
	}

	var onCooldown cooldown.ErrOnCooldown
	if errors.As(err, &onCooldown) {
		secs := int(math.Ceil(onCooldown.Remaining.Seconds()))
		w.Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
	}

	respondError(w, status, msg)
}

// User-facing messages that differ from the domain error text
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnknownError       = "Unknown error"
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages users can act on. Rule violations are 400/403/409, missing
// records 404, exhausted retries 409 and cooldowns 429.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	var onCooldown cooldown.ErrOnCooldown
	if errors.As(err, &onCooldown) {
		return http.StatusTooManyRequests, onCooldown.Error()
	}

	switch {
	// Malformed input
	case errors.Is(err, domain.ErrInvalidMonsterSnapshot):
		return http.StatusBadRequest, domain.ErrMsgInvalidMonsterSnapshot
	case errors.Is(err, domain.ErrMissingLinkage):
		return http.StatusBadRequest, domain.ErrMsgMissingLinkage
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, domain.ErrMsgInvalidInput

	// Not allowed for this character
	case errors.Is(err, domain.ErrNotInExpedition):
		return http.StatusForbidden, domain.ErrMsgNotInExpedition
	case errors.Is(err, domain.ErrWrongVillage):
		return http.StatusForbidden, domain.ErrMsgWrongVillage
	case errors.Is(err, domain.ErrNotInRaid):
		return http.StatusForbidden, domain.ErrMsgNotInRaid
	case errors.Is(err, domain.ErrCannotLeaveExpeditionRaid):
		return http.StatusForbidden, domain.ErrMsgCannotLeaveExpedRaid
	case errors.Is(err, domain.ErrCannotStartAloneWhileKO):
		return http.StatusForbidden, domain.ErrMsgCannotStartAloneWhileKO
	case errors.Is(err, domain.ErrCharacterKnockedOut):
		return http.StatusForbidden, domain.ErrMsgCharacterKnockedOut

	// Conflicts with current state
	case errors.Is(err, domain.ErrNotYourTurn):
		return http.StatusConflict, domain.ErrMsgNotYourTurn
	case errors.Is(err, domain.ErrRaidFull):
		return http.StatusConflict, domain.ErrMsgRaidFull
	case errors.Is(err, domain.ErrAlreadyJoined):
		return http.StatusConflict, domain.ErrMsgAlreadyJoined
	case errors.Is(err, domain.ErrRaidNotActive):
		return http.StatusConflict, domain.ErrMsgRaidNotActive
	case errors.Is(err, domain.ErrExpeditionNotActive):
		return http.StatusConflict, domain.ErrMsgExpeditionNotActive
	case errors.Is(err, domain.ErrConcurrencyExhausted), errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, domain.ErrMsgConcurrencyExhausted

	// Missing records
	case errors.Is(err, domain.ErrRaidNotFound):
		return http.StatusNotFound, domain.ErrMsgRaidNotFound
	case errors.Is(err, domain.ErrCharacterNotFound):
		return http.StatusNotFound, domain.ErrMsgCharacterNotFound
	case errors.Is(err, domain.ErrExpeditionNotFound):
		return http.StatusNotFound, domain.ErrMsgExpeditionNotFound

	case errors.Is(err, domain.ErrRaidOnCooldown):
		return http.StatusTooManyRequests, domain.ErrMsgRaidOnCooldown

	case errors.Is(err, domain.ErrConnectionTimeout):
		return http.StatusServiceUnavailable, ErrMsgUnavailableError
	case errors.Is(err, domain.ErrDatabaseError):
		return http.StatusInternalServerError, ErrMsgGenericServerError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}
