package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// APIClient talks to the raid HTTP API
type APIClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string

	maxRetries int
	retryDelay time.Duration
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: ClientTimeout,
		},
		APIKey:     apiKey,
		maxRetries: ClientMaxRetries,
		retryDelay: ClientRetryDelay,
	}
}

// APIError is a non-2xx answer from the API
type APIError struct {
	StatusCode int
	Message    string
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %s", e.Message)
}

// raidActionRequest mirrors the API's raid/character body
type raidActionRequest struct {
	RaidID      string `json:"raid_id"`
	CharacterID string `json:"character_id"`
}

// JoinResult is the API answer to a join
type JoinResult struct {
	Message     string                  `json:"message"`
	Participant *domain.RaidParticipant `json:"participant"`
}

// LeaveResult is the API answer to a leave
type LeaveResult struct {
	Message string `json:"message"`
	domain.LeaveResult
}

// RetreatResult is the API answer to a retreat
type RetreatResult struct {
	Message string       `json:"message"`
	Raid    *domain.Raid `json:"raid"`
}

type activeRaids struct {
	Raids []*domain.Raid `json:"raids"`
	Count int            `json:"count"`
}

// doRequest sends the request and decodes a 2xx body into out. 5xx answers
// and transport errors are retried with exponential backoff; 4xx answers are
// returned at once as *APIError.
func (c *APIClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody []byte
	if body != nil {
		var err error
		if reqBody, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	target := c.BaseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<uint(attempt-1))
			slog.Info(LogMsgRetryingRequest, "attempt", attempt, "path", path, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(reqBody))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn(LogMsgRequestFailed, "error", err, "attempt", attempt)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			lastErr = readAPIError(resp)
			resp.Body.Close()
			slog.Warn(LogMsgServerErrorRetry, "status", resp.StatusCode, "attempt", attempt)
			continue
		}

		err = decodeResponse(resp, out)
		resp.Body.Close()
		return err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func decodeResponse(resp *http.Response, out interface{}) error {
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func readAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		apiErr.Message = errResp.Error
	}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
		apiErr.RetryAfter = time.Duration(secs) * time.Second
	}
	return apiErr
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// JoinRaid adds the character to the raid
func (c *APIClient) JoinRaid(ctx context.Context, raidID, characterID uuid.UUID) (*JoinResult, error) {
	var out JoinResult
	if err := c.doRequest(ctx, http.MethodPost, PathRaidJoin, newRaidActionRequest(raidID, characterID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TakeTurn attacks with the character
func (c *APIClient) TakeTurn(ctx context.Context, raidID, characterID uuid.UUID) (*domain.BattleResult, error) {
	var out domain.BattleResult
	if err := c.doRequest(ctx, http.MethodPost, PathRaidTurn, newRaidActionRequest(raidID, characterID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LeaveRaid removes the character from a village raid
func (c *APIClient) LeaveRaid(ctx context.Context, raidID, characterID uuid.UUID) (*LeaveResult, error) {
	var out LeaveResult
	if err := c.doRequest(ctx, http.MethodPost, PathRaidLeave, newRaidActionRequest(raidID, characterID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RetreatRaid ends the raid as fled on the character's behalf
func (c *APIClient) RetreatRaid(ctx context.Context, raidID, characterID uuid.UUID) (*RetreatResult, error) {
	var out RetreatResult
	if err := c.doRequest(ctx, http.MethodPost, PathRaidRetreat, newRaidActionRequest(raidID, characterID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSummary returns the raid digest
func (c *APIClient) GetSummary(ctx context.Context, raidID uuid.UUID) (*domain.RaidSummary, error) {
	var out domain.RaidSummary
	if err := c.doRequest(ctx, http.MethodGet, withID(PathRaidSummary, raidID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActive returns every active raid
func (c *APIClient) ListActive(ctx context.Context) ([]*domain.Raid, error) {
	var out activeRaids
	if err := c.doRequest(ctx, http.MethodGet, PathRaidActive, nil, &out); err != nil {
		return nil, err
	}
	return out.Raids, nil
}

// Healthy reports whether the API answers its liveness probe
func (c *APIClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+PathHealthz, nil)
	if err != nil {
		return false
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func newRaidActionRequest(raidID, characterID uuid.UUID) raidActionRequest {
	return raidActionRequest{RaidID: raidID.String(), CharacterID: characterID.String()}
}

func withID(path string, id uuid.UUID) string {
	return path + "?" + url.Values{"id": {id.String()}}.Encode()
}
