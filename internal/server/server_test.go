package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
	"github.com/osse101/BrandishRaid_Go/internal/raid"
)

// stubRaids answers ListActive and GetRaid; anything else panics
type stubRaids struct {
	raid.Service
	active []*domain.Raid
}

func (s *stubRaids) ListActive(context.Context) ([]*domain.Raid, error) {
	return s.active, nil
}

func (s *stubRaids) GetRaid(_ context.Context, id uuid.UUID) (*domain.Raid, error) {
	for _, r := range s.active {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrRaidNotFound
}

const testAPIKey = "test-key"

func newTestRouter(raids raid.Service) http.Handler {
	return NewRouter(testAPIKey, nil, Deps{RaidService: raids})
}

func TestRouter_PublicProbes(t *testing.T) {
	router := newTestRouter(&stubRaids{})

	for _, path := range []string{"/healthz", "/readyz", "/version", "/metrics"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, HeaderValueNoSniff, rec.Header().Get(HeaderContentType))
		})
	}
}

func TestRouter_RaidRoutes(t *testing.T) {
	active := &domain.Raid{ID: uuid.New(), Status: domain.RaidStatusActive, Monster: domain.Monster{Name: "Lynel"}}
	router := newTestRouter(&stubRaids{active: []*domain.Raid{active}})

	get := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set(HeaderAPIKey, key)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	t.Run("requires the api key", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, get("/api/v1/raid/active", "").Code)
	})

	t.Run("lists active raids", func(t *testing.T) {
		rec := get("/api/v1/raid/active", testAPIKey)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Lynel")
		assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	})

	t.Run("gets a raid by id", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get("/api/v1/raid/get?id="+active.ID.String(), testAPIKey).Code)
		assert.Equal(t, http.StatusNotFound, get("/api/v1/raid/get?id="+uuid.NewString(), testAPIKey).Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/raid/turn", nil)
		req.Header.Set(HeaderAPIKey, testAPIKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}
