package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-tracker/internal/config"
	"github.com/comitanigiacomo/kanso-tracker/internal/core/domain"
)

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Port:    "0",
		DataDir: dir,
		Database: config.Database{
			Driver: config.DriverSQLite,
			Path:   filepath.Join(dir, "habit-tracker.db"),
		},
		RateLimit:            1000,
		RateWindow:           time.Minute,
		TokenTTL:             time.Hour,
		NotificationsGranted: true,
		Location:             time.UTC,
	}
}

func request(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEnd_HabitLifecycle(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	ctx := context.Background()

	srv, err := newServer(ctx, cfg, newRegistry())
	require.NoError(t, err)

	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	srv.start(workerCtx)

	var habitID int64
	today := time.Now().UTC().Format(domain.DateLayout)

	t.Run("1. Create Habit", func(t *testing.T) {
		w := request(t, srv.router, http.MethodPost, "/api/v1/habits", map[string]any{
			"name":        "Morning Run",
			"color":       "#10b981",
			"target_days": []int{1, 3, 5},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var h domain.Habit
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &h))
		habitID = h.ID
		assert.Positive(t, habitID)
	})

	t.Run("2. Complete it today", func(t *testing.T) {
		w := request(t, srv.router, http.MethodPut, fmt.Sprintf("/api/v1/habits/%d/entries/today", habitID), map[string]any{
			"completed": true,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = request(t, srv.router, http.MethodGet, "/api/v1/today", nil)
		assert.Contains(t, w.Body.String(), "1 of 1 habits completed today")
	})

	t.Run("3. Entries are indexed by date in the store", func(t *testing.T) {
		w := request(t, srv.router, http.MethodGet, "/api/v1/entries?date="+today, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var entries []domain.HabitEntry
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, habitID, entries[0].HabitID)
	})

	t.Run("4. Health reports the store", func(t *testing.T) {
		w := request(t, srv.router, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"connected"`)
	})

	t.Run("5. Restart keeps state", func(t *testing.T) {
		srv.backend.Close()

		restarted, err := newServer(ctx, cfg, newRegistry())
		require.NoError(t, err)
		srv = restarted

		w := request(t, srv.router, http.MethodGet, "/api/v1/habits", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var cards []domain.HabitCard
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
		require.Len(t, cards, 1)
		assert.Equal(t, 1, cards[0].Streak)
		assert.True(t, cards[0].CompletedToday)
	})

	t.Run("6. Delete Habit", func(t *testing.T) {
		w := request(t, srv.router, http.MethodDelete, fmt.Sprintf("/api/v1/habits/%d", habitID), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = request(t, srv.router, http.MethodGet, "/api/v1/entries?date="+today, nil)
		assert.Equal(t, "[]", w.Body.String())
	})

	srv.backend.Close()
}
