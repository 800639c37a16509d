package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisrepo "giveaway-bot-backend/internal/features/giveaway/repository/redis"
	"giveaway-bot-backend/internal/features/giveaway/service"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := redisrepo.NewGiveawayRepository(client, zerolog.Nop())
	giveaways := service.NewGiveawayService(repo, zerolog.Nop())
	winners := service.NewWinnerService(repo, zerolog.Nop())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(giveaways, winners).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createGiveaway(t *testing.T, router *gin.Engine) giveawayResponse {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/giveaways", gin.H{
		"guild_id":     1,
		"channel_id":   2,
		"prize":        "Nitro",
		"duration":     "1h",
		"created_by":   3,
		"winner_count": 2,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created giveawayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestCreateGiveaway(t *testing.T) {
	router := newTestRouter(t)

	created := createGiveaway(t, router)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Nitro", created.Prize)
	assert.Equal(t, 2, created.WinnerCount)
	assert.Equal(t, "active", string(created.Status))
}

func TestCreateGiveawayBadDuration(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/giveaways", gin.H{
		"guild_id":   1,
		"channel_id": 2,
		"prize":      "Nitro",
		"duration":   "soon",
		"created_by": 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEnterAndLeave(t *testing.T) {
	router := newTestRouter(t)
	created := createGiveaway(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/giveaways/%d/enter", created.ID), gin.H{"user_id": 42})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/giveaways/%d/enter", created.ID), gin.H{"user_id": 42})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already entered")

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/giveaways/%d/leave", created.ID), gin.H{"user_id": 42})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/giveaways/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got giveawayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Zero(t, got.EntryCount)
}

func TestGetNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/giveaways/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/giveaways/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActive(t *testing.T) {
	router := newTestRouter(t)
	created := createGiveaway(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/giveaways?guild_id=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []giveawayResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/giveaways?guild_id=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Empty(t, list)
}

func TestCancelThenRerollConflict(t *testing.T) {
	router := newTestRouter(t)
	created := createGiveaway(t, router)

	// Перевыбор по активному розыгрышу запрещён
	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/giveaways/%d/reroll", created.ID), gin.H{"count": 1})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/giveaways/%d/cancel", created.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/giveaways/%d/reroll", created.ID), gin.H{"count": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No entries found")
}

func TestDeleteGiveaway(t *testing.T) {
	router := newTestRouter(t)
	created := createGiveaway(t, router)

	rec := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/giveaways/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/giveaways/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
