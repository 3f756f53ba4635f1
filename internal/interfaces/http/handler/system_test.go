package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salespulse/backend/internal/infrastructure/config"
	"github.com/salespulse/backend/internal/interfaces/http/dto"
)

func newSystemRouter() *gin.Engine {
	cfg := &config.Config{}
	cfg.App.Name = "salespulse"
	cfg.App.Env = "test"

	h := NewSystemHandler(cfg)
	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestSystemHandler_Health(t *testing.T) {
	router := newSystemRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestSystemHandler_Ping(t *testing.T) {
	router := newSystemRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pong")
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	router := newSystemRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	app, ok := data["app"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "salespulse", app["name"])
}
