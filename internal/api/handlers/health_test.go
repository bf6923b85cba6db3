package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/energix/fulfillment-service/internal/api/handlers"
	"github.com/energix/fulfillment-service/internal/domain/models"
	"github.com/energix/fulfillment-service/internal/infrastructure/datastore/jsonfile"
)

func setupHealthRouter() *gin.Engine {
	store := jsonfile.NewStoreFromDataset(models.Dataset{})
	handler := handlers.NewHealthHandler(store, nil)

	router := gin.New()
	router.GET("/health", handler.Health)
	router.GET("/ready", handler.Ready)
	router.GET("/live", handler.Live)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth_AllHealthy(t *testing.T) {
	router := setupHealthRouter()

	w := get(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp handlers.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Components["datastore"])
	assert.NotContains(t, resp.Components, "cache", "disabled cache is not reported")
}

func TestReady(t *testing.T) {
	router := setupHealthRouter()

	w := get(router, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLive(t *testing.T) {
	router := setupHealthRouter()

	w := get(router, "/live")
	assert.Equal(t, http.StatusOK, w.Code)
}
