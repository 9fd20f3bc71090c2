package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/questadmin/internal/api/handler"
	"github.com/daap14/questadmin/internal/auth"
)

func TestHealthHandler_Healthy(t *testing.T) {
	// Arrange
	sessions := &mockSessions{state: auth.State{Identity: &auth.Identity{ID: "u1"}}}
	h := handler.NewHealthHandler(sessions, "0.1.0")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	env := decodeEnvelope(t, w)
	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "0.1.0", data["version"])
	session := data["session"].(map[string]any)
	assert.Equal(t, true, session["authenticated"])
	assert.Nil(t, env.Error)
	assert.NotEmpty(t, env.Meta["requestId"])
}

func TestHealthHandler_DegradedWithoutSession(t *testing.T) {
	// Arrange
	h := handler.NewHealthHandler(&mockSessions{state: auth.State{Loading: true}}, "0.1.0")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	// Act
	h.ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	var data map[string]any
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &data))
	assert.Equal(t, "degraded", data["status"])
	assert.Equal(t, true, data["session"].(map[string]any)["loading"])
}
