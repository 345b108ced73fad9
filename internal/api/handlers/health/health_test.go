package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type stats struct{}

func (stats) GetStats() map[string]interface{} { return map[string]interface{}{"size": 0} }

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthCheck(t *testing.T) {
	r := newRouter(NewHandler("1.2.3", "memory", pinger{}, stats{}))

	w := get(r, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "1.2.3", body.Version)
	require.Equal(t, "memory", body.Store)
	require.NotNil(t, body.Cache)
}

func TestReadiness(t *testing.T) {
	require.Equal(t, http.StatusOK, get(newRouter(NewHandler("v", "redis", pinger{}, nil)), "/ready").Code)

	w := get(newRouter(NewHandler("v", "redis", pinger{err: errors.New("down")}, nil)), "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "unavailable")
}

func TestLiveness(t *testing.T) {
	require.Equal(t, http.StatusOK, get(newRouter(NewHandler("v", "memory", pinger{}, nil)), "/live").Code)
}
