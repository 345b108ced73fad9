package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"receita-facil/internal/core/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(), Logger())
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	w := perform(r, http.MethodGet, "/panic", "", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	require.Equal(t, http.StatusNoContent, perform(r, http.MethodPost, "/", "small", nil).Code)
	require.Equal(t, http.StatusRequestEntityTooLarge, perform(r, http.MethodPost, "/", "way too large", nil).Code)
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Minute)
	t.Cleanup(d.Close)

	r := gin.New()
	r.Use(d.Middleware())
	r.POST("/gen", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/gen", func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/gen", `{"a":1}`, nil).Code)
	require.Equal(t, http.StatusTooManyRequests, perform(r, http.MethodPost, "/gen", `{"a":1}`, nil).Code)
	require.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/gen", `{"a":2}`, nil).Code)
	require.Equal(t, http.StatusOK, perform(r, http.MethodPost, "/gen", `{"a":1}`, map[string]string{"Authorization": "Bearer other"}).Code)

	require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/gen", "", nil).Code)
	require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/gen", "", nil).Code)
}

func TestDeduplicationWindowExpires(t *testing.T) {
	d := NewDeduplicator(time.Second)
	t.Cleanup(d.Close)

	now := time.Now()
	d.now = func() time.Time { return now }
	require.False(t, d.seen("k"))
	require.True(t, d.seen("k"))

	now = now.Add(2 * time.Second)
	require.False(t, d.seen("k"))

	now = now.Add(time.Hour)
	d.cleanup()
	require.Empty(t, d.requests)
}

func TestDeduplicatorClose(t *testing.T) {
	d := NewDeduplicator(time.Second)
	d.Close()
	d.Close()

	select {
	case <-d.done:
	default:
		t.Fatal("cleanup loop still running after Close")
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(2, time.Hour))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "", nil).Code)
	require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "", nil).Code)

	w := perform(r, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "3600", w.Header().Get("Retry-After"))
}

func TestRateLimiterPerKey(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	require.True(t, rl.Allow("a"))
	require.False(t, rl.Allow("a"))
	require.True(t, rl.Allow("b"))
}

type stubVerifier struct{}

func (stubVerifier) Verify(raw string) (*auth.User, error) {
	if raw != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.User{ID: "u1", Plan: "free"}, nil
}

func TestRequireAuth(t *testing.T) {
	r := gin.New()
	r.Use(RequireAuth(stubVerifier{}))
	r.GET("/me", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		fromCtx, ok := auth.UserFromContext(c.Request.Context())
		require.True(t, ok)
		require.Equal(t, u, fromCtx)
		c.String(http.StatusOK, u.ID+":"+c.GetString(AccessTokenKey))
	})

	w := perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u1:good", w.Body.String())

	w = perform(r, http.MethodGet, "/me", "", map[string]string{"Authorization": "Bearer bad"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "UNAUTHORIZED")

	require.Equal(t, http.StatusUnauthorized, perform(r, http.MethodGet, "/me", "", nil).Code)
}

func TestTimeoutSetsDeadline(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(50 * time.Millisecond))
	r.GET("/", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		c.Status(http.StatusOK)
	})

	require.Equal(t, http.StatusOK, perform(r, http.MethodGet, "/", "", nil).Code)
}
