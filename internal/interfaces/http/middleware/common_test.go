package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wmsbridge/backend/internal/infrastructure/logger"
)

func newCORSRouter(cfg CORSConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSWithConfig(cfg))
	router.POST("/api/auth", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestCORSWithConfig(t *testing.T) {
	whitelist := CORSConfig{
		AllowOrigins:     []string{"https://app.example.com"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
	}

	tests := []struct {
		name            string
		cfg             CORSConfig
		method          string
		origin          string
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
	}{
		{"wildcard post", DefaultCORSConfig(), http.MethodPost, "https://any.example.com", http.StatusOK, "*", ""},
		{"wildcard preflight", DefaultCORSConfig(), http.MethodOptions, "https://any.example.com", http.StatusNoContent, "*", ""},
		{"allowed origin", whitelist, http.MethodPost, "https://app.example.com", http.StatusOK, "https://app.example.com", "true"},
		{"allowed preflight", whitelist, http.MethodOptions, "https://app.example.com", http.StatusNoContent, "https://app.example.com", "true"},
		{"disallowed origin", whitelist, http.MethodPost, "https://evil.example.com", http.StatusOK, "", ""},
		{"disallowed preflight still 204", whitelist, http.MethodOptions, "https://evil.example.com", http.StatusNoContent, "", ""},
		{"no origins configured", CORSConfig{}, http.MethodPost, "https://app.example.com", http.StatusOK, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newCORSRouter(tt.cfg)
			req := httptest.NewRequest(tt.method, "/api/auth", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAllowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, w.Header().Get("Access-Control-Allow-Credentials"))
			if tt.wantAllowOrigin != "" {
				assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
			}
		})
	}
}

func TestCORSWithConfig_PreflightForUnknownRoute(t *testing.T) {
	router := newCORSRouter(DefaultCORSConfig())
	req := httptest.NewRequest(http.MethodOptions, "/api/orderSearch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestDefaultCORSConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.ElementsMatch(t, []string{"GET", "POST", "OPTIONS"}, cfg.AllowMethods)
	assert.Contains(t, cfg.AllowHeaders, "Content-Type")
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var gotGin, gotCtx string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/api/ping", func(c *gin.Context) {
		gotGin = GetRequestID(c)
		gotCtx = logger.GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates uuid", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, gotGin)
		assert.Equal(t, id, gotCtx)
	})

	t.Run("propagates inbound id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc-123", gotCtx)
	})

	t.Run("truncates oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("a", 500))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), MaxRequestIDLength)
	})
}
