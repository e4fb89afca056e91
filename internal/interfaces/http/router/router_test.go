package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, DefaultBasePath, r.BasePath())
	assert.Empty(t, r.registrars)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") }).
		POST("/echo", func(c *gin.Context) { c.String(http.StatusOK, "echo") })
	r.Register(group).Setup()

	tests := []struct {
		method, path string
		wantStatus   int
		wantBody     string
	}{
		{http.MethodGet, "/api/test/ping", http.StatusOK, "pong"},
		{http.MethodPost, "/api/test/echo", http.StatusOK, "echo"},
		{http.MethodPost, "/api/test/ping", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.wantStatus, w.Code, tt.method+" "+tt.path)
		if tt.wantBody != "" {
			assert.Equal(t, tt.wantBody, w.Body.String())
		}
	}
}

func TestDomainGroup_EmptyPrefix(t *testing.T) {
	engine := gin.New()

	group := NewDomainGroup("").
		GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
