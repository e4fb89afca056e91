package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(body string, limit int64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/api/auth", strings.NewReader(body))
	if limit > 0 {
		req.Body = http.MaxBytesReader(w, req.Body, limit)
	}
	c.Request = req
	return c, w
}

func TestReadJSONObject(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{"object", `{"org":"acme","n":1}`, map[string]any{"org": "acme", "n": float64(1)}},
		{"empty body", ``, map[string]any{}},
		{"malformed", `{"org":`, map[string]any{}},
		{"array", `["acme"]`, map[string]any{}},
		{"string", `"acme"`, map[string]any{}},
		{"null", `null`, map[string]any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(tt.body, 0)

			got, err := readJSONObject(c)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadJSONObject_TooLarge(t *testing.T) {
	c, _ := newTestContext(`{"org":"`+strings.Repeat("x", 64)+`"}`, 16)

	_, err := readJSONObject(c)
	assert.ErrorIs(t, err, errBodyTooLarge)
}

func TestStringField(t *testing.T) {
	fields := map[string]any{"org": "acme", "token": 42, "list": []any{"a"}, "nil": nil}

	assert.Equal(t, "acme", stringField(fields, "org"))
	assert.Equal(t, "", stringField(fields, "token"))
	assert.Equal(t, "", stringField(fields, "list"))
	assert.Equal(t, "", stringField(fields, "nil"))
	assert.Equal(t, "", stringField(fields, "missing"))
}

func TestBaseHandler_Responses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("OK", func(t *testing.T) {
		c, w := newTestContext("", 0)
		h.OK(c, gin.H{"success": true})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})

	t.Run("Fail", func(t *testing.T) {
		c, w := newTestContext("", 0)
		h.Fail(c, "ORG required")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"ORG required"}`, w.Body.String())
	})

	t.Run("TooLarge", func(t *testing.T) {
		c, w := newTestContext("", 0)
		h.TooLarge(c)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"Request body exceeds maximum allowed size"}`, w.Body.String())
		assert.True(t, c.IsAborted())
	})
}
