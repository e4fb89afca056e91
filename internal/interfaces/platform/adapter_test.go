package platform

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type capturedRequest struct {
	method string
	path   string
	query  string
	host   string
	header http.Header
	body   string
}

// echoEngine records the dispatched request and answers 201 with a header.
func echoEngine(got *capturedRequest) http.Handler {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Any("/*path", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		*got = capturedRequest{
			method: c.Request.Method,
			path:   c.Request.URL.Path,
			query:  c.Request.URL.RawQuery,
			host:   c.Request.Host,
			header: c.Request.Header.Clone(),
			body:   string(body),
		}
		c.Header("X-Echo", "1")
		c.String(http.StatusCreated, "ok")
	})
	return engine
}

func TestAdapter_Handle_Dispatch(t *testing.T) {
	var got capturedRequest
	adapter := NewAdapter(echoEngine(&got), nil)

	body := `{"org":"acme"}`
	resp := adapter.Handle(context.Background(), RawRequest{
		Method:        http.MethodPost,
		Path:          "/api/auth?x=1&y=two",
		Header:        http.Header{"Content-Type": {"application/json"}, "Host": {"bridge.example.com"}},
		Body:          strings.NewReader(body),
		ContentLength: int64(len(body)),
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-Echo"))
	assert.Equal(t, "ok", string(resp.Body))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/auth", got.path)
	assert.Equal(t, "x=1&y=two", got.query)
	assert.Equal(t, "bridge.example.com", got.host)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.Equal(t, body, got.body)
}

func TestAdapter_Handle_BodyUpToContentLength(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		contentLength int64
		want          string
	}{
		{"exact", "abcdef", 6, "abcdef"},
		{"shorter declared length", "abcdef", 3, "abc"},
		{"zero length", "abcdef", 0, ""},
		{"negative length", "abcdef", -1, ""},
		{"longer declared length", "abc", 10, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got capturedRequest
			adapter := NewAdapter(echoEngine(&got), nil)

			adapter.Handle(context.Background(), RawRequest{
				Method:        http.MethodPost,
				Path:          "/api/orderSearch",
				Header:        http.Header{},
				Body:          strings.NewReader(tt.body),
				ContentLength: tt.contentLength,
			})

			assert.Equal(t, tt.want, got.body)
		})
	}
}

func TestAdapter_Handle_EmptyPath(t *testing.T) {
	var got capturedRequest
	adapter := NewAdapter(echoEngine(&got), nil)

	adapter.Handle(context.Background(), RawRequest{Method: http.MethodGet, Path: "?a=b", Header: http.Header{}})

	assert.Equal(t, "/", got.path)
	assert.Equal(t, "a=b", got.query)
	assert.Equal(t, defaultHost, got.host)
}

func TestAdapter_Handle_UnsupportedMethod(t *testing.T) {
	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodHead, "BREW"} {
		t.Run(method, func(t *testing.T) {
			var got capturedRequest
			adapter := NewAdapter(echoEngine(&got), nil)

			resp := adapter.Handle(context.Background(), RawRequest{Method: method, Path: "/api/auth", Header: http.Header{}})

			assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
			assert.JSONEq(t, `{"success":false,"error":"Unsupported method ('`+method+`')"}`, string(resp.Body))
			assert.Empty(t, got.method, "request must not be dispatched")
		})
	}
}

func TestAdapter_Handle_Panic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("secret internal detail")
	})
	adapter := NewAdapter(panicking, zap.New(core))

	resp := adapter.Handle(context.Background(), RawRequest{Method: http.MethodPost, Path: "/api/auth", Header: http.Header{}})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"Internal server error"}`, string(resp.Body))
	assert.NotContains(t, string(resp.Body), "secret")

	require.Equal(t, 1, logs.FilterMessage("Request dispatch failed").Len())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}

func TestAdapter_Handle_BodyReadError(t *testing.T) {
	var got capturedRequest
	adapter := NewAdapter(echoEngine(&got), nil)

	resp := adapter.Handle(context.Background(), RawRequest{
		Method:        http.MethodPost,
		Path:          "/api/auth",
		Header:        http.Header{},
		Body:          failingReader{},
		ContentLength: 10,
	})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, got.method)
}
