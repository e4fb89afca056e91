// Package platform bridges serverless invocation models to the gin engine.
// A front-end turns its native event into a RawRequest, Adapter dispatches
// it and the front-end writes the RawResponse back.
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/wmsbridge/backend/internal/infrastructure/logger"
	"github.com/wmsbridge/backend/internal/interfaces/http/dto"
)

const defaultHost = "localhost"

// RawRequest is a request as received from the hosting platform.
type RawRequest struct {
	Method string
	// Path may carry a query string after the first '?'.
	Path   string
	Header http.Header
	Body   io.Reader
	// ContentLength is the declared body length. Only that many bytes are
	// read; a negative value reads nothing.
	ContentLength int64
}

// RawResponse is the captured answer of the engine.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Handler dispatches raw platform requests.
type Handler interface {
	Handle(ctx context.Context, req RawRequest) RawResponse
}

// Adapter implements Handler on top of an http.Handler.
type Adapter struct {
	next   http.Handler
	logger *zap.Logger
}

// NewAdapter creates a new Adapter dispatching to next.
func NewAdapter(next http.Handler, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{next: next, logger: log}
}

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodOptions: true,
}

// Handle dispatches req. It never returns an error: unsupported verbs get
// 501 and any panic becomes the fixed 500 body.
func (a *Adapter) Handle(ctx context.Context, req RawRequest) (resp RawResponse) {
	if !supportedMethods[req.Method] {
		return jsonResponse(http.StatusNotImplemented,
			dto.NewErrorResponse(fmt.Sprintf("Unsupported method ('%s')", req.Method)))
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.ForContext(ctx, a.logger).Error("Request dispatch failed",
				zap.String("method", req.Method),
				zap.String("path", req.Path),
				zap.Any("error", rec),
				zap.Stack("stacktrace"),
			)
			resp = internalError()
		}
	}()

	httpReq, err := buildRequest(ctx, req)
	if err != nil {
		logger.ForContext(ctx, a.logger).Error("Request could not be rebuilt",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		return internalError()
	}

	w := newResponseBuffer()
	a.next.ServeHTTP(w, httpReq)
	return w.result()
}

// buildRequest copies method, path, query, headers and the declared body
// bytes into an *http.Request.
func buildRequest(ctx context.Context, req RawRequest) (*http.Request, error) {
	body, err := readBody(req.Body, req.ContentLength)
	if err != nil {
		return nil, err
	}

	path, query, _ := strings.Cut(req.Path, "?")
	if path == "" {
		path = "/"
	}

	host := defaultHost
	if h := req.Header.Get("Host"); h != "" {
		host = h
	}
	target := "https://" + host + path
	if query != "" {
		target += "?" + query
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for key, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Host = host
	httpReq.ContentLength = int64(len(body))
	httpReq.RequestURI = httpReq.URL.RequestURI()
	return httpReq, nil
}

func readBody(r io.Reader, length int64) ([]byte, error) {
	if r == nil || length <= 0 {
		return []byte{}, nil
	}
	body, err := io.ReadAll(io.LimitReader(r, length))
	if err != nil {
		return nil, fmt.Errorf("platform: read body: %w", err)
	}
	return body, nil
}

func jsonResponse(status int, body any) RawResponse {
	raw, _ := json.Marshal(body)
	return RawResponse{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       raw,
	}
}

func internalError() RawResponse {
	return jsonResponse(http.StatusInternalServerError, dto.NewErrorResponse(dto.MsgInternalServerError))
}

// responseBuffer captures what the engine writes.
type responseBuffer struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: make(http.Header), status: http.StatusOK}
}

func (w *responseBuffer) Header() http.Header {
	return w.header
}

func (w *responseBuffer) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.status = status
	w.wroteHeader = true
}

func (w *responseBuffer) Write(p []byte) (int, error) {
	w.wroteHeader = true
	return w.body.Write(p)
}

func (w *responseBuffer) result() RawResponse {
	return RawResponse{
		StatusCode: w.status,
		Header:     w.header.Clone(),
		Body:       w.body.Bytes(),
	}
}
