package manhattan

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/wmsbridge/backend/internal/domain/wms"
	"github.com/wmsbridge/backend/internal/infrastructure/logger"
)

// maxResponseSize is the maximum allowed response size from upstream (10MB)
const maxResponseSize = 10 * 1024 * 1024

// maxExcerptLength bounds upstream text copied into logs and error messages.
const maxExcerptLength = 500

const (
	formContentType = "application/x-www-form-urlencoded"
	jsonContentType = "application/json"

	instrumentationName = "github.com/wmsbridge/backend/internal/infrastructure/manhattan"

	opRequestToken = "request_token"
	opSearchOrders = "search_orders"
)

// Adapter implements wms.Platform against Manhattan Active WMS.
type Adapter struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
	tracer     trace.Tracer
	metrics    *upstreamMetrics
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the adapter logger.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithHTTPClient replaces the HTTP client built from the config.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithMeter records upstream metrics on meter instead of the global provider.
func WithMeter(meter metric.Meter) Option {
	return func(a *Adapter) {
		if meter != nil {
			a.metrics = newUpstreamMetrics(meter)
		}
	}
}

// WithTracer sets the tracer used for upstream spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(a *Adapter) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

// NewAdapter creates a new Manhattan adapter with the given configuration
func NewAdapter(config *Config, opts ...Option) (*Adapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{
		config:     config,
		httpClient: newHTTPClient(config),
		logger:     zap.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.metrics == nil {
		a.metrics = newUpstreamMetrics(otel.Meter(instrumentationName))
	}
	return a, nil
}

// newHTTPClient builds a client with the configured timeout and TLS policy.
func newHTTPClient(config *Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.InsecureSkipVerify {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // upstream certificates are not verifiable
	}
	return &http.Client{
		Timeout:   config.Timeout(),
		Transport: transport,
	}
}

// ---------------------------------------------------------------------------
// Token
// ---------------------------------------------------------------------------

// RequestToken exchanges the org credentials for a bearer token.
// Every failure is reported as wms.ErrNoToken.
func (a *Adapter) RequestToken(ctx context.Context, org wms.Org) (string, error) {
	log := logger.ForContext(ctx, a.logger).With(zap.String("component", "wms.token"), zap.String("org", org.String()))

	creds := a.config.Credentials
	if err := creds.Validate(); err != nil {
		log.Warn("Token request skipped: credentials missing",
			zap.Bool("password_set", creds.HasPassword()),
			zap.Bool("secret_set", creds.HasSecret()),
		)
		return "", fmt.Errorf("%w: %w", wms.ErrNoToken, err)
	}

	ctx, span := a.tracer.Start(ctx, "wms.RequestToken",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("wms.org", org.Organization())),
	)
	defer span.End()
	start := time.Now()

	tokenURL := a.config.TokenURL()
	username := org.Username()
	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", creds.Password())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", a.tokenFailure(ctx, span, start, fmt.Errorf("%w: failed to create request: %v", wms.ErrNoToken, err))
	}
	req.Header.Set("Content-Type", formContentType)
	req.SetBasicAuth(a.config.ClientID, creds.ClientSecret())

	log.Info("Requesting access token", zap.String("url", tokenURL), zap.String("username", username))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Warn("Token request failed", zap.Error(err))
		return "", a.tokenFailure(ctx, span, start, fmt.Errorf("%w: %w: %v", wms.ErrNoToken, wms.ErrUpstreamUnavailable, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	log.Info("Token response received", zap.Int("status", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Warn("Token response could not be read", zap.Error(err))
		return "", a.tokenFailure(ctx, span, start, fmt.Errorf("%w: failed to read response: %v", wms.ErrNoToken, err))
	}

	if resp.StatusCode != http.StatusOK {
		excerpt := truncate(string(body), maxExcerptLength)
		if excerpt == "" {
			excerpt = "(empty)"
		}
		log.Warn("Token request rejected", zap.Int("status", resp.StatusCode), zap.String("body", excerpt))
		return "", a.tokenFailure(ctx, span, start, fmt.Errorf("%w: HTTP %d", wms.ErrNoToken, resp.StatusCode))
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		log.Warn("Token response is not valid JSON", zap.Error(err))
		return "", a.tokenFailure(ctx, span, start, fmt.Errorf("%w: %w: %v", wms.ErrNoToken, wms.ErrUpstreamInvalidResponse, err))
	}
	if tokenResp.AccessToken == "" {
		log.Warn("Token response carries no access_token")
		return "", a.tokenFailure(ctx, span, start, fmt.Errorf("%w: access_token missing", wms.ErrNoToken))
	}

	fields := []zap.Field{zap.Int("token_length", len(tokenResp.AccessToken))}
	if exp, ok := tokenExpiry(tokenResp.AccessToken); ok {
		fields = append(fields, zap.Time("token_expires_at", exp))
	}
	log.Info("Access token received", fields...)

	a.metrics.record(ctx, opRequestToken, outcomeSuccess, time.Since(start))
	return tokenResp.AccessToken, nil
}

func (a *Adapter) tokenFailure(ctx context.Context, span trace.Span, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "token request failed")
	a.metrics.record(ctx, opRequestToken, outcomeFailure, time.Since(start))
	return err
}

// tokenExpiry reads the exp claim of a JWT access token without verifying
// its signature. Opaque tokens report false.
func tokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// ---------------------------------------------------------------------------
// Order search
// ---------------------------------------------------------------------------

// SearchOrders posts a work order query to the order search endpoint.
func (a *Adapter) SearchOrders(ctx context.Context, searchReq wms.OrderSearchRequest) (*wms.OrderSearchResult, error) {
	org := searchReq.Org
	log := logger.ForContext(ctx, a.logger).With(zap.String("component", "wms.order_search"), zap.String("org", org.String()))

	ctx, span := a.tracer.Start(ctx, "wms.SearchOrders",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("wms.org", org.Organization())),
	)
	defer span.End()
	start := time.Now()

	payload, err := json.Marshal(wms.NewOrderSearchPayload(searchReq.Query))
	if err != nil {
		return nil, a.searchFailure(ctx, span, start, fmt.Errorf("manhattan: failed to encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.OrderSearchURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, a.searchFailure(ctx, span, start, fmt.Errorf("manhattan: failed to create request: %w", err))
	}
	facilityID := org.FacilityID()
	req.Header.Set("Authorization", "Bearer "+searchReq.Token)
	req.Header.Set("Content-Type", jsonContentType)
	req.Header.Set("FacilityId", facilityID)
	req.Header.Set("selectedOrganization", org.Organization())
	req.Header.Set("selectedLocation", facilityID)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		log.Error("Order search error", zap.Error(err))
		return nil, a.searchFailure(ctx, span, start, fmt.Errorf("%w: %v", wms.ErrUpstreamUnavailable, err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Error("Order search error", zap.Error(err))
		return nil, a.searchFailure(ctx, span, start, fmt.Errorf("%w: failed to read response: %v", wms.ErrUpstreamUnavailable, err))
	}

	body, err := decodeBody(resp.Header.Get("Content-Type"), raw)
	if err != nil {
		log.Error("Order search error", zap.Error(err))
		return nil, a.searchFailure(ctx, span, start, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		upstreamErr := &wms.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(body, raw),
		}
		log.Warn("Order search rejected", zap.Int("status", resp.StatusCode))
		return nil, a.searchFailure(ctx, span, start, upstreamErr)
	}

	log.Debug("Order search completed", zap.Int("status", resp.StatusCode), zap.Int("body_size", len(raw)))
	a.metrics.record(ctx, opSearchOrders, outcomeSuccess, time.Since(start))
	return &wms.OrderSearchResult{StatusCode: resp.StatusCode, Body: body}, nil
}

func (a *Adapter) searchFailure(ctx context.Context, span trace.Span, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "order search failed")
	a.metrics.record(ctx, opSearchOrders, outcomeFailure, time.Since(start))
	return err
}

// decodeBody parses JSON answers and wraps anything else as {"raw": text}.
// decodeBody parses a JSON answer keeping numbers as json.Number so they are
// relayed with their original digits. Non-JSON answers are wrapped as raw.
func decodeBody(contentType string, raw []byte) (any, error) {
	if !strings.HasPrefix(contentType, jsonContentType) {
		return map[string]any{"raw": string(raw)}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var body any
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", wms.ErrUpstreamInvalidResponse, err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after JSON value", wms.ErrUpstreamInvalidResponse)
	}
	return body, nil
}

// errorMessage prefers the upstream message field and falls back to the
// raw text.
func errorMessage(body any, raw []byte) string {
	if doc, ok := body.(map[string]any); ok {
		switch msg := doc["message"].(type) {
		case nil:
		case string:
			return msg
		default:
			if encoded, err := json.Marshal(msg); err == nil {
				return string(encoded)
			}
		}
	}
	return truncate(string(raw), maxExcerptLength)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Compile-time interface check
var _ wms.Platform = (*Adapter)(nil)
