package platform

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler adapts h to API Gateway HTTP API (payload v2) events.
type LambdaHandler struct {
	handler Handler
}

// NewLambdaHandler creates a new LambdaHandler
func NewLambdaHandler(h Handler) *LambdaHandler {
	return &LambdaHandler{handler: h}
}

// Invoke handles one API Gateway event. Errors are only returned for
// events that cannot be decoded.
func (l *LambdaHandler) Invoke(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return events.APIGatewayV2HTTPResponse{}, fmt.Errorf("platform: decode base64 body: %w", err)
		}
		body = decoded
	}

	header := make(http.Header, len(event.Headers))
	for key, value := range event.Headers {
		header.Set(key, value)
	}
	if len(event.Cookies) > 0 {
		header.Set("Cookie", strings.Join(event.Cookies, "; "))
	}
	if host := event.RequestContext.DomainName; host != "" && header.Get("Host") == "" {
		header.Set("Host", host)
	}

	path := event.RawPath
	if path == "" {
		path = event.RequestContext.HTTP.Path
	}
	if event.RawQueryString != "" {
		path += "?" + event.RawQueryString
	}

	resp := l.handler.Handle(ctx, RawRequest{
		Method:        event.RequestContext.HTTP.Method,
		Path:          path,
		Header:        header,
		Body:          bytes.NewReader(body),
		ContentLength: int64(len(body)),
	})
	return toLambdaResponse(resp), nil
}

func toLambdaResponse(resp RawResponse) events.APIGatewayV2HTTPResponse {
	out := events.APIGatewayV2HTTPResponse{
		StatusCode:        resp.StatusCode,
		Headers:           make(map[string]string, len(resp.Header)),
		MultiValueHeaders: make(map[string][]string),
	}
	for key, values := range resp.Header {
		if key == "Set-Cookie" {
			out.Cookies = append(out.Cookies, values...)
			continue
		}
		out.Headers[key] = strings.Join(values, ", ")
		if len(values) > 1 {
			out.MultiValueHeaders[key] = values
		}
	}
	if utf8.Valid(resp.Body) {
		out.Body = string(resp.Body)
	} else {
		out.Body = base64.StdEncoding.EncodeToString(resp.Body)
		out.IsBase64Encoded = true
	}
	return out
}
