// Package handler holds the gin handlers of the bridge API.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wmsbridge/backend/internal/interfaces/http/dto"
)

// errBodyTooLarge is returned by readJSONObject when the body limit was hit.
var errBodyTooLarge = errors.New("request body too large")

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// OK sends a 200 response. Every API answer uses 200 and carries its
// outcome in the success field.
func (h *BaseHandler) OK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}

// Fail sends a 200 response with success=false.
func (h *BaseHandler) Fail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.NewErrorResponse(message))
}

// TooLarge sends a 413 response.
func (h *BaseHandler) TooLarge(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.MsgRequestTooLarge))
}

// readJSONObject decodes the request body as a JSON object. An empty,
// malformed or non-object body yields an empty object.
func readJSONObject(c *gin.Context) (map[string]any, error) {
	fields := map[string]any{}
	if c.Request.Body == nil {
		return fields, nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errBodyTooLarge
		}
		return fields, nil
	}
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return map[string]any{}, nil
	}
	return fields, nil
}

// stringField returns fields[key] when it is a string, else "".
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}
