package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wmsbridge/backend/internal/infrastructure/logger"
	"github.com/wmsbridge/backend/internal/interfaces/http/dto"
)

// SystemHandler serves liveness and fallback endpoints.
type SystemHandler struct {
	BaseHandler
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// Ping handles GET /api/ping.
func (h *SystemHandler) Ping(c *gin.Context) {
	h.OK(c, dto.NewMessageResponse("pong"))
}

// NotFound answers unknown routes with a JSON 404.
func (h *SystemHandler) NotFound(c *gin.Context) {
	logger.GetGinLogger(c).Debug("Route not found",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.MsgNotFound))
}

// MethodNotAllowed answers a known path requested with the wrong verb.
func (h *SystemHandler) MethodNotAllowed(c *gin.Context) {
	logger.GetGinLogger(c).Debug("Method not allowed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.MsgMethodNotAllowed))
}

// StaticFallback serves files from dir for unknown GET paths outside
// apiPrefix and falls back to dir/index.html so client-side routes resolve.
// Anything else gets the JSON 404.
func (h *SystemHandler) StaticFallback(apiPrefix, dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if !isReadMethod(c.Request.Method) || p == apiPrefix || strings.HasPrefix(p, apiPrefix+"/") {
			h.NotFound(c)
			return
		}
		candidate := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			c.File(candidate)
			return
		}
		c.File(index)
	}
}

func isReadMethod(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
