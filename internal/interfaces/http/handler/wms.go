package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	wmsapp "github.com/wmsbridge/backend/internal/application/wms"
	"github.com/wmsbridge/backend/internal/interfaces/http/dto"
)

// WMSService is the application service behind the WMS endpoints.
type WMSService interface {
	Authenticate(ctx context.Context, req wmsapp.AuthenticateRequest) *wmsapp.AuthenticateResult
	SearchOrders(ctx context.Context, req wmsapp.SearchOrdersRequest) *wmsapp.SearchOrdersResult
}

// WMSHandler serves the auth and order search endpoints.
type WMSHandler struct {
	BaseHandler
	service WMSService
}

// NewWMSHandler creates a new WMSHandler
func NewWMSHandler(service WMSService) *WMSHandler {
	return &WMSHandler{service: service}
}

// Auth handles POST /api/auth with body {"org": "..."}.
func (h *WMSHandler) Auth(c *gin.Context) {
	fields, err := readJSONObject(c)
	if err != nil {
		h.TooLarge(c)
		return
	}

	result := h.service.Authenticate(c.Request.Context(), wmsapp.AuthenticateRequest{
		Org: stringField(fields, "org"),
	})
	if !result.Success {
		h.Fail(c, result.Error)
		return
	}
	h.OK(c, dto.NewTokenResponse(result.Token))
}

// OrderSearch handles POST /api/orderSearch with body
// {"org": "...", "token": "...", "workOrderInput": "..."}.
func (h *WMSHandler) OrderSearch(c *gin.Context) {
	fields, err := readJSONObject(c)
	if err != nil {
		h.TooLarge(c)
		return
	}

	result := h.service.SearchOrders(c.Request.Context(), wmsapp.SearchOrdersRequest{
		Org:            stringField(fields, "org"),
		Token:          stringField(fields, "token"),
		WorkOrderInput: stringField(fields, "workOrderInput"),
	})
	if !result.Success {
		h.OK(c, dto.NewUpstreamErrorResponse(result.Error, result.Status))
		return
	}
	h.OK(c, dto.NewDataResponse(result.Data))
}
