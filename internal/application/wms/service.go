// Package wms holds the application services behind the auth and order
// search endpoints. Services never return transport errors: every outcome
// is a result value carrying a success flag.
package wms

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wmsbridge/backend/internal/domain/wms"
	"github.com/wmsbridge/backend/internal/infrastructure/logger"
	"github.com/wmsbridge/backend/internal/infrastructure/telemetry"
)

// queryLogLength bounds the query excerpt written to the search log line.
const queryLogLength = 80

// Service coordinates validation and the platform calls.
type Service struct {
	platform    wms.Platform
	credentials wms.Credentials
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewService creates a new WMS application service.
func NewService(platform wms.Platform, credentials wms.Credentials, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		platform:    platform,
		credentials: credentials,
		validate:    newValidator(),
		logger:      log,
	}
}

// Authenticate obtains an access token for the org.
func (s *Service) Authenticate(ctx context.Context, req AuthenticateRequest) *AuthenticateResult {
	log := logger.ForContext(ctx, s.logger)
	req.Normalize()
	if err := s.validateAuth(&req); err != nil {
		log.Debug("Authenticate rejected", zap.Error(err))
		return authFailure(MsgOrgRequired)
	}
	org := wms.NewOrg(req.Org)
	if err := s.credentials.Validate(); err != nil {
		log.Error("Authentication refused: server credentials not configured",
			zap.String("org", org.String()),
			zap.Bool("password_set", s.credentials.HasPassword()),
			zap.Bool("secret_set", s.credentials.HasSecret()),
		)
		return authFailure(failureMessage(err))
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "wms", "authenticate",
		telemetry.SpanAttrOrg, org.Organization(),
	)
	defer span.End()

	token, err := s.platform.RequestToken(ctx, org)
	if err != nil || token == "" {
		if err == nil {
			err = wms.ErrNoToken
		}
		telemetry.RecordError(span, err)
		log.Warn("Authentication failed", zap.String("org", org.String()), zap.Error(err))
		return authFailure(MsgAuthFailed)
	}

	telemetry.SetOK(span)
	return &AuthenticateResult{Success: true, Token: token}
}

// SearchOrders validates the input, builds the query and forwards it.
func (s *Service) SearchOrders(ctx context.Context, req SearchOrdersRequest) *SearchOrdersResult {
	log := logger.ForContext(ctx, s.logger)
	req.Normalize()
	if err := s.validateSearch(&req); err != nil {
		log.Debug("Order search rejected", zap.Error(err))
		return searchFailure(failureMessage(err))
	}
	org := wms.NewOrg(req.Org)
	token := req.Token

	input := wms.ParseWorkOrderInput(req.WorkOrderInput)
	query, err := input.Query()
	if err != nil {
		return searchFailure(failureMessage(err))
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "wms", "search_orders",
		telemetry.SpanAttrOrg, org.Organization(),
		telemetry.SpanAttrFacilityID, org.FacilityID(),
		telemetry.SpanAttrWildcard, input.Wildcard,
		telemetry.SpanAttrOrderCount, len(input.OrderIDs),
	)
	defer span.End()

	log.Info("Order search",
		zap.String("org", org.String()),
		zap.Bool("wildcard", input.Wildcard),
		zap.String("query", excerpt(query, queryLogLength)),
	)

	result, err := s.platform.SearchOrders(ctx, wms.OrderSearchRequest{
		Org:   org,
		Token: token,
		Query: query,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		var upstreamErr *wms.UpstreamError
		if errors.As(err, &upstreamErr) {
			telemetry.SetAttributes(span, telemetry.SpanAttrStatusCode, upstreamErr.StatusCode)
			return &SearchOrdersResult{
				Success: false,
				Error:   upstreamErr.Message,
				Status:  upstreamErr.StatusCode,
			}
		}
		log.Error("Order search failed", zap.String("org", org.String()), zap.Error(err))
		return searchFailure(err.Error())
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrStatusCode, result.StatusCode)
	telemetry.SetOK(span)
	return &SearchOrdersResult{Success: true, Data: result.Body}
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
