package wms

import "context"

// OrderSearchRequest carries one order search to the platform.
type OrderSearchRequest struct {
	Org   Org
	Token string
	Query string
}

// OrderSearchResult is the decoded upstream body of a successful search.
// Body is either the parsed JSON document or {"raw": text} when upstream
// did not answer with JSON.
type OrderSearchResult struct {
	StatusCode int
	Body       any
}

// Platform is the port to the upstream warehouse management system.
type Platform interface {
	// RequestToken runs the password grant for org. It returns ErrNoToken
	// (possibly wrapped) when no token could be obtained.
	RequestToken(ctx context.Context, org Org) (string, error)

	// SearchOrders forwards an order search. Non-2xx answers are returned
	// as *UpstreamError.
	SearchOrders(ctx context.Context, req OrderSearchRequest) (*OrderSearchResult, error)
}
