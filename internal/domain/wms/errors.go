package wms

import (
	"errors"
	"fmt"
)

var (
	ErrCredentialsMissing      = errors.New("wms: MANHATTAN_PASSWORD and MANHATTAN_SECRET must be set")
	ErrOrgRequired             = errors.New("wms: org is required")
	ErrTokenRequired           = errors.New("wms: token is required")
	ErrWorkOrderInputRequired  = errors.New("wms: work order input is required")
	ErrNoWorkOrderIDs          = errors.New("wms: no work order ids in input")
	ErrNoToken                 = errors.New("wms: no access token issued")
	ErrUpstreamUnavailable     = errors.New("wms: upstream unavailable")
	ErrUpstreamInvalidResponse = errors.New("wms: invalid upstream response")
)

// UpstreamError reports a non-2xx answer from the order search endpoint.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("wms: upstream returned HTTP %d: %s", e.StatusCode, e.Message)
}
