package wms

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wmsbridge/backend/internal/domain/wms"
)

// newValidator builds a validator reporting fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Normalize trims every field in place.
func (r *AuthenticateRequest) Normalize() {
	r.Org = strings.TrimSpace(r.Org)
}

// Normalize trims every field in place.
func (r *SearchOrdersRequest) Normalize() {
	r.Org = strings.TrimSpace(r.Org)
	r.Token = strings.TrimSpace(r.Token)
	r.WorkOrderInput = strings.TrimSpace(r.WorkOrderInput)
}

// validateAuth returns ErrOrgRequired when the org is missing.
func (s *Service) validateAuth(req *AuthenticateRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", wms.ErrOrgRequired, err)
	}
	return nil
}

// validateSearch returns the sentinel of the first missing field. Missing
// org or token is reported before missing input.
func (s *Service) validateSearch(req *SearchOrdersRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", wms.ErrOrgRequired, err)
	}
	var inputErr error
	for _, fe := range verrs {
		switch fe.Field() {
		case "org":
			return fmt.Errorf("%w: %v", wms.ErrOrgRequired, fe)
		case "token":
			return fmt.Errorf("%w: %v", wms.ErrTokenRequired, fe)
		case "workOrderInput":
			inputErr = fmt.Errorf("%w: %v", wms.ErrWorkOrderInputRequired, fe)
		}
	}
	if inputErr == nil {
		return fmt.Errorf("%w: %v", wms.ErrOrgRequired, err)
	}
	return inputErr
}

// failureMessage maps a domain error to its user-visible message. Errors
// without a fixed message return "".
func failureMessage(err error) string {
	switch {
	case errors.Is(err, wms.ErrOrgRequired), errors.Is(err, wms.ErrTokenRequired):
		return MsgOrgAndTokenRequired
	case errors.Is(err, wms.ErrWorkOrderInputRequired):
		return MsgWorkOrderRequired
	case errors.Is(err, wms.ErrNoWorkOrderIDs):
		return MsgNoWorkOrderIDs
	case errors.Is(err, wms.ErrCredentialsMissing):
		return MsgCredentialsMissing
	default:
		return ""
	}
}
