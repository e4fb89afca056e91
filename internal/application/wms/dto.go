package wms

// User-visible failure messages.
const (
	MsgOrgRequired         = "ORG required"
	MsgCredentialsMissing  = "Server configuration error: MANHATTAN_PASSWORD and MANHATTAN_SECRET must be set in the environment."
	MsgAuthFailed          = "Authentication failed"
	MsgOrgAndTokenRequired = "ORG and token required"
	MsgWorkOrderRequired   = "Work Order(s) required (or * for all)"
	MsgNoWorkOrderIDs      = "Enter at least one Work Order ID or * for all"
)

// AuthenticateRequest is the input of the auth operation.
type AuthenticateRequest struct {
	Org string `json:"org" validate:"required"`
}

// AuthenticateResult is the outcome of the auth operation.
type AuthenticateResult struct {
	Success bool
	Token   string
	Error   string
}

// SearchOrdersRequest is the input of the order search operation.
type SearchOrdersRequest struct {
	Org            string `json:"org" validate:"required"`
	Token          string `json:"token" validate:"required"`
	WorkOrderInput string `json:"workOrderInput" validate:"required"`
}

// SearchOrdersResult is the outcome of the order search operation.
// Status is set when the failure came from an upstream answer.
type SearchOrdersResult struct {
	Success bool
	Data    any
	Error   string
	Status  int
}

func authFailure(msg string) *AuthenticateResult {
	return &AuthenticateResult{Success: false, Error: msg}
}

func searchFailure(msg string) *SearchOrdersResult {
	return &SearchOrdersResult{Success: false, Error: msg}
}
