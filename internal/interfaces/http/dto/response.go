package dto

// Fixed error texts produced by the HTTP boundary itself.
const (
	MsgInternalServerError = "Internal server error"
	MsgNotFound            = "Not found"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgRequestTooLarge     = "Request body exceeds maximum allowed size"
)

// TokenResponse is the success body of the auth endpoint.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// DataResponse is the success body of the order search endpoint. Data is
// the upstream document relayed as is.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// MessageResponse carries a short informational message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the failure body of every endpoint. Status is the
// upstream HTTP status when the failure came from upstream.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Status  int    `json:"status,omitempty"`
}

// NewTokenResponse creates a token response
func NewTokenResponse(token string) TokenResponse {
	return TokenResponse{Success: true, Token: token}
}

// NewDataResponse creates a data response
func NewDataResponse(data any) DataResponse {
	return DataResponse{Success: true, Data: data}
}

// NewMessageResponse creates a message response
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Success: true, Message: message}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: false, Error: message}
}

// NewUpstreamErrorResponse creates an error response carrying the upstream status
func NewUpstreamErrorResponse(message string, status int) ErrorResponse {
	return ErrorResponse{Success: false, Error: message, Status: status}
}
