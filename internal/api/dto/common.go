package dto

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusResponse is the bare success envelope for operations with no payload.
type StatusResponse struct {
	Status string `json:"status"`
}

func Success() StatusResponse {
	return StatusResponse{Status: StatusSuccess}
}

// ErrorResponse is the uniform error envelope. Error carries the raw detail
// and is omitted in production; Details carries per-field validation
// messages.
type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func Error(message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Message: message}
}
