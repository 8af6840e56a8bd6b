package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	healthHandler  healthHandler
}

// Envelope messages returned to callers
const (
	msgInternalError   = "Internal Error"
	msgValidationError = "Validation Error"
	msgUnavailable     = "Service Unavailable"
)

// SuccessEnvelope wraps every successful response
// @Description Success response structure
type SuccessEnvelope struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:""`
	Results any    `json:"results"`
}

// ErrorEnvelope represents an error response from the API
// @Description Error response structure
type ErrorEnvelope struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Internal Error"`
}

// ValidationEnvelope carries one message per invalid request field
// @Description Validation error response structure
type ValidationEnvelope struct {
	Success bool              `json:"success" example:"false"`
	Message string            `json:"message" example:"Validation Error"`
	Errors  map[string]string `json:"errors"`
}
