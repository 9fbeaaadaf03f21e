package dto

// SuccessResponse represents a standard success response for API endpoints
type SuccessResponse struct {
	Message string `json:"message"`
}

// APIResponse wraps every successful JSON payload
type APIResponse struct {
	Data  interface{}  `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the body of the health check endpoint
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}
