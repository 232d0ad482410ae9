package dto

import "net/http"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Status    int    `json:"status" example:"404"`
	Error     string `json:"error" example:"Not Found"`
	Message   string `json:"message" example:"Customer with id '42' was not found."`
	RequestID string `json:"request_id,omitempty" example:"7f0c7a1e-9a43-4f0e-9d6b-3f2b8c1d2e4f"`
}

// NewErrorResponse builds an error body whose error field is the reason
// phrase of status
func NewErrorResponse(status int, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		RequestID: requestID,
	}
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status  int    `json:"status" example:"200"`
	Message string `json:"message" example:"Healthy"`
}

// IndexResponse describes the service at the root URL
type IndexResponse struct {
	Name    string `json:"name" example:"Customer REST API Service"`
	Version string `json:"version" example:"1.0"`
	Paths   string `json:"paths" example:"http://localhost:8080/api/customers"`
}
