package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// ParseDocumentRequest carries agreement text extracted by the caller.
type ParseDocumentRequest struct {
	SourceID string       `json:"source_id" binding:"required" example:"2025/dop15.txt"`
	Text     string       `json:"text" binding:"required" example:"ДОПОЛНИТЕЛЬНОЕ СОГЛАШЕНИЕ № 15 ..."`
	Tables   [][][]string `json:"tables"`
	Year     int          `json:"year" binding:"required" example:"2025"`
	Update   bool         `json:"update" example:"false"`
}

// --- Response Types ---

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
