// Package models defines the request/response shapes of the API.
//
// Go Pattern: Models are plain structs with JSON tags for serialization.
package models

// AnalyzeResponse is returned by POST /analyze when the invoice was processed.
type AnalyzeResponse struct {
	Sum float64 `json:"sum"`
}

// ErrorResponse is the error format for all API errors.
// Document failures use the message "Failed to process PDF: <details>".
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Backend    string `json:"backend"`
	Validation string `json:"validation"`
}
