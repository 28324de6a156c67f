package handler

import (
	"solarhub/internal/domain"
	"solarhub/internal/workflow"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// CreateApplicationRequest represents the application submission body.
type CreateApplicationRequest struct {
	ProjectName     string                  `json:"project_name" binding:"required" example:"Al Quoz warehouse rooftop"`
	FacilityType    string                  `json:"facility_type" example:"Commercial"`
	Location        string                  `json:"location" example:"Al Quoz Industrial Area 3, Dubai"`
	Latitude        *float64                `json:"latitude" example:"25.1372"`
	Longitude       *float64                `json:"longitude" example:"55.2265"`
	SystemType      string                  `json:"system_type" example:"on-grid"`
	LoadProfile     string                  `json:"load_profile" example:"1,500 kWh/month"`
	Notes           string                  `json:"notes" example:"Roof access via north stairwell"`
	Status          string                  `json:"status" example:"Pending"`
	Files           domain.ApplicationFiles `json:"files"`
	UploadSessionID string                  `json:"upload_session_id" example:"4c1d5e0a-2b7f-4f0e-9a51-0f3b2d8c6e11"`
}

// SetStatusRequest represents the administrative status override body.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required" example:"Matched"`
}

// SetPhaseRequest represents the administrative phase override body.
type SetPhaseRequest struct {
	Phase string `json:"phase" binding:"required" example:"Installation"`
}

// EstimateRequest represents the body of the stateless calculators.
type EstimateRequest struct {
	LoadProfile  string `json:"load_profile" binding:"required" example:"2,400"`
	FacilityType string `json:"facility_type" example:"Residential Villa"`
	SystemType   string `json:"system_type" example:"hybrid"`
	Years        int    `json:"years" example:"10"`
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

// CatalogResponse lists the stages of a lifecycle catalog in order.
type CatalogResponse struct {
	Name     string              `json:"name" example:"application status"`
	Stages   []workflow.Progress `json:"stages"`
	Initial  string              `json:"initial" example:"Pending"`
	Terminal string              `json:"terminal" example:"Completed"`
}

// --- Generic Response Wrappers ---

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
