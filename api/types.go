package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	assetHandler   assetHandler
	contactHandler contactHandler
	adminHandler   adminHandler
	healthHandler  healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Project not found"`
	Field   string `json:"field,omitempty" example:"email"`
	Details string `json:"details,omitempty" example:"Additional error details"`
}

// ContactResponse is the body of an accepted contact submission.
type ContactResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Message received successfully"`
}

// HealthResponse reports liveness and the active content source.
type HealthResponse struct {
	Status        string `json:"status" example:"ok"`
	Source        string `json:"source" example:"database"`
	UptimeSeconds int64  `json:"uptimeSeconds"`
}
