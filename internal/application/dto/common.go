package dto

// ErrorResponse cuerpo de error HTTP.
// Error lleva el detalle técnico (detalle/hint de PostgreSQL) cuando existe.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Store   string `json:"store"`
}
