package controllers

// Example request/response models for Swagger documentation

// ErrorResponse is the body of every error answer
type ErrorResponse struct {
	Error string `json:"error" example:"Incidente 42 no encontrado"`
}

// ValidationErrorResponse lists the failed checks of a request
type ValidationErrorResponse struct {
	Error    string   `json:"error" example:"Datos inválidos"`
	Detalles []string `json:"detalles" example:"Campo requerido: titulo_incidente"`
}

// MessageResponse acknowledges an operation without payload
type MessageResponse struct {
	Message string `json:"message" example:"Evidencia actualizada"`
}

// CreatedResponse is returned after creating a tenant or company
type CreatedResponse struct {
	Message string `json:"message" example:"Empresa creada exitosamente"`
	ID      uint   `json:"id" example:"7"`
}

// CatalogStatus counts the cached seed catalog entries
type CatalogStatus struct {
	Secciones   int `json:"secciones" example:"9"`
	Indicadores int `json:"indicadores" example:"5"`
}

// HealthResponse is the body of the health check
type HealthResponse struct {
	Status   string        `json:"status" example:"ok"`
	Database string        `json:"database" example:"ok"`
	Catalogo CatalogStatus `json:"catalogo"`
}
