package dto

// ErrorResponse cuerpo de error HTTP.
// Fields solo se llena en errores de validación (campo → mensaje).
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// UserRefResponse datos de despliegue de un actor en respuestas.
type UserRefResponse struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}
