package dto

import "time"

// Resultados de la eliminación de un ítem.
const (
	DeleteResultArchived = "archived" // soft delete, tiene historial
	DeleteResultDeleted  = "deleted"  // hard delete, sin historial
)

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	Code        string `json:"item_code" validate:"required,min=1,max=100"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Quantity    int    `json:"quantity" validate:"gte=0,max=2147483647"`
}

// UpdateItemRequest entrada para actualizar un ítem (sin cantidad: se maneja vía transacciones).
type UpdateItemRequest struct {
	Code        *string `json:"item_code" validate:"omitempty,min=1,max=100"`
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// ItemResponse salida completa de un ítem.
type ItemResponse struct {
	ID          string           `json:"id"`
	Code        string           `json:"item_code"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity"`
	CreatedBy   *UserRefResponse `json:"created_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ItemSummary salida resumida para listados.
type ItemSummary struct {
	ID       string `json:"id"`
	Code     string `json:"item_code"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// DeleteItemResponse indica si el ítem fue archivado o eliminado.
type DeleteItemResponse struct {
	ID      string `json:"id"`
	Result  string `json:"result"`
	Message string `json:"message"`
}
