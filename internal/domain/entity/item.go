package entity

import (
	"math"
	"time"
)

// MaxQuantity tope de cantidad de un ítem o línea (columna INTEGER en PostgreSQL).
const MaxQuantity = math.MaxInt32

// Item representa un artículo físico del inventario.
// Quantity nunca es negativa; solo disminuye mediante el libro de movimientos.
// DeletedAt != nil indica archivado (soft delete) por tener historial de transacciones.
type Item struct {
	ID          string
	Code        string // código único entre ítems activos
	Name        string
	Description string
	Quantity    int
	DeletedAt   *time.Time
	CreatedBy   string // UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Active indica si el ítem no está archivado.
func (i *Item) Active() bool {
	return i.DeletedAt == nil
}
