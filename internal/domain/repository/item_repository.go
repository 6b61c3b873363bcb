package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// UserRef datos de despliegue de un usuario (desnormalizados en lecturas).
type UserRef struct {
	ID       string
	Username string
	Name     string
}

// ItemDetail ítem con los datos de su creador.
type ItemDetail struct {
	Item    entity.Item
	Creator *UserRef
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las lecturas devuelven (nil, nil) cuando el ítem no existe o está archivado.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetDetail(ctx context.Context, id string) (*ItemDetail, error)
	// List busca por subcadena en nombre o código; search vacío lista todos. Orden: más recientes primero.
	List(ctx context.Context, search string) ([]*entity.Item, error)
	// Update actualiza código, nombre y descripción. La cantidad no se toca aquí.
	Update(ctx context.Context, item *entity.Item) error
	// LockForUpdate bloquea las filas (SELECT FOR UPDATE) y las devuelve indexadas por ID.
	// Los IDs ausentes no aparecen en el mapa. includeArchived incluye ítems con soft delete.
	LockForUpdate(ctx context.Context, ids []string, includeArchived bool) (map[string]*entity.Item, error)
	// AdjustQuantity suma delta (positivo o negativo) a la cantidad.
	AdjustQuantity(ctx context.Context, id string, delta int, at time.Time) error
	// HasReferences indica si alguna línea de transacción referencia el ítem.
	HasReferences(ctx context.Context, id string) (bool, error)
	Archive(ctx context.Context, id string, at time.Time) error
	Delete(ctx context.Context, id string) error
}
