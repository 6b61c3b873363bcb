package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	do access
}

func copyItem(r itemRow) *entity.Item {
	it := r.Item
	return &it
}

func activeCodeTaken(st *state, code, exceptID string) bool {
	for id, r := range st.items {
		if id != exceptID && r.DeletedAt == nil && r.Code == code {
			return true
		}
	}
	return false
}

// Create inserta el ítem; el código no puede repetirse entre ítems activos.
func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.do(func(st *state) error {
		if _, ok := st.items[item.ID]; ok || activeCodeTaken(st, item.Code, "") {
			return fmt.Errorf("%w: código de ítem %q", domain.ErrDuplicate, item.Code)
		}
		if _, ok := st.users[item.CreatedBy]; !ok {
			return fmt.Errorf("%w: usuario creador %s no existe", domain.ErrConflict, item.CreatedBy)
		}
		if item.Quantity < 0 {
			return domain.ErrInsufficientStock
		}
		if item.Quantity > entity.MaxQuantity {
			return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		st.items[item.ID] = itemRow{Item: *item, seq: st.next()}
		return nil
	})
}

// GetByID devuelve el ítem activo o (nil, nil).
func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.do(func(st *state) error {
		if row, ok := st.items[id]; ok && row.DeletedAt == nil {
			out = copyItem(row)
		}
		return nil
	})
	return out, err
}

// GetDetail devuelve el ítem activo con su creador o (nil, nil).
func (r *ItemRepo) GetDetail(_ context.Context, id string) (*repository.ItemDetail, error) {
	var out *repository.ItemDetail
	err := r.do(func(st *state) error {
		row, ok := st.items[id]
		if !ok || row.DeletedAt != nil {
			return nil
		}
		out = &repository.ItemDetail{Item: row.Item, Creator: st.userRef(row.CreatedBy)}
		return nil
	})
	return out, err
}

// List filtra ítems activos por subcadena en nombre o código, más recientes primero.
func (r *ItemRepo) List(_ context.Context, search string) ([]*entity.Item, error) {
	var rows []itemRow
	err := r.do(func(st *state) error {
		for _, row := range st.items {
			if row.DeletedAt != nil {
				continue
			}
			if search != "" && !strings.Contains(row.Name, search) && !strings.Contains(row.Code, search) {
				continue
			}
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	out := make([]*entity.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, copyItem(row))
	}
	return out, nil
}

// Update actualiza código, nombre y descripción de un ítem activo.
func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.do(func(st *state) error {
		row, ok := st.items[item.ID]
		if !ok || row.DeletedAt != nil {
			return domain.ErrNotFound
		}
		if activeCodeTaken(st, item.Code, item.ID) {
			return fmt.Errorf("%w: código de ítem %q", domain.ErrDuplicate, item.Code)
		}
		row.Code, row.Name, row.Description, row.UpdatedAt = item.Code, item.Name, item.Description, item.UpdatedAt
		st.items[item.ID] = row
		return nil
	})
}

// LockForUpdate devuelve copias de los ítems pedidos; la exclusión la da la unidad de trabajo.
func (r *ItemRepo) LockForUpdate(_ context.Context, ids []string, includeArchived bool) (map[string]*entity.Item, error) {
	out := make(map[string]*entity.Item, len(ids))
	err := r.do(func(st *state) error {
		for _, id := range ids {
			row, ok := st.items[id]
			if !ok || (!includeArchived && row.DeletedAt != nil) {
				continue
			}
			out[id] = copyItem(row)
		}
		return nil
	})
	return out, err
}

// AdjustQuantity suma delta; rechaza dejar la cantidad negativa.
func (r *ItemRepo) AdjustQuantity(_ context.Context, id string, delta int, at time.Time) error {
	return r.do(func(st *state) error {
		row, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		if delta > 0 && row.Quantity > entity.MaxQuantity-delta {
			return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
		}
		if row.Quantity+delta < 0 {
			return &domain.InsufficientStockError{ItemID: id, ItemName: row.Name, Available: row.Quantity, Requested: -delta}
		}
		row.Quantity += delta
		row.UpdatedAt = at
		st.items[id] = row
		return nil
	})
}

// HasReferences indica si alguna línea de transacción apunta al ítem.
func (r *ItemRepo) HasReferences(_ context.Context, id string) (bool, error) {
	var found bool
	err := r.do(func(st *state) error {
		found = referenced(st, id)
		return nil
	})
	return found, err
}

func referenced(st *state, itemID string) bool {
	for _, lines := range st.lines {
		for _, l := range lines {
			if l.ItemID == itemID {
				return true
			}
		}
	}
	return false
}

// Archive marca el ítem como eliminado (soft delete).
func (r *ItemRepo) Archive(_ context.Context, id string, at time.Time) error {
	return r.do(func(st *state) error {
		row, ok := st.items[id]
		if !ok {
			return domain.ErrNotFound
		}
		deleted := at
		row.DeletedAt = &deleted
		row.UpdatedAt = at
		st.items[id] = row
		return nil
	})
}

// Delete elimina el ítem; falla si hay líneas que lo referencian.
func (r *ItemRepo) Delete(_ context.Context, id string) error {
	return r.do(func(st *state) error {
		if referenced(st, id) {
			return fmt.Errorf("%w: el ítem tiene transacciones", domain.ErrConflict)
		}
		delete(st.items, id)
		return nil
	})
}
