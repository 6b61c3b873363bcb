package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `i.id, i.code, i.name, i.description, i.quantity, i.deleted_at, i.created_by, i.created_at, i.updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row, extra ...any) (*entity.Item, error) {
	var it entity.Item
	var desc *string
	dest := append([]any{&it.ID, &it.Code, &it.Name, &desc, &it.Quantity, &it.DeletedAt, &it.CreatedBy, &it.CreatedAt, &it.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	it.Description = stringOrEmpty(desc)
	return &it, nil
}

// Create persiste un nuevo ítem.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, code, name, description, quantity, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, nullString(item.Description), item.Quantity,
		item.CreatedBy, item.CreatedAt, item.UpdatedAt,
	)
	return mapWriteError("insert item", err)
}

// GetByID obtiene un ítem activo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = $1 AND i.deleted_at IS NULL`
	it, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetDetail obtiene un ítem activo con los datos de su creador.
func (r *ItemRepo) GetDetail(ctx context.Context, id string) (*repository.ItemDetail, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT ` + itemColumns + `, u.username, u.name
		FROM items i
		LEFT JOIN users u ON u.id = i.created_by
		WHERE i.id = $1 AND i.deleted_at IS NULL`
	var username, name *string
	it, err := scanItem(r.q.QueryRow(ctx, query, id), &username, &name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item detail: %w", err)
	}
	return &repository.ItemDetail{
		Item:    *it,
		Creator: &repository.UserRef{ID: it.CreatedBy, Username: stringOrEmpty(username), Name: stringOrEmpty(name)},
	}, nil
}

// List busca ítems activos por subcadena (sensible a mayúsculas) en nombre o código.
func (r *ItemRepo) List(ctx context.Context, search string) ([]*entity.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		WHERE i.deleted_at IS NULL
		  AND ($1 = '' OR strpos(i.name, $1) > 0 OR strpos(i.code, $1) > 0)
		ORDER BY i.created_at DESC, i.id DESC`
	rows, err := r.q.Query(ctx, query, search)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update actualiza código, nombre y descripción de un ítem activo.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET code = $2, name = $3, description = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`
	tag, err := r.q.Exec(ctx, query, item.ID, item.Code, item.Name, nullString(item.Description), item.UpdatedAt)
	if err != nil {
		return mapWriteError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LockForUpdate bloquea las filas (SELECT FOR UPDATE) en orden de ID para evitar deadlocks.
func (r *ItemRepo) LockForUpdate(ctx context.Context, ids []string, includeArchived bool) (map[string]*entity.Item, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			valid = append(valid, id)
		}
	}
	out := make(map[string]*entity.Item, len(valid))
	if len(valid) == 0 {
		return out, nil
	}
	sort.Strings(valid)
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		WHERE i.id = ANY($1::uuid[]) AND ($2 OR i.deleted_at IS NULL)
		ORDER BY i.id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, valid, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("lock items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out[it.ID] = it
	}
	return out, rows.Err()
}

// AdjustQuantity suma delta a la cantidad. El CHECK quantity >= 0 de la tabla es la última defensa.
func (r *ItemRepo) AdjustQuantity(ctx context.Context, id string, delta int, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET quantity = quantity + $2, updated_at = $3 WHERE id = $1`, id, delta, at)
	if err != nil {
		return mapWriteError("adjust quantity", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// HasReferences indica si alguna línea de transacción referencia el ítem.
func (r *ItemRepo) HasReferences(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transaction_lines WHERE item_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("item references: %w", err)
	}
	return exists, nil
}

// Archive marca el ítem con deleted_at (soft delete).
func (r *ItemRepo) Archive(ctx context.Context, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE items SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("archive item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el ítem (hard delete).
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	return mapWriteError("delete item", err)
}
