package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	do access
}

func usernameTaken(st *state, username, exceptID string) bool {
	for id, u := range st.users {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}

// Create inserta el usuario; username es único.
func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	return r.do(func(st *state) error {
		if _, ok := st.users[user.ID]; ok || usernameTaken(st, user.Username, "") {
			return fmt.Errorf("%w: usuario %q", domain.ErrDuplicate, user.Username)
		}
		st.users[user.ID] = userRow{User: *user, seq: st.next()}
		return nil
	})
}

// GetByID devuelve el usuario o (nil, nil).
func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(st *state) error {
		if row, ok := st.users[id]; ok {
			u := row.User
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByUsername devuelve el usuario o (nil, nil).
func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	var out *entity.User
	err := r.do(func(st *state) error {
		for _, row := range st.users {
			if row.Username == username {
				u := row.User
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List devuelve todos los usuarios, más recientes primero.
func (r *UserRepo) List(_ context.Context) ([]*entity.User, error) {
	var rows []userRow
	err := r.do(func(st *state) error {
		for _, row := range st.users {
			rows = append(rows, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]*entity.User, 0, len(rows))
	for _, row := range rows {
		u := row.User
		out = append(out, &u)
	}
	return out, nil
}

// Update reemplaza username, nombre, hash y rol.
func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	return r.do(func(st *state) error {
		row, ok := st.users[user.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if usernameTaken(st, user.Username, user.ID) {
			return fmt.Errorf("%w: usuario %q", domain.ErrDuplicate, user.Username)
		}
		created := row.CreatedAt
		row.User = *user
		row.CreatedAt = created
		st.users[user.ID] = row
		return nil
	})
}

// Delete elimina el usuario; falla si creó ítems o participó en transacciones.
func (r *UserRepo) Delete(_ context.Context, id string) error {
	return r.do(func(st *state) error {
		for _, it := range st.items {
			if it.CreatedBy == id {
				return fmt.Errorf("%w: el usuario tiene ítems registrados", domain.ErrConflict)
			}
		}
		for _, t := range st.txs {
			if t.CreatedBy == id || (t.ApprovedBy != nil && *t.ApprovedBy == id) {
				return fmt.Errorf("%w: el usuario tiene transacciones", domain.ErrConflict)
			}
		}
		delete(st.users, id)
		return nil
	})
}
