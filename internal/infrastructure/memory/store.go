// Package memory implementa los puertos de persistencia en memoria del proceso.
// Las unidades de trabajo se serializan con un mutex y trabajan sobre una copia del estado que
// solo reemplaza al original si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

type userRow struct {
	entity.User
	seq int64
}

type itemRow struct {
	entity.Item
	seq int64
}

type txRow struct {
	entity.Transaction // sin Lines
	seq                int64
}

type state struct {
	seq   int64
	users map[string]userRow
	items map[string]itemRow
	txs   map[string]txRow
	lines map[string][]entity.TransactionLine // por TransactionID
}

func newState() *state {
	return &state{
		users: make(map[string]userRow),
		items: make(map[string]itemRow),
		txs:   make(map[string]txRow),
		lines: make(map[string][]entity.TransactionLine),
	}
}

func (s *state) clone() *state {
	c := &state{
		seq:   s.seq,
		users: make(map[string]userRow, len(s.users)),
		items: make(map[string]itemRow, len(s.items)),
		txs:   make(map[string]txRow, len(s.txs)),
		lines: make(map[string][]entity.TransactionLine, len(s.lines)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.txs {
		c.txs[k] = v
	}
	for k, v := range s.lines {
		c.lines[k] = append([]entity.TransactionLine(nil), v...)
	}
	return c
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// access ejecuta fn con el estado visible para un repositorio.
type access func(fn func(st *state) error) error

// Store almacenamiento en memoria; implementa inventory.TxRunner.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacenamiento vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) direct(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// Run ejecuta fn sobre una copia del estado y la publica solo si fn y ctx terminan sin error.
func (s *Store) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	bound := access(func(f func(st *state) error) error { return f(work) })
	if err := fn(&ItemRepo{do: bound}, &TransactionRepo{do: bound}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Ping siempre responde; existe para el health check.
func (s *Store) Ping(context.Context) error { return nil }

// Items repositorio de ítems fuera de una unidad de trabajo.
func (s *Store) Items() *ItemRepo { return &ItemRepo{do: s.direct} }

// Transactions repositorio de transacciones fuera de una unidad de trabajo.
func (s *Store) Transactions() *TransactionRepo { return &TransactionRepo{do: s.direct} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{do: s.direct} }

func (s *state) userRef(id string) *repository.UserRef {
	ref := &repository.UserRef{ID: id}
	if u, ok := s.users[id]; ok {
		ref.Username, ref.Name = u.Username, u.Name
	}
	return ref
}
