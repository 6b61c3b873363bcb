package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
)

var bogota = time.FixedZone("COT", -5*60*60)

// fakeClock reloj controlable desde los tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// recorder cuenta eventos de métricas.
type recorder struct {
	mu       sync.Mutex
	created  map[string]int
	decided  map[string]int
	rejected map[string]int
}

func newRecorder() *recorder {
	return &recorder{created: map[string]int{}, decided: map[string]int{}, rejected: map[string]int{}}
}

func (r *recorder) TransactionCreated(txType, status string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created[txType+"/"+status]++
}

func (r *recorder) TransactionDecided(decision string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decided[decision]++
}

func (r *recorder) StockRejected(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[op]++
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	clock    *fakeClock
	metrics  *recorder
	registry *inventory.ItemRegistry
	ledger   *inventory.Ledger
	approval *inventory.Approval
	query    *inventory.TransactionQuery
	admin    entity.Actor
	user     entity.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	clock := &fakeClock{t: time.Date(2025, 1, 1, 9, 0, 0, 0, bogota)}
	rec := newRecorder()

	now := clock.Now()
	users := store.Users()
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u-admin", Username: "admin", Name: "Ana Admin", Role: entity.RoleAdmin, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u-user", Username: "operario", Name: "Óscar Operario", Role: entity.RoleUser, CreatedAt: now, UpdatedAt: now}))

	return &fixture{
		ctx:      ctx,
		store:    store,
		clock:    clock,
		metrics:  rec,
		registry: inventory.NewItemRegistry(store, store.Items(), clock.Now),
		ledger:   inventory.NewLedger(store, clock.Now, rec),
		approval: inventory.NewApproval(store, clock.Now, rec),
		query:    inventory.NewTransactionQuery(store.Transactions(), bogota),
		admin:    entity.Actor{UserID: "u-admin", Role: entity.RoleAdmin},
		user:     entity.Actor{UserID: "u-user", Role: entity.RoleUser},
	}
}

func (f *fixture) newItem(t *testing.T, code string, qty int) *dto.ItemResponse {
	t.Helper()
	it, err := f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: code, Name: "Ítem " + code, Quantity: qty})
	require.NoError(t, err)
	return it
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	items, err := f.store.Items().LockForUpdate(f.ctx, []string{id}, true)
	require.NoError(t, err)
	it, ok := items[id]
	require.True(t, ok, "el ítem %s debe existir", id)
	return it.Quantity
}

func (f *fixture) create(t *testing.T, actor entity.Actor, txType string, lines ...dto.TransactionItemRequest) *dto.TransactionResponse {
	t.Helper()
	tx, err := f.ledger.CreateTransaction(f.ctx, actor, dto.CreateTransactionRequest{Type: txType, Items: lines})
	require.NoError(t, err)
	return tx
}

func line(itemID string, qty int) dto.TransactionItemRequest {
	return dto.TransactionItemRequest{ItemID: itemID, Quantity: qty}
}
