package inventory_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// Secuencia aleatoria (semilla fija) de entradas, salidas y decisiones: al final ningún ítem
// queda negativo, el aprobador existe solo en APPROVED/REJECTED y el stock cuadra con el historial.
func TestLedger_InvariantesEnSecuenciaAleatoria(t *testing.T) {
	f := newFixture(t)
	rng := rand.New(rand.NewSource(42))

	const nItems = 4
	items := make([]*dto.ItemResponse, nItems)
	for i := range items {
		items[i] = f.newItem(t, string(rune('A'+i)), rng.Intn(10))
	}
	var pending []string

	for step := 0; step < 300; step++ {
		it := items[rng.Intn(nItems)]
		qty := 1 + rng.Intn(8)
		switch op := rng.Intn(4); {
		case op == 0:
			_, _ = f.ledger.CreateTransaction(f.ctx, f.admin, dto.CreateTransactionRequest{Type: entity.TransactionTypeIN, Items: []dto.TransactionItemRequest{line(it.ID, qty)}})
		case op == 1:
			_, _ = f.ledger.CreateTransaction(f.ctx, f.admin, dto.CreateTransactionRequest{Type: entity.TransactionTypeOUT, Items: []dto.TransactionItemRequest{line(it.ID, qty)}})
		case op == 2:
			tx, err := f.ledger.CreateTransaction(f.ctx, f.user, dto.CreateTransactionRequest{Type: entity.TransactionTypeOUT, Items: []dto.TransactionItemRequest{line(it.ID, qty)}})
			require.NoError(t, err)
			pending = append(pending, tx.ID)
		case len(pending) > 0:
			i := rng.Intn(len(pending))
			decision := entity.TransactionStatusApproved
			if rng.Intn(3) == 0 {
				decision = entity.TransactionStatusRejected
			}
			_, _ = f.approval.Decide(f.ctx, pending[i], decision, f.admin)
		}
	}

	list, err := f.query.List(f.ctx, dto.TransactionFilterRequest{})
	require.NoError(t, err)

	net := map[string]int{}
	for _, tx := range list {
		decided := tx.Status == entity.TransactionStatusApproved || tx.Status == entity.TransactionStatusRejected
		assert.Equal(t, decided, tx.ApprovedBy != nil, "aprobador vs estado en %s (%s)", tx.DocumentNo, tx.Status)
		for _, l := range tx.Lines {
			switch {
			case tx.Type == entity.TransactionTypeIN:
				net[l.ItemID] += l.Quantity
			case tx.Status == entity.TransactionStatusApproved:
				net[l.ItemID] -= l.Quantity
			}
		}
	}
	for _, it := range items {
		q := f.quantity(t, it.ID)
		assert.GreaterOrEqual(t, q, 0)
		assert.Equal(t, it.Quantity+net[it.ID], q, "stock de %s = inicial + historial", it.Code)
	}
}
