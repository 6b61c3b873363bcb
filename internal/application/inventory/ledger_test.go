package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func TestCreateTransaction_EntradaSumaStockYQuedaCompleted(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "TORN-01", 10)

	tx := f.create(t, f.admin, entity.TransactionTypeIN, line(item.ID, 5))

	assert.Equal(t, entity.TransactionStatusCompleted, tx.Status)
	assert.Nil(t, tx.ApprovedBy, "una entrada no tiene aprobador")
	assert.Equal(t, "IN/20250101/001", tx.DocumentNo)
	assert.Regexp(t, `^TRX-[0-9A-Z]{26}$`, tx.Code)
	assert.Equal(t, "admin", tx.CreatedBy.Username)
	require.Len(t, tx.Lines, 1)
	assert.Equal(t, "TORN-01", tx.Lines[0].ItemCode)
	assert.Equal(t, 15, f.quantity(t, item.ID))
	assert.Equal(t, 1, f.metrics.created["IN/COMPLETED"])
}

func TestCreateTransaction_NumeracionSecuencialPorTipoYDia(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "A", 100)

	first := f.create(t, f.admin, entity.TransactionTypeIN, line(item.ID, 1))
	second := f.create(t, f.admin, entity.TransactionTypeIN, line(item.ID, 1))
	out := f.create(t, f.admin, entity.TransactionTypeOUT, line(item.ID, 1))

	assert.Equal(t, "IN/20250101/001", first.DocumentNo)
	assert.Equal(t, "IN/20250101/002", second.DocumentNo)
	assert.Equal(t, "OUT/20250101/001", out.DocumentNo, "cada tipo lleva su propia secuencia")

	f.clock.Set(time.Date(2025, 1, 2, 0, 0, 0, 0, bogota))
	nextDay := f.create(t, f.admin, entity.TransactionTypeIN, line(item.ID, 1))
	assert.Equal(t, "IN/20250102/001", nextDay.DocumentNo, "la secuencia reinicia cada día")
}

func TestCreateTransaction_SalidaAdminDescuentaYQuedaAprobada(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "B", 5)

	tx := f.create(t, f.admin, entity.TransactionTypeOUT, line(item.ID, 5))

	assert.Equal(t, entity.TransactionStatusApproved, tx.Status)
	require.NotNil(t, tx.ApprovedBy)
	assert.Equal(t, f.admin.UserID, tx.ApprovedBy.ID)
	assert.Equal(t, 0, f.quantity(t, item.ID), "ADMIN puede dejar el stock exactamente en cero")
}

func TestCreateTransaction_SalidaUsuarioQuedaPendienteSinTocarStock(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "C", 3)

	tx := f.create(t, f.user, entity.TransactionTypeOUT, line(item.ID, 5))

	assert.Equal(t, entity.TransactionStatusPending, tx.Status)
	assert.Nil(t, tx.ApprovedBy)
	assert.Equal(t, 3, f.quantity(t, item.ID), "la solicitud no mueve stock hasta aprobarse")
}

func TestCreateTransaction_EntradaPorUsuarioProhibida(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "D", 1)

	_, err := f.ledger.CreateTransaction(f.ctx, f.user, dto.CreateTransactionRequest{
		Type:  entity.TransactionTypeIN,
		Items: []dto.TransactionItemRequest{line(item.ID, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, 1, f.quantity(t, item.ID))
}

func TestCreateTransaction_StockInsuficienteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	a := f.newItem(t, "A", 10)
	b := f.newItem(t, "B", 2)

	_, err := f.ledger.CreateTransaction(f.ctx, f.admin, dto.CreateTransactionRequest{
		Type:  entity.TransactionTypeOUT,
		Items: []dto.TransactionItemRequest{line(a.ID, 4), line(b.ID, 3)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, b.Name, stockErr.ItemName)
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 3, stockErr.Requested)

	assert.Equal(t, 10, f.quantity(t, a.ID), "la primera línea no debe quedar aplicada")
	assert.Equal(t, 2, f.quantity(t, b.ID))
	list, err := f.query.List(f.ctx, dto.TransactionFilterRequest{})
	require.NoError(t, err)
	assert.Empty(t, list, "no debe quedar cabecera huérfana")
	assert.Equal(t, 1, f.metrics.rejected["create"])

	ok := f.create(t, f.admin, entity.TransactionTypeOUT, line(a.ID, 1))
	assert.Equal(t, "OUT/20250101/001", ok.DocumentNo, "el número del intento fallido no se consume")
}

func TestCreateTransaction_ItemInexistenteRevierteTodo(t *testing.T) {
	f := newFixture(t)
	a := f.newItem(t, "A", 10)

	_, err := f.ledger.CreateTransaction(f.ctx, f.admin, dto.CreateTransactionRequest{
		Type:  entity.TransactionTypeIN,
		Items: []dto.TransactionItemRequest{line(a.ID, 4), line("no-existe", 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.quantity(t, a.ID))
}

func TestCreateTransaction_ItemArchivadoNoSeUsa(t *testing.T) {
	f := newFixture(t)
	a := f.newItem(t, "A", 10)
	f.create(t, f.admin, entity.TransactionTypeIN, line(a.ID, 1))
	res, err := f.registry.Delete(f.ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, dto.DeleteResultArchived, res.Result)

	_, err = f.ledger.CreateTransaction(f.ctx, f.admin, dto.CreateTransactionRequest{
		Type:  entity.TransactionTypeIN,
		Items: []dto.TransactionItemRequest{line(a.ID, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTransaction_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	a := f.newItem(t, "A", 10)

	items := func(lines ...dto.TransactionItemRequest) []dto.TransactionItemRequest { return lines }
	cases := []struct {
		name  string
		actor entity.Actor
		in    dto.CreateTransactionRequest
	}{
		{"tipo desconocido", f.admin, dto.CreateTransactionRequest{Type: "MOVE", Items: items(line(a.ID, 1))}},
		{"sin líneas", f.admin, dto.CreateTransactionRequest{Type: entity.TransactionTypeIN}},
		{"cantidad cero", f.admin, dto.CreateTransactionRequest{Type: entity.TransactionTypeIN, Items: items(line(a.ID, 0))}},
		{"cantidad negativa", f.admin, dto.CreateTransactionRequest{Type: entity.TransactionTypeOUT, Items: items(line(a.ID, -2))}},
		{"cantidad sobre el máximo", f.admin, dto.CreateTransactionRequest{Type: entity.TransactionTypeIN, Items: items(line(a.ID, entity.MaxQuantity+1))}},
		{"ítem repetido", f.admin, dto.CreateTransactionRequest{Type: entity.TransactionTypeIN, Items: items(line(a.ID, 1), line(a.ID, 2))}},
		{"rol desconocido", entity.Actor{UserID: "u-admin", Role: "ROOT"}, dto.CreateTransactionRequest{Type: entity.TransactionTypeIN, Items: items(line(a.ID, 1))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.CreateTransaction(f.ctx, tc.actor, tc.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 10, f.quantity(t, a.ID))
}

func TestCreateTransaction_EntradaNoDesbordaCantidadMaxima(t *testing.T) {
	f := newFixture(t)
	big := f.newItem(t, "BIG", entity.MaxQuantity-3)
	other := f.newItem(t, "B", 1)

	_, err := f.ledger.CreateTransaction(f.ctx, f.admin, dto.CreateTransactionRequest{
		Type:  entity.TransactionTypeIN,
		Items: []dto.TransactionItemRequest{line(other.ID, 4), line(big.ID, 5)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, entity.MaxQuantity-3, f.quantity(t, big.ID))
	assert.Equal(t, 1, f.quantity(t, other.ID), "la línea previa se revierte")

	f.create(t, f.admin, entity.TransactionTypeIN, line(big.ID, 3))
	assert.Equal(t, entity.MaxQuantity, f.quantity(t, big.ID), "llegar justo al máximo está permitido")
}
