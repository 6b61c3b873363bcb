package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

func TestItemRegistry_CreateYGet(t *testing.T) {
	f := newFixture(t)

	created, err := f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{
		Code: " TORN-01 ", Name: "Tornillo", Description: "Acero 3/8", Quantity: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "TORN-01", created.Code)
	assert.Equal(t, 7, created.Quantity)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, "admin", created.CreatedBy.Username)

	got, err := f.registry.Get(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestItemRegistry_CreateInvalido(t *testing.T) {
	f := newFixture(t)

	_, err := f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "A", Name: "A", Quantity: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: " ", Name: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "A", Name: "A", Quantity: entity.MaxQuantity + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	it, err := f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "A", Name: "A", Quantity: entity.MaxQuantity})
	require.NoError(t, err)
	assert.Equal(t, entity.MaxQuantity, it.Quantity)
}

func TestItemRegistry_CodigoDuplicado(t *testing.T) {
	f := newFixture(t)
	f.newItem(t, "A", 1)

	_, err := f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "A", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemRegistry_CodigoLiberadoAlArchivar(t *testing.T) {
	f := newFixture(t)
	old := f.newItem(t, "A", 1)
	f.create(t, f.admin, entity.TransactionTypeIN, line(old.ID, 1))
	_, err := f.registry.Delete(f.ctx, old.ID)
	require.NoError(t, err)

	_, err = f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "A", Name: "Reemplazo"})
	assert.NoError(t, err, "el código solo es único entre ítems activos")
}

func TestItemRegistry_ListBuscaEnNombreYCodigo(t *testing.T) {
	f := newFixture(t)
	_, err := f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "TORN-01", Name: "Tornillo"})
	require.NoError(t, err)
	_, err = f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "TUER-01", Name: "Tuerca"})
	require.NoError(t, err)
	_, err = f.registry.Create(f.ctx, f.admin, dto.CreateItemRequest{Code: "ARAN-01", Name: "Arandela de tornillo"})
	require.NoError(t, err)

	all, err := f.registry.List(f.ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ARAN-01", all[0].Code, "más recientes primero")

	byName, err := f.registry.List(f.ctx, "ornillo")
	require.NoError(t, err)
	assert.Len(t, byName, 2)

	byCode, err := f.registry.List(f.ctx, "TUER")
	require.NoError(t, err)
	require.Len(t, byCode, 1)
	assert.Equal(t, "Tuerca", byCode[0].Name)

	caseSensitive, err := f.registry.List(f.ctx, "tuer")
	require.NoError(t, err)
	assert.Empty(t, caseSensitive)
}

func TestItemRegistry_UpdateFusionaCamposSinTocarCantidad(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "A", 9)

	updated, err := f.registry.Update(f.ctx, item.ID, dto.UpdateItemRequest{Name: strPtr("Nuevo nombre")})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Code)
	assert.Equal(t, "Nuevo nombre", updated.Name)
	assert.Equal(t, 9, updated.Quantity)

	f.newItem(t, "B", 1)
	_, err = f.registry.Update(f.ctx, item.ID, dto.UpdateItemRequest{Code: strPtr("B")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.registry.Update(f.ctx, item.ID, dto.UpdateItemRequest{Name: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.registry.Update(f.ctx, "no-existe", dto.UpdateItemRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRegistry_DeleteSinHistorialElimina(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "A", 1)

	res, err := f.registry.Delete(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteResultDeleted, res.Result)

	_, err = f.registry.Get(f.ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.registry.Delete(f.ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRegistry_DeleteConHistorialArchiva(t *testing.T) {
	f := newFixture(t)
	item := f.newItem(t, "A", 1)
	tx := f.create(t, f.admin, entity.TransactionTypeIN, line(item.ID, 2))

	res, err := f.registry.Delete(f.ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, dto.DeleteResultArchived, res.Result)

	_, err = f.registry.Get(f.ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un ítem archivado no se muestra")
	list, err := f.registry.List(f.ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := f.query.Get(f.ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Lines[0].ItemCode, "el historial conserva los datos del ítem")
	_, err = f.registry.Delete(f.ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
