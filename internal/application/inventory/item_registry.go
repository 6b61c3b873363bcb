package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// ItemRegistry caso de uso del catálogo de ítems (alta, consulta, edición y baja).
type ItemRegistry struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository
	now      Clock
}

// NewItemRegistry construye el caso de uso. clock nil usa time.Now.
func NewItemRegistry(txRunner TxRunner, itemRepo repository.ItemRepository, clock Clock) *ItemRegistry {
	clock, _ = orDefaults(clock, nil)
	return &ItemRegistry{txRunner: txRunner, itemRepo: itemRepo, now: clock}
}

// Create registra un ítem con su cantidad inicial. El código debe ser único entre ítems activos.
func (uc *ItemRegistry) Create(ctx context.Context, actor entity.Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: código y nombre son obligatorios", domain.ErrInvalidInput)
	}
	if in.Quantity < 0 || in.Quantity > entity.MaxQuantity {
		return nil, fmt.Errorf("%w: la cantidad debe estar entre 0 y %d", domain.ErrInvalidInput, entity.MaxQuantity)
	}
	now := uc.now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Code:        code,
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Quantity:    in.Quantity,
		CreatedBy:   actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return uc.Get(ctx, item.ID)
}

// List devuelve los ítems activos cuyo nombre o código contienen search.
func (uc *ItemRegistry) List(ctx context.Context, search string) ([]dto.ItemSummary, error) {
	items, err := uc.itemRepo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemSummary, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ItemSummary{ID: it.ID, Code: it.Code, Name: it.Name, Quantity: it.Quantity})
	}
	return out, nil
}

// Get devuelve un ítem activo con los datos de su creador.
func (uc *ItemRegistry) Get(ctx context.Context, id string) (*dto.ItemResponse, error) {
	d, err := uc.itemRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return toItemResponse(d), nil
}

// Update fusiona los campos enviados. La cantidad solo cambia vía transacciones.
func (uc *ItemRegistry) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != nil {
		item.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		item.Description = strings.TrimSpace(*in.Description)
	}
	if item.Code == "" || item.Name == "" {
		return nil, fmt.Errorf("%w: código y nombre no pueden quedar vacíos", domain.ErrInvalidInput)
	}
	item.UpdatedAt = uc.now()
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return uc.Get(ctx, id)
}

// Delete archiva el ítem si alguna transacción lo referencia; si no, lo elimina.
func (uc *ItemRegistry) Delete(ctx context.Context, id string) (*dto.DeleteItemResponse, error) {
	resp := &dto.DeleteItemResponse{ID: id}
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, _ repository.TransactionRepository) error {
		locked, err := itemRepo.LockForUpdate(ctx, []string{id}, false)
		if err != nil {
			return err
		}
		if _, ok := locked[id]; !ok {
			return domain.ErrNotFound
		}
		referenced, err := itemRepo.HasReferences(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			resp.Result = dto.DeleteResultArchived
			resp.Message = "ítem archivado: tiene historial de transacciones"
			return itemRepo.Archive(ctx, id, uc.now())
		}
		resp.Result = dto.DeleteResultDeleted
		resp.Message = "ítem eliminado"
		return itemRepo.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
