package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Ledger registra transacciones de stock (entradas y salidas) de forma atómica.
type Ledger struct {
	txRunner TxRunner
	now      Clock
	metrics  Recorder
}

// NewLedger construye el libro de movimientos. clock nil usa time.Now; rec nil descarta métricas.
func NewLedger(txRunner TxRunner, clock Clock, rec Recorder) *Ledger {
	clock, rec = orDefaults(clock, rec)
	return &Ledger{txRunner: txRunner, now: clock, metrics: rec}
}

// CreateTransaction registra una transacción con sus líneas en una sola unidad de trabajo.
//
//   - IN (solo ADMIN): queda COMPLETED y suma stock.
//   - OUT por ADMIN: queda APPROVED, valida y descuenta stock.
//   - OUT por USER: queda PENDING; el stock se valida y descuenta al aprobar.
//
// Si cualquier línea falla no queda nada registrado.
func (l *Ledger) CreateTransaction(ctx context.Context, actor entity.Actor, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if err := validateCreate(actor, in); err != nil {
		return nil, err
	}

	var detail *repository.TransactionDetail
	err := l.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository) error {
		now := l.now()
		header := &entity.Transaction{
			ID:            uuid.New().String(),
			Type:          in.Type,
			Status:        entity.TransactionStatusPending,
			Notes:         in.Notes,
			ExternalParty: in.ExternalParty,
			CreatedBy:     actor.UserID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		switch {
		case in.Type == entity.TransactionTypeIN:
			header.Status = entity.TransactionStatusCompleted
		case actor.IsAdmin():
			header.Status = entity.TransactionStatusApproved
			approver := actor.UserID
			header.ApprovedBy = &approver
		}

		docNo, err := NextDocumentNumber(ctx, txRepo, in.Type, now)
		if err != nil {
			return err
		}
		header.DocumentNo = docNo
		if header.Code, err = newTransactionCode(now); err != nil {
			return err
		}
		if err := txRepo.Create(ctx, header); err != nil {
			return err
		}

		ids := make([]string, 0, len(in.Items))
		for _, line := range in.Items {
			ids = append(ids, line.ItemID)
		}
		items, err := itemRepo.LockForUpdate(ctx, ids, false)
		if err != nil {
			return err
		}

		moveStock := header.Type == entity.TransactionTypeIN || actor.IsAdmin()
		for i, line := range in.Items {
			item, ok := items[line.ItemID]
			if !ok {
				return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, line.ItemID)
			}
			if moveStock {
				delta := line.Quantity
				if header.Type == entity.TransactionTypeIN && item.Quantity > entity.MaxQuantity-line.Quantity {
					return fmt.Errorf("%w: %q superaría la cantidad máxima %d", domain.ErrInvalidInput, item.Name, entity.MaxQuantity)
				}
				if header.Type == entity.TransactionTypeOUT {
					if item.Quantity < line.Quantity {
						return &domain.InsufficientStockError{
							ItemID:    item.ID,
							ItemName:  item.Name,
							Available: item.Quantity,
							Requested: line.Quantity,
						}
					}
					delta = -line.Quantity
				}
				if err := itemRepo.AdjustQuantity(ctx, item.ID, delta, now); err != nil {
					return err
				}
				item.Quantity += delta
			}
			if err := txRepo.CreateLine(ctx, &entity.TransactionLine{
				ID:            uuid.New().String(),
				TransactionID: header.ID,
				LineNo:        i + 1,
				ItemID:        item.ID,
				Quantity:      line.Quantity,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}

		detail, err = txRepo.GetDetail(ctx, header.ID)
		if err != nil {
			return err
		}
		if detail == nil {
			return fmt.Errorf("transacción %s no visible tras insertarla", header.ID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			l.metrics.StockRejected("create")
		}
		return nil, err
	}
	l.metrics.TransactionCreated(detail.Transaction.Type, detail.Transaction.Status, len(detail.Lines))
	return toTransactionResponse(detail), nil
}

func validateCreate(actor entity.Actor, in dto.CreateTransactionRequest) error {
	if actor.UserID == "" || !entity.IsValidRole(actor.Role) {
		return fmt.Errorf("%w: actor sin identidad o rol válido", domain.ErrInvalidInput)
	}
	if !entity.IsValidTransactionType(in.Type) {
		return fmt.Errorf("%w: tipo %q no soportado", domain.ErrInvalidInput, in.Type)
	}
	if len(in.Items) == 0 {
		return fmt.Errorf("%w: la transacción debe tener al menos un ítem", domain.ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(in.Items))
	for _, line := range in.Items {
		if line.ItemID == "" {
			return fmt.Errorf("%w: item_id es obligatorio", domain.ErrInvalidInput)
		}
		if line.Quantity <= 0 || line.Quantity > entity.MaxQuantity {
			return fmt.Errorf("%w: la cantidad debe estar entre 1 y %d", domain.ErrInvalidInput, entity.MaxQuantity)
		}
		if _, dup := seen[line.ItemID]; dup {
			return fmt.Errorf("%w: ítem %s repetido", domain.ErrInvalidInput, line.ItemID)
		}
		seen[line.ItemID] = struct{}{}
	}
	if in.Type == entity.TransactionTypeIN && !actor.IsAdmin() {
		return fmt.Errorf("%w: solo ADMIN registra entradas", domain.ErrForbidden)
	}
	return nil
}
