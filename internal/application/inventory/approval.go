package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// Approval resuelve transacciones PENDING (aprobar o rechazar).
type Approval struct {
	txRunner TxRunner
	now      Clock
	metrics  Recorder
}

// NewApproval construye el flujo de aprobación.
func NewApproval(txRunner TxRunner, clock Clock, rec Recorder) *Approval {
	clock, rec = orDefaults(clock, rec)
	return &Approval{txRunner: txRunner, now: clock, metrics: rec}
}

// Decide aplica decision (APPROVED o REJECTED) sobre una transacción PENDING.
// Al aprobar se revalida el stock de todas las líneas contra la cantidad actual y se descuenta;
// si alguna no alcanza la transacción sigue PENDING.
func (a *Approval) Decide(ctx context.Context, id, decision string, approver entity.Actor) (*dto.TransactionResponse, error) {
	if decision != entity.TransactionStatusApproved && decision != entity.TransactionStatusRejected {
		return nil, fmt.Errorf("%w: decisión %q no soportada", domain.ErrInvalidInput, decision)
	}
	if !approver.IsAdmin() {
		return nil, fmt.Errorf("%w: solo ADMIN aprueba o rechaza", domain.ErrForbidden)
	}

	var detail *repository.TransactionDetail
	err := a.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository) error {
		tx, err := txRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if tx == nil {
			return domain.ErrNotFound
		}
		if tx.IsTerminal() {
			return fmt.Errorf("%w: la transacción está %s", domain.ErrInvalidStateTransition, tx.Status)
		}
		now := a.now()

		if decision == entity.TransactionStatusApproved {
			if err := applyLines(ctx, itemRepo, tx.Lines, now); err != nil {
				return err
			}
		}
		if err := txRepo.UpdateStatus(ctx, tx.ID, decision, approver.UserID, now); err != nil {
			return err
		}
		detail, err = txRepo.GetDetail(ctx, tx.ID)
		if err != nil {
			return err
		}
		if detail == nil {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			a.metrics.StockRejected("approve")
		}
		return nil, err
	}
	a.metrics.TransactionDecided(decision)
	return toTransactionResponse(detail), nil
}

// applyLines bloquea los ítems (incluidos archivados), verifica todas las líneas y luego descuenta.
func applyLines(ctx context.Context, itemRepo repository.ItemRepository, lines []entity.TransactionLine, now time.Time) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ItemID)
	}
	items, err := itemRepo.LockForUpdate(ctx, ids, true)
	if err != nil {
		return err
	}
	for _, l := range lines {
		item, ok := items[l.ItemID]
		if !ok {
			return fmt.Errorf("%w: ítem %s", domain.ErrNotFound, l.ItemID)
		}
		if item.Quantity < l.Quantity {
			return &domain.InsufficientStockError{
				ItemID:    item.ID,
				ItemName:  item.Name,
				Available: item.Quantity,
				Requested: l.Quantity,
			}
		}
	}
	for _, l := range lines {
		if err := itemRepo.AdjustQuantity(ctx, l.ItemID, -l.Quantity, now); err != nil {
			return err
		}
	}
	return nil
}
