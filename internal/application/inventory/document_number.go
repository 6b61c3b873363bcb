package inventory

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/oklog/ulid"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// NextDocumentNumber calcula el número de documento {TYPE}/{YYYYMMDD}/{NNN} para asOf.
// Debe llamarse dentro de la unidad de trabajo que inserta la transacción: toma el lock de
// secuencia del (tipo, día) y cuenta las transacciones ya registradas ese día.
func NextDocumentNumber(ctx context.Context, txRepo repository.TransactionRepository, txType string, asOf time.Time) (string, error) {
	start, end := inventory.DayRange(asOf)
	if err := txRepo.LockDocumentSequence(ctx, txType, start); err != nil {
		return "", err
	}
	n, err := txRepo.CountByTypeBetween(ctx, txType, start, end)
	if err != nil {
		return "", err
	}
	return inventory.DocumentNumber(txType, asOf, n), nil
}

// newTransactionCode genera el código público TRX-<ULID>.
func newTransactionCode(now time.Time) (string, error) {
	id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
	if err != nil {
		return "", fmt.Errorf("generar código de transacción: %w", err)
	}
	return "TRX-" + id.String(), nil
}
