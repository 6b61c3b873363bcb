package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
	) error) error
}

// Recorder recibe eventos del libro de movimientos (métricas).
type Recorder interface {
	TransactionCreated(txType, status string, lines int)
	TransactionDecided(decision string)
	StockRejected(operation string)
}

// Clock devuelve la hora actual en la zona horaria de negocio.
type Clock func() time.Time

type nopRecorder struct{}

func (nopRecorder) TransactionCreated(string, string, int) {}
func (nopRecorder) TransactionDecided(string)              {}
func (nopRecorder) StockRejected(string)                   {}

// NopRecorder descarta todos los eventos.
var NopRecorder Recorder = nopRecorder{}

func orDefaults(clock Clock, rec Recorder) (Clock, Recorder) {
	if clock == nil {
		clock = time.Now
	}
	if rec == nil {
		rec = NopRecorder
	}
	return clock, rec
}
