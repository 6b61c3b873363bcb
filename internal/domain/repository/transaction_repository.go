package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// TransactionFilter filtros de la consulta de historial. Campos vacíos/nil no filtran.
// El rango de fechas es [From, To).
type TransactionFilter struct {
	From   *time.Time
	To     *time.Time
	Type   string
	Status string
}

// LineDetail línea con los datos del ítem referenciado.
type LineDetail struct {
	Line     entity.TransactionLine
	ItemCode string
	ItemName string
}

// TransactionDetail proyección de lectura: cabecera, actores y líneas.
type TransactionDetail struct {
	Transaction entity.Transaction
	Creator     *UserRef
	Approver    *UserRef
	Lines       []LineDetail
}

// TransactionRepository define el puerto de persistencia para transacciones y sus líneas.
type TransactionRepository interface {
	// LockDocumentSequence serializa la numeración de documentos de un tipo en un día
	// hasta el fin de la unidad de trabajo.
	LockDocumentSequence(ctx context.Context, txType string, day time.Time) error
	// CountByTypeBetween cuenta transacciones del tipo con created_at en [from, to).
	CountByTypeBetween(ctx context.Context, txType string, from, to time.Time) (int, error)
	Create(ctx context.Context, tx *entity.Transaction) error
	CreateLine(ctx context.Context, line *entity.TransactionLine) error
	// GetForUpdate obtiene la cabecera bloqueada junto con sus líneas; (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error)
	UpdateStatus(ctx context.Context, id, status, approverID string, at time.Time) error
	GetDetail(ctx context.Context, id string) (*TransactionDetail, error)
	List(ctx context.Context, filter TransactionFilter) ([]*TransactionDetail, error)
}
