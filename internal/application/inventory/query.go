package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// TransactionQuery consultas de historial de transacciones (solo lectura).
type TransactionQuery struct {
	txRepo repository.TransactionRepository
	loc    *time.Location
}

// NewTransactionQuery construye la fachada de consulta. Las fechas del filtro se interpretan en loc.
func NewTransactionQuery(txRepo repository.TransactionRepository, loc *time.Location) *TransactionQuery {
	if loc == nil {
		loc = time.Local
	}
	return &TransactionQuery{txRepo: txRepo, loc: loc}
}

// List devuelve las transacciones que cumplen el filtro, más recientes primero.
// Los días son inclusivos; sin end_date se toma start_date como fin.
func (q *TransactionQuery) List(ctx context.Context, in dto.TransactionFilterRequest) ([]dto.TransactionResponse, error) {
	filter, err := q.buildFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := q.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toTransactionResponse(d))
	}
	return out, nil
}

// Get devuelve una transacción con sus líneas y actores.
func (q *TransactionQuery) Get(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	d, err := q.txRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return toTransactionResponse(d), nil
}

func (q *TransactionQuery) buildFilter(in dto.TransactionFilterRequest) (repository.TransactionFilter, error) {
	var f repository.TransactionFilter
	if in.Type != "" && !entity.IsValidTransactionType(in.Type) {
		return f, fmt.Errorf("%w: tipo %q no soportado", domain.ErrInvalidInput, in.Type)
	}
	if in.Status != "" && !entity.IsValidTransactionStatus(in.Status) {
		return f, fmt.Errorf("%w: estado %q no soportado", domain.ErrInvalidInput, in.Status)
	}
	f.Type, f.Status = in.Type, in.Status

	var start, end *time.Time
	if in.StartDate != "" {
		d, err := time.ParseInLocation(dateLayout, in.StartDate, q.loc)
		if err != nil {
			return f, fmt.Errorf("%w: start_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		start = &d
	}
	if in.EndDate != "" {
		d, err := time.ParseInLocation(dateLayout, in.EndDate, q.loc)
		if err != nil {
			return f, fmt.Errorf("%w: end_date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end = &d
	} else if start != nil {
		end = start
	}
	if start != nil {
		from, _ := inventory.DayRange(*start)
		f.From = &from
	}
	if end != nil {
		_, to := inventory.DayRange(*end)
		f.To = &to
	}
	if f.From != nil && f.To != nil && !f.From.Before(*f.To) {
		return f, fmt.Errorf("%w: start_date posterior a end_date", domain.ErrInvalidInput)
	}
	return f, nil
}
