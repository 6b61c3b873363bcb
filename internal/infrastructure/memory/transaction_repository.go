package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación en memoria de TransactionRepository.
type TransactionRepo struct {
	do access
}

// LockDocumentSequence no hace nada: la unidad de trabajo ya es exclusiva.
func (r *TransactionRepo) LockDocumentSequence(context.Context, string, time.Time) error {
	return nil
}

// CountByTypeBetween cuenta transacciones del tipo con created_at en [from, to).
func (r *TransactionRepo) CountByTypeBetween(_ context.Context, txType string, from, to time.Time) (int, error) {
	var n int
	err := r.do(func(st *state) error {
		for _, row := range st.txs {
			if row.Type == txType && !row.CreatedAt.Before(from) && row.CreatedAt.Before(to) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Create inserta la cabecera; código y (tipo, número de documento) son únicos.
func (r *TransactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	return r.do(func(st *state) error {
		for _, row := range st.txs {
			if row.ID == tx.ID || row.Code == tx.Code || (row.Type == tx.Type && row.DocumentNo == tx.DocumentNo) {
				return fmt.Errorf("%w: transacción %s", domain.ErrDuplicate, tx.DocumentNo)
			}
		}
		if _, ok := st.users[tx.CreatedBy]; !ok {
			return fmt.Errorf("%w: usuario creador %s no existe", domain.ErrConflict, tx.CreatedBy)
		}
		header := *tx
		header.Lines = nil
		st.txs[tx.ID] = txRow{Transaction: header, seq: st.next()}
		return nil
	})
}

// CreateLine inserta una línea; un ítem aparece una sola vez por transacción.
func (r *TransactionRepo) CreateLine(_ context.Context, line *entity.TransactionLine) error {
	return r.do(func(st *state) error {
		if _, ok := st.txs[line.TransactionID]; !ok {
			return fmt.Errorf("%w: transacción %s no existe", domain.ErrConflict, line.TransactionID)
		}
		if _, ok := st.items[line.ItemID]; !ok {
			return fmt.Errorf("%w: ítem %s no existe", domain.ErrConflict, line.ItemID)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("%w: cantidad de línea", domain.ErrInvalidInput)
		}
		for _, l := range st.lines[line.TransactionID] {
			if l.ItemID == line.ItemID {
				return fmt.Errorf("%w: ítem %s repetido en la transacción", domain.ErrDuplicate, line.ItemID)
			}
		}
		st.lines[line.TransactionID] = append(st.lines[line.TransactionID], *line)
		return nil
	})
}

func (st *state) header(id string) (*entity.Transaction, bool) {
	row, ok := st.txs[id]
	if !ok {
		return nil, false
	}
	t := row.Transaction
	t.Lines = append([]entity.TransactionLine(nil), st.sortedLines(id)...)
	return &t, true
}

func (st *state) sortedLines(txID string) []entity.TransactionLine {
	lines := append([]entity.TransactionLine(nil), st.lines[txID]...)
	sort.SliceStable(lines, func(i, j int) bool { return lines[i].LineNo < lines[j].LineNo })
	return lines
}

// GetForUpdate devuelve cabecera y líneas o (nil, nil).
func (r *TransactionRepo) GetForUpdate(_ context.Context, id string) (*entity.Transaction, error) {
	var out *entity.Transaction
	err := r.do(func(st *state) error {
		out, _ = st.header(id)
		return nil
	})
	return out, err
}

// UpdateStatus fija estado y aprobador.
func (r *TransactionRepo) UpdateStatus(_ context.Context, id, status, approverID string, at time.Time) error {
	return r.do(func(st *state) error {
		row, ok := st.txs[id]
		if !ok {
			return domain.ErrNotFound
		}
		approver := approverID
		row.Status = status
		row.ApprovedBy = &approver
		row.UpdatedAt = at
		st.txs[id] = row
		return nil
	})
}

func (st *state) detail(id string) *repository.TransactionDetail {
	t, ok := st.header(id)
	if !ok {
		return nil
	}
	d := &repository.TransactionDetail{Creator: st.userRef(t.CreatedBy)}
	if t.ApprovedBy != nil {
		d.Approver = st.userRef(*t.ApprovedBy)
	}
	for _, l := range t.Lines {
		ld := repository.LineDetail{Line: l}
		if it, ok := st.items[l.ItemID]; ok {
			ld.ItemCode, ld.ItemName = it.Code, it.Name
		}
		d.Lines = append(d.Lines, ld)
	}
	d.Transaction = *t
	return d
}

// GetDetail devuelve la proyección de lectura o (nil, nil).
func (r *TransactionRepo) GetDetail(_ context.Context, id string) (*repository.TransactionDetail, error) {
	var out *repository.TransactionDetail
	err := r.do(func(st *state) error {
		out = st.detail(id)
		return nil
	})
	return out, err
}

// List aplica el filtro; más recientes primero.
func (r *TransactionRepo) List(_ context.Context, f repository.TransactionFilter) ([]*repository.TransactionDetail, error) {
	var out []*repository.TransactionDetail
	err := r.do(func(st *state) error {
		rows := make([]txRow, 0, len(st.txs))
		for _, row := range st.txs {
			switch {
			case f.Type != "" && row.Type != f.Type,
				f.Status != "" && row.Status != f.Status,
				f.From != nil && row.CreatedAt.Before(*f.From),
				f.To != nil && !row.CreatedAt.Before(*f.To):
				continue
			}
			rows = append(rows, row)
		}
		sort.Slice(rows, func(i, j int) bool {
			if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
				return rows[i].CreatedAt.After(rows[j].CreatedAt)
			}
			return rows[i].seq > rows[j].seq
		})
		for _, row := range rows {
			out = append(out, st.detail(row.ID))
		}
		return nil
	})
	return out, err
}
