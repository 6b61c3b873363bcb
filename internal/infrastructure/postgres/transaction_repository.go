package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionDetailSelect = `
	SELECT t.id, t.code, t.document_no, t.type, t.status, t.notes, t.external_party,
	       t.created_by, t.approved_by, t.created_at, t.updated_at,
	       cu.username, cu.name, au.username, au.name
	FROM transactions t
	LEFT JOIN users cu ON cu.id = t.created_by
	LEFT JOIN users au ON au.id = t.approved_by`

// TransactionRepo implementación del puerto TransactionRepository sobre PostgreSQL.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// LockDocumentSequence toma un advisory lock de transacción sobre (tipo, día).
func (r *TransactionRepo) LockDocumentSequence(ctx context.Context, txType string, day time.Time) error {
	key := "txdoc:" + txType + ":" + day.Format("20060102")
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("lock document sequence: %w", err)
	}
	return nil
}

// CountByTypeBetween cuenta transacciones del tipo con created_at en [from, to).
func (r *TransactionRepo) CountByTypeBetween(ctx context.Context, txType string, from, to time.Time) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM transactions WHERE type = $1 AND created_at >= $2 AND created_at < $3`,
		txType, from, to,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// Create inserta la cabecera.
func (r *TransactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	query := `
		INSERT INTO transactions (id, code, document_no, type, status, notes, external_party, created_by, approved_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.Code, tx.DocumentNo, tx.Type, tx.Status, nullString(tx.Notes), nullString(tx.ExternalParty),
		tx.CreatedBy, tx.ApprovedBy, tx.CreatedAt, tx.UpdatedAt,
	)
	return mapWriteError("insert transaction", err)
}

// CreateLine inserta una línea.
func (r *TransactionRepo) CreateLine(ctx context.Context, line *entity.TransactionLine) error {
	query := `
		INSERT INTO transaction_lines (id, transaction_id, line_no, item_id, quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query, line.ID, line.TransactionID, line.LineNo, line.ItemID, line.Quantity, line.CreatedAt)
	return mapWriteError("insert transaction line", err)
}

// GetForUpdate bloquea la cabecera y devuelve sus líneas.
func (r *TransactionRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transaction, error) {
	if !validID(id) {
		return nil, nil
	}
	query := `
		SELECT id, code, document_no, type, status, notes, external_party, created_by, approved_by, created_at, updated_at
		FROM transactions WHERE id = $1
		FOR UPDATE`
	var t entity.Transaction
	var notes, party *string
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Code, &t.DocumentNo, &t.Type, &t.Status, &notes, &party,
		&t.CreatedBy, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction for update: %w", err)
	}
	t.Notes, t.ExternalParty = stringOrEmpty(notes), stringOrEmpty(party)

	lines, err := r.lines(ctx, []string{t.ID})
	if err != nil {
		return nil, err
	}
	for _, l := range lines[t.ID] {
		t.Lines = append(t.Lines, l.Line)
	}
	return &t, nil
}

// UpdateStatus fija estado y aprobador.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, id, status, approverID string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE transactions SET status = $2, approved_by = $3, updated_at = $4 WHERE id = $1`,
		id, status, approverID, at,
	)
	if err != nil {
		return mapWriteError("update transaction status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetDetail devuelve cabecera, actores y líneas con datos del ítem.
func (r *TransactionRepo) GetDetail(ctx context.Context, id string) (*repository.TransactionDetail, error) {
	if !validID(id) {
		return nil, nil
	}
	list, err := r.queryDetails(ctx, transactionDetailSelect+` WHERE t.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List aplica el filtro; más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter) ([]*repository.TransactionDetail, error) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.From != nil {
		add("t.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("t.created_at < $%d", *f.To)
	}
	if f.Type != "" {
		add("t.type = $%d", f.Type)
	}
	if f.Status != "" {
		add("t.status = $%d", f.Status)
	}
	query := transactionDetailSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY t.created_at DESC, t.id DESC"
	return r.queryDetails(ctx, query, args...)
}

func (r *TransactionRepo) queryDetails(ctx context.Context, query string, args ...any) ([]*repository.TransactionDetail, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var list []*repository.TransactionDetail
	var ids []string
	for rows.Next() {
		var d repository.TransactionDetail
		t := &d.Transaction
		var notes, party, cUser, cName, aUser, aName *string
		if err := rows.Scan(
			&t.ID, &t.Code, &t.DocumentNo, &t.Type, &t.Status, &notes, &party,
			&t.CreatedBy, &t.ApprovedBy, &t.CreatedAt, &t.UpdatedAt,
			&cUser, &cName, &aUser, &aName,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Notes, t.ExternalParty = stringOrEmpty(notes), stringOrEmpty(party)
		d.Creator = &repository.UserRef{ID: t.CreatedBy, Username: stringOrEmpty(cUser), Name: stringOrEmpty(cName)}
		if t.ApprovedBy != nil {
			d.Approver = &repository.UserRef{ID: *t.ApprovedBy, Username: stringOrEmpty(aUser), Name: stringOrEmpty(aName)}
		}
		list = append(list, &d)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return list, nil
	}

	lines, err := r.lines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range list {
		d.Lines = lines[d.Transaction.ID]
		for _, l := range d.Lines {
			d.Transaction.Lines = append(d.Transaction.Lines, l.Line)
		}
	}
	return list, nil
}

// lines carga las líneas de varias transacciones, agrupadas por transaction_id.
func (r *TransactionRepo) lines(ctx context.Context, txIDs []string) (map[string][]repository.LineDetail, error) {
	query := `
		SELECT l.id, l.transaction_id, l.line_no, l.item_id, l.quantity, l.created_at, i.code, i.name
		FROM transaction_lines l
		JOIN items i ON i.id = l.item_id
		WHERE l.transaction_id = ANY($1::uuid[])
		ORDER BY l.transaction_id, l.line_no`
	rows, err := r.q.Query(ctx, query, txIDs)
	if err != nil {
		return nil, fmt.Errorf("list transaction lines: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]repository.LineDetail, len(txIDs))
	for rows.Next() {
		var ld repository.LineDetail
		l := &ld.Line
		if err := rows.Scan(&l.ID, &l.TransactionID, &l.LineNo, &l.ItemID, &l.Quantity, &l.CreatedAt, &ld.ItemCode, &ld.ItemName); err != nil {
			return nil, fmt.Errorf("scan transaction line: %w", err)
		}
		out[l.TransactionID] = append(out[l.TransactionID], ld)
	}
	return out, rows.Err()
}
