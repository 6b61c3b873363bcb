package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/inventario-ledger/internal/domain"
)

// Códigos SQLSTATE usados para clasificar errores.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeNumericOutOfRange    = "22003"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Constraints declaradas en migrations/0001_init.sql.
const (
	constraintItemQuantity     = "items_quantity_check"
	constraintTxCode           = "transactions_code_key"
	constraintTxDocumentNumber = "transactions_type_document_no_key"
)

func asPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	pgErr, ok := asPgError(err)
	return ok && pgErr.Code == codeUniqueViolation
}

// isRetryable indica conflictos de concurrencia que no dejan estado visible: la unidad de
// trabajo completa puede repetirse.
func isRetryable(err error) bool {
	pgErr, ok := asPgError(err)
	if !ok {
		return false
	}
	switch pgErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	case codeUniqueViolation:
		return pgErr.ConstraintName == constraintTxCode || pgErr.ConstraintName == constraintTxDocumentNumber
	}
	return false
}

// mapWriteError traduce errores de escritura a errores de dominio. Los conflictos reintentables
// se devuelven intactos para que TxRunner los reconozca.
func mapWriteError(op string, err error) error {
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return fmt.Errorf("%s: %w", op, err)
	}
	pgErr, ok := asPgError(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, pgErr.ConstraintName)
	case codeNumericOutOfRange:
		return fmt.Errorf("%w: cantidad fuera de rango", domain.ErrInvalidInput)
	case codeForeignKeyViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	case codeCheckViolation:
		if pgErr.ConstraintName == constraintItemQuantity {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validID evita enviar a la BD identificadores que no son UUID (la columna los rechazaría con 22P02).
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
