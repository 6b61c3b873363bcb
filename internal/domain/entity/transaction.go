package entity

import "time"

// Tipos de transacción de stock.
const (
	TransactionTypeIN  = "IN"  // entrada (reposición)
	TransactionTypeOUT = "OUT" // salida (despacho o solicitud)
)

// Estados de una transacción.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusApproved  = "APPROVED"
	TransactionStatusRejected  = "REJECTED"
	TransactionStatusCompleted = "COMPLETED"
)

// Transaction es la cabecera de un movimiento de stock con una o más líneas.
// ApprovedBy solo se asigna cuando el estado es APPROVED o REJECTED.
type Transaction struct {
	ID            string
	Code          string // TRX-<ULID>
	DocumentNo    string // {TYPE}/{YYYYMMDD}/{NNN}
	Type          string
	Status        string
	Notes         string
	ExternalParty string // proveedor o solicitante
	CreatedBy     string
	ApprovedBy    *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Lines         []TransactionLine
}

// TransactionLine es un ítem + cantidad dentro de una transacción.
type TransactionLine struct {
	ID            string
	TransactionID string
	LineNo        int // posición 1..n en el documento
	ItemID        string
	Quantity      int
	CreatedAt     time.Time
}

// IsValidTransactionType indica si t es IN u OUT.
func IsValidTransactionType(t string) bool {
	return t == TransactionTypeIN || t == TransactionTypeOUT
}

// IsValidTransactionStatus indica si s es uno de los cuatro estados conocidos.
func IsValidTransactionStatus(s string) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusApproved, TransactionStatusRejected, TransactionStatusCompleted:
		return true
	}
	return false
}

// IsTerminal indica si el estado ya no admite cambios.
func (t *Transaction) IsTerminal() bool {
	return t.Status != TransactionStatusPending
}
