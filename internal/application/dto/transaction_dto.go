package dto

import "time"

// TransactionItemRequest una línea del body de creación.
type TransactionItemRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0,max=2147483647"`
}

// CreateTransactionRequest body para POST /api/transactions.
type CreateTransactionRequest struct {
	Type          string                   `json:"type" validate:"required,oneof=IN OUT"`
	Notes         string                   `json:"notes" validate:"omitempty,max=1000"`
	ExternalParty string                   `json:"external_party" validate:"omitempty,max=200"`
	Items         []TransactionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateTransactionStatusRequest body para PATCH /api/transactions/:id/status.
type UpdateTransactionStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED REJECTED"`
}

// TransactionFilterRequest query de GET /api/transactions. Fechas en formato YYYY-MM-DD.
type TransactionFilterRequest struct {
	StartDate string `query:"start_date" json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `query:"end_date" json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Type      string `query:"type" json:"type" validate:"omitempty,oneof=IN OUT"`
	Status    string `query:"status" json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED COMPLETED"`
}

// TransactionLineResponse línea con datos del ítem.
type TransactionLineResponse struct {
	ID       string `json:"id"`
	ItemID   string `json:"item_id"`
	ItemCode string `json:"item_code,omitempty"`
	ItemName string `json:"item_name,omitempty"`
	Quantity int    `json:"quantity"`
}

// TransactionResponse salida de una transacción con sus líneas.
type TransactionResponse struct {
	ID            string                    `json:"id"`
	Code          string                    `json:"code"`
	DocumentNo    string                    `json:"document_no"`
	Type          string                    `json:"type"`
	Status        string                    `json:"status"`
	Notes         string                    `json:"notes"`
	ExternalParty string                    `json:"external_party"`
	CreatedBy     UserRefResponse           `json:"created_by"`
	ApprovedBy    *UserRefResponse          `json:"approved_by"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Lines         []TransactionLineResponse `json:"items"`
}
