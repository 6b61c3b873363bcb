package inventory

import (
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

func toUserRef(u *repository.UserRef) *dto.UserRefResponse {
	if u == nil {
		return nil
	}
	return &dto.UserRefResponse{ID: u.ID, Username: u.Username, Name: u.Name}
}

func toItemResponse(d *repository.ItemDetail) *dto.ItemResponse {
	it := d.Item
	return &dto.ItemResponse{
		ID:          it.ID,
		Code:        it.Code,
		Name:        it.Name,
		Description: it.Description,
		Quantity:    it.Quantity,
		CreatedBy:   toUserRef(d.Creator),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

func toTransactionResponse(d *repository.TransactionDetail) *dto.TransactionResponse {
	t := d.Transaction
	out := &dto.TransactionResponse{
		ID:            t.ID,
		Code:          t.Code,
		DocumentNo:    t.DocumentNo,
		Type:          t.Type,
		Status:        t.Status,
		Notes:         t.Notes,
		ExternalParty: t.ExternalParty,
		CreatedBy:     dto.UserRefResponse{ID: t.CreatedBy},
		ApprovedBy:    toUserRef(d.Approver),
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Lines:         make([]dto.TransactionLineResponse, 0, len(d.Lines)),
	}
	if d.Creator != nil {
		out.CreatedBy = *toUserRef(d.Creator)
	}
	if out.ApprovedBy == nil && t.ApprovedBy != nil {
		out.ApprovedBy = &dto.UserRefResponse{ID: *t.ApprovedBy}
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, dto.TransactionLineResponse{
			ID:       l.Line.ID,
			ItemID:   l.Line.ItemID,
			ItemCode: l.ItemCode,
			ItemName: l.ItemName,
			Quantity: l.Line.Quantity,
		})
	}
	return out
}
