package http

import (
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

func toDocumentDTO(doc *entity.Document) dto.DocumentDTO {
	out := dto.DocumentDTO{
		ID:         doc.ID,
		Number:     doc.Number,
		Type:       string(doc.Type),
		Status:     string(doc.Status),
		PartnerID:  doc.PartnerID,
		CompanyID:  doc.CompanyID,
		BranchID:   doc.BranchID,
		PurchOrgID: doc.PurchOrgID,
		Currency:   doc.Currency,
		Date:       doc.Date,
		Notes:      doc.Notes,
	}
	for _, l := range doc.Lines {
		out.Lines = append(out.Lines, dto.DocumentLineDTO{
			ID:                l.ID,
			MaterialID:        l.MaterialID,
			BatchID:           l.BatchID,
			Quantity:          l.Quantity,
			Unit:              l.Unit,
			FulfilledQuantity: l.FulfilledQuantity,
			OpenQuantity:      l.OpenQuantity(),
			SourceLineID:      l.SourceLineID,
		})
	}
	return out
}

func toMovementDocumentDTO(doc *entity.MaterialDocument) dto.MovementDocumentDTO {
	out := dto.MovementDocumentDTO{
		ID:           doc.ID,
		Number:       doc.Number,
		MovementType: doc.MovementType,
		Date:         doc.Date,
		CreatedBy:    doc.CreatedBy,
	}
	for _, l := range doc.Lines {
		out.Lines = append(out.Lines, toMovementLineDTO(l))
	}
	return out
}

func toMovementLineDTO(l *entity.MovementLine) dto.MovementLineDTO {
	return dto.MovementLineDTO{
		ID:            l.ID,
		MaterialID:    l.MaterialID,
		BatchID:       l.BatchID,
		Quantity:      l.Quantity,
		DebitCredit:   l.DebitCredit,
		PreviousStock: l.PreviousStock,
		NewStock:      l.NewStock,
		RefItemID:     l.RefItemID,
	}
}

func toMaterialDTO(m *entity.Material) dto.MaterialDTO {
	return dto.MaterialDTO{
		ID:                 m.ID,
		Code:               m.Code,
		Name:               m.Name,
		UnitOfMeasure:      m.UnitOfMeasure,
		CurrentStock:       m.CurrentStock,
		MinStockLevel:      m.MinStockLevel,
		BatchTracked:       m.BatchTracked,
		AllowNegativeStock: m.AllowNegativeStock,
		BelowMinStock:      m.BelowMinStock(),
		CreatedAt:          m.CreatedAt,
	}
}

func toBatchDTO(b *entity.MaterialBatch) dto.BatchDTO {
	return dto.BatchDTO{
		ID:                b.ID,
		MaterialID:        b.MaterialID,
		BatchNumber:       b.BatchNumber,
		RemainingQuantity: b.RemainingQuantity,
		Status:            string(b.Status),
		CreatedAt:         b.CreatedAt,
	}
}
