package dto

import "github.com/shopspring/decimal"

// ConversionLineRequest una línea origen a convertir con la cantidad a
// consumir de su pendiente.
type ConversionLineRequest struct {
	SourceLineID string          `json:"source_line_id"`
	Amount       decimal.Decimal `json:"amount"`
	BatchID      string          `json:"batch_id,omitempty"` // lote para la línea destino (entregas)
}

// ConvertRequest body para POST /api/documents/convert.
type ConvertRequest struct {
	TargetType string                  `json:"target_type"`
	PartnerID  string                  `json:"partner_id,omitempty"`
	CompanyID  string                  `json:"company_id,omitempty"`
	BranchID   string                  `json:"branch_id,omitempty"`
	PurchOrgID string                  `json:"purch_org_id,omitempty"`
	Currency   string                  `json:"currency,omitempty"`
	Notes      string                  `json:"notes,omitempty"`
	Lines      []ConversionLineRequest `json:"lines"`
}
