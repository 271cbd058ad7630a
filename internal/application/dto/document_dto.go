package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentLineRequest línea del body de creación de documento.
type DocumentLineRequest struct {
	MaterialID string          `json:"material_id"`
	BatchID    string          `json:"batch_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit,omitempty"`
}

// CreateDocumentRequest body para POST /api/documents. El documento nace en
// DRAFT con número consecutivo asignado por el servidor.
type CreateDocumentRequest struct {
	Type       string                `json:"type"`
	PartnerID  string                `json:"partner_id,omitempty"`
	CompanyID  string                `json:"company_id,omitempty"`
	BranchID   string                `json:"branch_id,omitempty"`
	PurchOrgID string                `json:"purch_org_id,omitempty"`
	Currency   string                `json:"currency,omitempty"`
	Notes      string                `json:"notes,omitempty"`
	Lines      []DocumentLineRequest `json:"lines"`
}

// TransitionRequest body para POST /api/documents/:id/transition.
type TransitionRequest struct {
	Target string `json:"target"`
}

// DocumentLineDTO línea de documento con contabilidad de cantidades.
type DocumentLineDTO struct {
	ID                string          `json:"id"`
	MaterialID        string          `json:"material_id"`
	BatchID           string          `json:"batch_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit,omitempty"`
	FulfilledQuantity decimal.Decimal `json:"fulfilled_quantity"`
	OpenQuantity      decimal.Decimal `json:"open_quantity"`
	SourceLineID      string          `json:"source_line_id,omitempty"`
}

// DocumentDTO cabecera de documento con sus líneas.
type DocumentDTO struct {
	ID         string            `json:"id"`
	Number     string            `json:"number"`
	Type       string            `json:"type"`
	Status     string            `json:"status"`
	PartnerID  string            `json:"partner_id,omitempty"`
	CompanyID  string            `json:"company_id,omitempty"`
	BranchID   string            `json:"branch_id,omitempty"`
	PurchOrgID string            `json:"purch_org_id,omitempty"`
	Currency   string            `json:"currency,omitempty"`
	Date       time.Time         `json:"date"`
	Notes      string            `json:"notes,omitempty"`
	Lines      []DocumentLineDTO `json:"lines,omitempty"`
}
