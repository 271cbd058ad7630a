package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifica la variante cerrada de documento de negocio.
type DocumentType string

// Tipos de documento soportados por el motor de conversión.
const (
	DocTypeRequisition   DocumentType = "REQUISITION"
	DocTypePurchaseOrder DocumentType = "PURCHASE_ORDER"
	DocTypeQuotation     DocumentType = "QUOTATION"
	DocTypeSalesOrder    DocumentType = "SALES_ORDER"
	DocTypeDelivery      DocumentType = "DELIVERY"
	DocTypeInvoice       DocumentType = "INVOICE"
)

// DocumentStatus es un estado dentro del grafo de transiciones de un tipo.
type DocumentStatus string

// Estados (el conjunto válido depende del tipo; ver docflow).
const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusApproved  DocumentStatus = "APPROVED"
	StatusClosed    DocumentStatus = "CLOSED"
	StatusCancelled DocumentStatus = "CANCELLED"
	StatusConfirmed DocumentStatus = "CONFIRMED"
	StatusCompleted DocumentStatus = "COMPLETED"
	StatusSent      DocumentStatus = "SENT"
	StatusAccepted  DocumentStatus = "ACCEPTED"
	StatusRejected  DocumentStatus = "REJECTED"
	StatusExpired   DocumentStatus = "EXPIRED"
	StatusConverted DocumentStatus = "CONVERTED"
	StatusDelivered DocumentStatus = "DELIVERED"
	StatusBilled    DocumentStatus = "BILLED"
	StatusPicked    DocumentStatus = "PICKED"
	StatusIssued    DocumentStatus = "ISSUED"
	StatusPosted    DocumentStatus = "POSTED"
)

// Document es la cabecera común a requisiciones, órdenes, cotizaciones,
// entregas y facturas. Cabecera y líneas son mutables solo en DRAFT; al salir
// de DRAFT el documento nunca se borra físicamente (cancelar es un estado).
type Document struct {
	ID         string
	Number     string // <prefijo>-<año>-<consecutivo>, único por tipo
	Type       DocumentType
	Status     DocumentStatus
	PartnerID  string // proveedor o cliente según el tipo
	CompanyID  string // tripleta legal/organización de compras
	BranchID   string
	PurchOrgID string
	Currency   string
	Date       time.Time
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Lines      []*DocumentLine
}

// DocumentLine es una línea de documento con contabilidad de cantidades:
// Quantity es inmutable fuera de DRAFT; FulfilledQuantity solo crece y solo
// la mutan el orquestador de conversión o el posteador de movimientos.
type DocumentLine struct {
	ID                string
	DocumentID        string
	MaterialID        string
	BatchID           string // opcional: lote elegido (entregas)
	Quantity          decimal.Decimal
	Unit              string
	FulfilledQuantity decimal.Decimal
	SourceLineID      string // línea aguas arriba de la que se convirtió (a lo sumo una)
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OpenQuantity es la cantidad pendiente: Quantity - FulfilledQuantity.
// Invariante: nunca negativa.
func (l *DocumentLine) OpenQuantity() decimal.Decimal {
	return l.Quantity.Sub(l.FulfilledQuantity)
}

// FullyFulfilled indica si la línea no tiene cantidad pendiente.
func (l *DocumentLine) FullyFulfilled() bool {
	return !l.OpenQuantity().GreaterThan(decimal.Zero)
}
