package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest línea del body para POST /api/inventory/movements.
type MovementLineRequest struct {
	MaterialID  string          `json:"material_id"`
	BatchID     string          `json:"batch_id,omitempty"`
	ToBatchID   string          `json:"to_batch_id,omitempty"` // solo TRANSFER
	Quantity    decimal.Decimal `json:"quantity"`
	DebitCredit string          `json:"debit_credit,omitempty"` // solo ADJUSTMENT: S o H
	RefItemID   string          `json:"ref_item_id,omitempty"`  // línea de documento a cumplir
}

// PostMovementRequest body para postear un movimiento. ID es la clave de
// idempotencia del cliente; omitirlo hace el posteo no reintentable.
type PostMovementRequest struct {
	ID    string                `json:"id,omitempty"`
	Type  string                `json:"type"`
	Lines []MovementLineRequest `json:"lines"`
}

// MovementLineDTO línea inmutable del libro de stock, con snapshot
// antes/después del agregado.
type MovementLineDTO struct {
	ID            string          `json:"id"`
	MaterialID    string          `json:"material_id"`
	BatchID       string          `json:"batch_id,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	DebitCredit   string          `json:"debit_credit"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	RefItemID     string          `json:"ref_item_id,omitempty"`
}

// MovementDocumentDTO documento de material posteado.
type MovementDocumentDTO struct {
	ID           string            `json:"id"`
	Number       string            `json:"number"`
	MovementType string            `json:"movement_type"`
	Date         time.Time         `json:"date"`
	CreatedBy    string            `json:"created_by,omitempty"`
	Lines        []MovementLineDTO `json:"lines"`
}

// StockVerificationDTO resultado de la auditoría de consistencia de un
// material: agregado vs replay de movimientos vs suma de lotes.
type StockVerificationDTO struct {
	MaterialID    string           `json:"material_id"`
	MaterialCode  string           `json:"material_code"`
	CurrentStock  decimal.Decimal  `json:"current_stock"`
	ReplayedStock decimal.Decimal  `json:"replayed_stock"`
	BatchSum      *decimal.Decimal `json:"batch_sum,omitempty"` // solo materiales con lote
	Consistent    bool             `json:"consistent"`
}

// LowStockItemDTO material por debajo de su stock mínimo.
type LowStockItemDTO struct {
	MaterialID    string          `json:"material_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	Deficit       decimal.Decimal `json:"deficit"`
	Unit          string          `json:"unit"`
}
