package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	UnitOfMeasure      string          `json:"unit_of_measure"`
	MinStockLevel      decimal.Decimal `json:"min_stock_level"`
	BatchTracked       bool            `json:"batch_tracked"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
}

// MaterialDTO material con su agregado de stock.
type MaterialDTO struct {
	ID                 string          `json:"id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	UnitOfMeasure      string          `json:"unit_of_measure"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	MinStockLevel      decimal.Decimal `json:"min_stock_level"`
	BatchTracked       bool            `json:"batch_tracked"`
	AllowNegativeStock bool            `json:"allow_negative_stock"`
	BelowMinStock      bool            `json:"below_min_stock"`
	CreatedAt          time.Time       `json:"created_at"`
}

// CreateBatchRequest body para POST /api/materials/:id/batches. La cantidad
// inicial entra al stock vía un movimiento INBOUND, no aquí.
type CreateBatchRequest struct {
	BatchNumber string `json:"batch_number"`
}

// BatchDTO lote de material con remanente y estado.
type BatchDTO struct {
	ID                string          `json:"id"`
	MaterialID        string          `json:"material_id"`
	BatchNumber       string          `json:"batch_number"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}
