package dto

import "github.com/shopspring/decimal"

// ErpStockDTO saldo de un material según el ERP externo.
type ErpStockDTO struct {
	MaterialCode string          `json:"material_code"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// ErpBatchStockDTO saldo por lote según el ERP externo.
type ErpBatchStockDTO struct {
	MaterialCode string          `json:"material_code"`
	BatchNumber  string          `json:"batch_number"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// ErpOrderLineDTO línea de una orden a replicar en el ERP.
type ErpOrderLineDTO struct {
	MaterialCode string          `json:"material_code"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit,omitempty"`
}

// ErpOrderDTO orden de compra o venta a replicar en el ERP.
type ErpOrderDTO struct {
	Number    string            `json:"number"`
	Type      string            `json:"type"`
	PartnerID string            `json:"partner_id,omitempty"`
	Currency  string            `json:"currency,omitempty"`
	Lines     []ErpOrderLineDTO `json:"lines"`
}

// ErpSyncResultDTO resultado de una sincronización con el ERP.
type ErpSyncResultDTO struct {
	Synced int    `json:"synced"`
	Failed int    `json:"failed"`
	Detail string `json:"detail,omitempty"`
}
