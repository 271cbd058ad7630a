package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchStatusAvailable  = "AVAILABLE"
	BatchStatusReserved   = "RESERVED"
	BatchStatusQuarantine = "QUARANTINE"
	BatchStatusExpired    = "EXPIRED"
	BatchStatusConsumed   = "CONSUMED"
)

// MaterialBatch representa un sub-lote trazable de un material con su cantidad
// remanente y estado de calidad. RemainingQuantity nunca es negativa; el estado
// pasa a CONSUMED solo cuando llega a cero vía una salida posteada.
type MaterialBatch struct {
	ID                string
	MaterialID        string
	BatchNumber       string // único por material
	RemainingQuantity decimal.Decimal
	Status            string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Issuable indica si el lote admite salidas (disponible o reservado).
func (b *MaterialBatch) Issuable() bool {
	return b.Status == BatchStatusAvailable || b.Status == BatchStatusReserved
}
