package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un material o SKU del inventario.
// CurrentStock es el agregado autoritativo; para materiales con lote debe ser
// siempre igual a la suma de RemainingQuantity de sus lotes. Se muta únicamente
// a través del posteo de movimientos.
type Material struct {
	ID                 string
	Code               string // código único
	Name               string
	UnitOfMeasure      string
	CurrentStock       decimal.Decimal
	MinStockLevel      decimal.Decimal
	BatchTracked       bool
	AllowNegativeStock bool // si true, las salidas pueden dejar stock negativo
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BelowMinStock indica si el stock actual está por debajo del mínimo configurado.
func (m *Material) BelowMinStock() bool {
	return m.CurrentStock.LessThan(m.MinStockLevel)
}
