// Package ledger implementa la contabilidad de cantidades por línea:
// cantidad pedida vs. cantidad cumplida y la cantidad pendiente derivada.
// Es un guardián puro sobre dos números; no sabe de documentos ni de stock y
// lo reutilizan idénticamente todas las rutas de conversión (REQ→OC, OC→GR,
// OV→Entrega, Entrega→Factura).
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// CanFulfill indica si la línea admite un cumplimiento de amount:
// amount > 0 y amount <= cantidad pendiente.
func CanFulfill(line *entity.DocumentLine, amount decimal.Decimal) bool {
	return amount.GreaterThan(decimal.Zero) && !amount.GreaterThan(line.OpenQuantity())
}

// ApplyFulfillment incrementa FulfilledQuantity y devuelve la nueva cantidad
// pendiente. Falla con ErrInvalidQuantity si amount <= 0 y con
// ErrOverFulfillment si amount > pendiente; en ambos casos la línea no se toca.
func ApplyFulfillment(line *entity.DocumentLine, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return line.OpenQuantity(), domain.NewLineError(line.ID, amount, line.OpenQuantity(), domain.ErrInvalidQuantity)
	}
	open := line.OpenQuantity()
	if amount.GreaterThan(open) {
		return open, domain.NewLineError(line.ID, amount, open, domain.ErrOverFulfillment)
	}
	line.FulfilledQuantity = line.FulfilledQuantity.Add(amount)
	return line.OpenQuantity(), nil
}
