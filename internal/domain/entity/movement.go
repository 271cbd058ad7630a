package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeInbound       = "INBOUND"        // recepción de mercancía (entrada)
	MovementTypeOutbound      = "OUTBOUND"       // salida / despacho
	MovementTypeProductionIn  = "PRODUCTION_IN"  // entrada por producción
	MovementTypeProductionOut = "PRODUCTION_OUT" // consumo de producción
	MovementTypeAdjustment    = "ADJUSTMENT"     // ajuste (+/- según DebitCredit)
	MovementTypeTransfer      = "TRANSFER"       // traslado entre lotes del mismo material
	MovementTypeReturn        = "RETURN"         // devolución (entrada compensatoria)
	MovementTypeWaste         = "WASTE"          // merma / desperdicio
)

// Sentido contable del movimiento sobre el stock.
const (
	DebitCreditS = "S" // aumenta stock
	DebitCreditH = "H" // disminuye stock
)

// DirectionFor devuelve el sentido S/H implícito del tipo de movimiento.
// ADJUSTMENT y TRANSFER no tienen sentido fijo: el ajuste lo trae explícito
// y el traslado genera un par H/S; para ambos ok es false.
func DirectionFor(movementType string) (direction string, ok bool) {
	switch movementType {
	case MovementTypeInbound, MovementTypeProductionIn, MovementTypeReturn:
		return DebitCreditS, true
	case MovementTypeOutbound, MovementTypeProductionOut, MovementTypeWaste:
		return DebitCreditH, true
	default:
		return "", false
	}
}

// ValidMovementType indica si el tipo de movimiento es conocido.
func ValidMovementType(movementType string) bool {
	switch movementType {
	case MovementTypeInbound, MovementTypeOutbound, MovementTypeProductionIn,
		MovementTypeProductionOut, MovementTypeAdjustment, MovementTypeTransfer,
		MovementTypeReturn, MovementTypeWaste:
		return true
	}
	return false
}

// MaterialDocument es la cabecera de un posteo de movimientos. El ID lo aporta
// el cliente y funciona como clave de idempotencia: postear dos veces el mismo
// ID es un no-op que devuelve el documento ya registrado.
type MaterialDocument struct {
	ID           string
	Number       string // MD-<año>-<consecutivo>
	MovementType string
	Date         time.Time
	CreatedAt    time.Time
	CreatedBy    string
	Lines        []*MovementLine
}

// MovementLine es el registro inmutable de un cambio físico de stock con
// snapshot antes/después al momento del posteo. Nunca se actualiza ni se
// borra; las correcciones son movimientos compensatorios (RETURN, ADJUSTMENT).
type MovementLine struct {
	ID            string
	DocumentID    string
	MaterialID    string
	BatchID       string // vacío si el material no maneja lote
	Quantity      decimal.Decimal
	DebitCredit   string // S aumenta, H disminuye
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
	RefItemID     string // línea de documento origen (linaje de conversión)
	CreatedAt     time.Time
}

// SignedQuantity devuelve la cantidad con signo según el sentido (S positivo, H negativo).
func (l *MovementLine) SignedQuantity() decimal.Decimal {
	if l.DebitCredit == DebitCreditH {
		return l.Quantity.Neg()
	}
	return l.Quantity
}
