package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrInvalidQuantity      = errors.New("cantidad inválida")
	ErrOverFulfillment      = errors.New("la cantidad excede lo pendiente de la línea")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrIllegalTransition    = errors.New("transición de estado no permitida")
	ErrConversionNotAllowed = errors.New("la línea origen no está en un estado convertible")
	ErrConcurrencyConflict  = errors.New("conflicto de concurrencia: reintente la operación completa")
)

// LineError asocia un error de dominio a una línea concreta (documento o movimiento),
// con las cantidades solicitada y disponible para que la capa HTTP pueda construir
// un mensaje preciso ("línea X: solo 5 de 8 disponibles").
type LineError struct {
	LineID    string
	Requested decimal.Decimal
	Available decimal.Decimal
	Err       error
}

func (e *LineError) Error() string {
	switch {
	case errors.Is(e.Err, ErrOverFulfillment), errors.Is(e.Err, ErrInsufficientStock):
		return fmt.Sprintf("línea %s: solicitado %s, disponible %s: %v",
			e.LineID, e.Requested.String(), e.Available.String(), e.Err)
	default:
		return fmt.Sprintf("línea %s: %v", e.LineID, e.Err)
	}
}

// Unwrap permite errors.Is contra los centinelas.
func (e *LineError) Unwrap() error { return e.Err }

// NewLineError construye un LineError con cantidades.
func NewLineError(lineID string, requested, available decimal.Decimal, err error) *LineError {
	return &LineError{LineID: lineID, Requested: requested, Available: available, Err: err}
}
