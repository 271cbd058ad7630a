package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
)

// statusCodes mapeo sentinel → (HTTP status, código de error estable para clientes).
var statusCodes = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrOverFulfillment, fiber.StatusConflict, "OVER_FULFILLMENT"},
	{domain.ErrIllegalTransition, fiber.StatusConflict, "ILLEGAL_TRANSITION"},
	{domain.ErrConversionNotAllowed, fiber.StatusConflict, "CONVERSION_NOT_ALLOWED"},
	{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT"},
}

// writeError traduce los errores de dominio a respuestas HTTP. Si el error es
// un LineError, incluye línea, pedido y disponible para que el cliente sepa
// exactamente qué línea rechazó la operación.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "INTERNAL"
	for _, m := range statusCodes {
		if errors.Is(err, m.err) {
			status, code = m.status, m.code
			break
		}
	}

	var lineErr *domain.LineError
	if errors.As(err, &lineErr) {
		return c.Status(status).JSON(fiber.Map{
			"code":      code,
			"message":   err.Error(),
			"line_id":   lineErr.LineID,
			"requested": lineErr.Requested,
			"available": lineErr.Available,
		})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
}
