package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/ports"
)

// NetsisHandler expone el puente hacia el ERP externo.
type NetsisHandler struct {
	bridge ports.ErpBridge
}

// NewNetsisHandler construye el handler.
func NewNetsisHandler(bridge ports.ErpBridge) *NetsisHandler {
	return &NetsisHandler{bridge: bridge}
}

// Health godoc
// @Summary      Estado del ERP externo
// @Tags         netsis
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/netsis/health [get]
func (h *NetsisHandler) Health(c *fiber.Ctx) error {
	if err := h.bridge.CheckHealth(c.Context()); err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ERP_DOWN", Message: err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// GetStock godoc
// @Summary      Consultar saldo de un material en el ERP
// @Tags         netsis
// @Produce      json
// @Param        code  path  string  true  "Código del material"
// @Success      200  {object}  dto.ErpStockDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/netsis/stock/{code} [get]
func (h *NetsisHandler) GetStock(c *fiber.Ctx) error {
	stock, err := h.bridge.GetStock(c.Context(), c.Params("code"))
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ERP_ERROR", Message: err.Error()})
	}
	return c.JSON(stock)
}

// PullStock godoc
// @Summary      Traer saldos del ERP para una lista de códigos
// @Tags         netsis
// @Accept       json
// @Produce      json
// @Param        body  body  object  true  "material_codes: lista de códigos"
// @Success      200  {array}  dto.ErpStockDTO
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/netsis/stock/pull [post]
func (h *NetsisHandler) PullStock(c *fiber.Ctx) error {
	var req struct {
		MaterialCodes []string `json:"material_codes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	stocks, err := h.bridge.SyncFromNetsis(c.Context(), req.MaterialCodes)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "ERP_ERROR", Message: err.Error()})
	}
	return c.JSON(stocks)
}
