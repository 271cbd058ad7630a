package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock: posteo de
// movimientos, historial, verificación de consistencia y lista bajo mínimo.
type InventoryHandler struct {
	poster   *inventory.PostMovementUseCase
	verify   *inventory.VerifyStockUseCase
	lowStock *inventory.LowStockUseCase
	movRepo  repository.MovementRepository
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	poster *inventory.PostMovementUseCase,
	verify *inventory.VerifyStockUseCase,
	lowStock *inventory.LowStockUseCase,
	movRepo repository.MovementRepository,
) *InventoryHandler {
	return &InventoryHandler{poster: poster, verify: verify, lowStock: lowStock, movRepo: movRepo}
}

// PostMovement godoc
// @Summary      Postear un movimiento de material
// @Description  Aplica atómicamente todas las líneas del movimiento. Repostear
//
//	el mismo id devuelve el documento ya existente (idempotente).
//
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostMovementRequest  true  "type, líneas y clave de idempotencia opcional"
// @Success      201   {object}  dto.MovementDocumentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) PostMovement(c *fiber.Ctx) error {
	var req dto.PostMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := inventory.MovementInputDTO{
		ID:     req.ID,
		Type:   req.Type,
		UserID: c.Get("X-User-Id"),
	}
	for _, l := range req.Lines {
		input.Lines = append(input.Lines, inventory.MovementLineInput{
			MaterialID:  l.MaterialID,
			BatchID:     l.BatchID,
			ToBatchID:   l.ToBatchID,
			Quantity:    l.Quantity,
			DebitCredit: l.DebitCredit,
			RefItemID:   l.RefItemID,
		})
	}
	doc, err := h.poster.Post(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementDocumentDTO(doc))
}

// ListMovements godoc
// @Summary      Historial de movimientos de un material
// @Tags         inventory
// @Produce      json
// @Param        id      path   string  true   "ID del material"
// @Param        limit   query  int     false  "Máximo de resultados (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.MovementLineDTO
// @Router       /api/inventory/materials/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	lines, err := h.movRepo.ListByMaterial(c.Context(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.MovementLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, toMovementLineDTO(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// VerifyStock godoc
// @Summary      Verificar consistencia de stock de un material
// @Description  Compara el agregado cacheado contra el replay del historial de
//
//	movimientos y contra la suma de lotes (materiales con lote).
//
// @Tags         inventory
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.StockVerificationDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/materials/{id}/verify [get]
func (h *InventoryHandler) VerifyStock(c *fiber.Ctx) error {
	result, err := h.verify.Verify(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(result)
}

// LowStockList godoc
// @Summary      Materiales bajo stock mínimo
// @Tags         inventory
// @Produce      json
// @Success      200  {array}  dto.LowStockItemDTO
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStockList(c *fiber.Ctx) error {
	items, err := h.lowStock.List(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "materials": items})
}
