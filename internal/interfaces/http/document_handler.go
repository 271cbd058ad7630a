package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/conversion"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// DocumentHandler maneja las peticiones HTTP de documentos de negocio.
type DocumentHandler struct {
	uc         *usecase.DocumentUseCase
	transition *conversion.TransitionUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase, transition *conversion.TransitionUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc, transition: transition}
}

// Create godoc
// @Summary      Crear documento en borrador
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "type, cabecera y líneas"
// @Success      201   {object}  dto.DocumentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	doc, err := h.uc.Create(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDocumentDTO(doc))
}

// GetByID godoc
// @Summary      Obtener documento con líneas
// @Tags         documents
// @Produce      json
// @Param        id   path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	doc, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDocumentDTO(doc))
}

// List godoc
// @Summary      Listar documentos
// @Tags         documents
// @Produce      json
// @Param        type    query  string  false  "Filtrar por tipo (REQUISITION, PURCHASE_ORDER, ...)"
// @Param        status  query  string  false  "Filtrar por estado"
// @Param        limit   query  int     false  "Máximo de resultados (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.DocumentDTO
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválido"})
	}
	page.DefaultPage()
	docs, err := h.uc.List(c.Context(), c.Query("type"), c.Query("status"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.DocumentDTO, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentDTO(d))
	}
	return c.JSON(fiber.Map{"total": len(out), "documents": out})
}

// Transition godoc
// @Summary      Transicionar un documento de estado
// @Description  Aplica una transición del grafo del tipo. Entrega→ISSUED postea
//
//	la salida de mercancía; Factura→POSTED aplica el cumplimiento de
//	facturación; Factura POSTED→CANCELLED la anula sin revertir stock.
//
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID del documento"
// @Param        body  body  dto.TransitionRequest  true  "target: estado destino"
// @Success      200   {object}  dto.DocumentDTO
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/transition [post]
func (h *DocumentHandler) Transition(c *fiber.Ctx) error {
	var req dto.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	userID := c.Get("X-User-Id")
	doc, err := h.transition.Transition(c.Context(), c.Params("id"), entity.DocumentStatus(req.Target), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toDocumentDTO(doc))
}
