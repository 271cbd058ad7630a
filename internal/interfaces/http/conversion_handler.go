package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/conversion"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// ConversionHandler maneja las peticiones HTTP de conversión de documentos.
type ConversionHandler struct {
	uc *conversion.ConvertUseCase
}

// NewConversionHandler construye el handler.
func NewConversionHandler(uc *conversion.ConvertUseCase) *ConversionHandler {
	return &ConversionHandler{uc: uc}
}

// Convert godoc
// @Summary      Convertir líneas de documentos a un documento destino
// @Description  Crea el documento destino en DRAFT consumiendo pendiente de las
//
//	líneas origen. Todo el lote pasa o nada pasa: si una línea no es
//	convertible o excede su pendiente, no se crea nada.
//
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertRequest  true  "target_type, cabecera y líneas origen con cantidades"
// @Success      201   {object}  dto.DocumentDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents/convert [post]
func (h *ConversionHandler) Convert(c *fiber.Ctx) error {
	var req dto.ConvertRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	input := conversion.ConvertInputDTO{
		TargetType: entity.DocumentType(req.TargetType),
		UserID:     c.Get("X-User-Id"),
		Header: conversion.HeaderInputDTO{
			PartnerID:  req.PartnerID,
			CompanyID:  req.CompanyID,
			BranchID:   req.BranchID,
			PurchOrgID: req.PurchOrgID,
			Currency:   req.Currency,
			Notes:      req.Notes,
		},
	}
	var batchIDs []string
	hasBatches := false
	for _, l := range req.Lines {
		input.SourceLineIDs = append(input.SourceLineIDs, l.SourceLineID)
		input.Amounts = append(input.Amounts, l.Amount)
		batchIDs = append(batchIDs, l.BatchID)
		if l.BatchID != "" {
			hasBatches = true
		}
	}
	if hasBatches {
		input.BatchIDs = batchIDs
	}

	doc, err := h.uc.Convert(c.Context(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDocumentDTO(doc))
}
