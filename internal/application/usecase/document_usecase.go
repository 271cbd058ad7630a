package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/docflow"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// DocumentUseCase maneja el CRUD de documentos de negocio. Las transiciones y
// conversiones viven en el paquete conversion; aquí solo creación y lectura.
type DocumentUseCase struct {
	docRepo  repository.DocumentRepository
	txRunner inventory.TxRunner
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(docRepo repository.DocumentRepository, txRunner inventory.TxRunner) *DocumentUseCase {
	return &DocumentUseCase{docRepo: docRepo, txRunner: txRunner}
}

// Create crea un documento en DRAFT con número consecutivo por tipo y año.
func (uc *DocumentUseCase) Create(ctx context.Context, req dto.CreateDocumentRequest) (*entity.Document, error) {
	docType := entity.DocumentType(req.Type)
	if !docflow.ValidType(docType) {
		return nil, fmt.Errorf("tipo de documento %q: %w", req.Type, domain.ErrInvalidInput)
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("documento sin líneas: %w", domain.ErrInvalidInput)
	}
	for _, l := range req.Lines {
		if l.MaterialID == "" {
			return nil, domain.ErrInvalidInput
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.NewLineError(l.MaterialID, l.Quantity, decimal.Zero, domain.ErrInvalidQuantity)
		}
	}

	var doc *entity.Document
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.MaterialRepository,
		_ repository.BatchRepository,
		_ repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error {
		now := time.Now()
		seq, err := seqRepo.Next(ctx, string(docType), now.Year())
		if err != nil {
			return err
		}
		doc = &entity.Document{
			ID:         uuid.New().String(),
			Number:     fmt.Sprintf("%s-%d-%06d", docflow.NumberPrefix(docType), now.Year(), seq),
			Type:       docType,
			Status:     docflow.Initial(docType),
			PartnerID:  req.PartnerID,
			CompanyID:  req.CompanyID,
			BranchID:   req.BranchID,
			PurchOrgID: req.PurchOrgID,
			Currency:   req.Currency,
			Date:       now,
			Notes:      req.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := docRepo.Create(ctx, doc); err != nil {
			return err
		}
		for _, l := range req.Lines {
			line := &entity.DocumentLine{
				ID:                uuid.New().String(),
				DocumentID:        doc.ID,
				MaterialID:        l.MaterialID,
				BatchID:           l.BatchID,
				Quantity:          l.Quantity,
				Unit:              l.Unit,
				FulfilledQuantity: decimal.Zero,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if err := docRepo.CreateLine(ctx, line); err != nil {
				return err
			}
			doc.Lines = append(doc.Lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Get devuelve el documento con sus líneas.
func (uc *DocumentUseCase) Get(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	doc.Lines, err = uc.docRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List devuelve documentos filtrados por tipo y/o estado, paginados.
func (uc *DocumentUseCase) List(ctx context.Context, docType, status string, limit, offset int) ([]*entity.Document, error) {
	if docType != "" && !docflow.ValidType(entity.DocumentType(docType)) {
		return nil, fmt.Errorf("tipo de documento %q: %w", docType, domain.ErrInvalidInput)
	}
	return uc.docRepo.List(ctx, entity.DocumentType(docType), entity.DocumentStatus(status), limit, offset)
}
