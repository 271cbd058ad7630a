package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// MaterialUseCase maneja el catálogo de materiales y sus lotes. El stock nunca
// se escribe aquí: solo lo mueve el posteador de movimientos.
type MaterialUseCase struct {
	materialRepo repository.MaterialRepository
	batchRepo    repository.BatchRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(materialRepo repository.MaterialRepository, batchRepo repository.BatchRepository) *MaterialUseCase {
	return &MaterialUseCase{materialRepo: materialRepo, batchRepo: batchRepo}
}

// Create registra un material con stock cero.
func (uc *MaterialUseCase) Create(ctx context.Context, req dto.CreateMaterialRequest) (*entity.Material, error) {
	if req.Code == "" || req.Name == "" || req.UnitOfMeasure == "" {
		return nil, domain.ErrInvalidInput
	}
	if req.MinStockLevel.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	material := &entity.Material{
		ID:                 uuid.New().String(),
		Code:               req.Code,
		Name:               req.Name,
		UnitOfMeasure:      req.UnitOfMeasure,
		CurrentStock:       decimal.Zero,
		MinStockLevel:      req.MinStockLevel,
		BatchTracked:       req.BatchTracked,
		AllowNegativeStock: req.AllowNegativeStock,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.materialRepo.Create(ctx, material); err != nil {
		return nil, err
	}
	return material, nil
}

// Get devuelve un material por ID.
func (uc *MaterialUseCase) Get(ctx context.Context, id string) (*entity.Material, error) {
	material, err := uc.materialRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return material, nil
}

// List devuelve materiales paginados.
func (uc *MaterialUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Material, error) {
	return uc.materialRepo.List(ctx, limit, offset)
}

// CreateBatch registra un lote vacío para un material con manejo de lote.
// La cantidad entra después con un movimiento INBOUND sobre el lote.
func (uc *MaterialUseCase) CreateBatch(ctx context.Context, materialID string, req dto.CreateBatchRequest) (*entity.MaterialBatch, error) {
	if req.BatchNumber == "" {
		return nil, domain.ErrInvalidInput
	}
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	if !material.BatchTracked {
		return nil, fmt.Errorf("material %s no maneja lote: %w", material.Code, domain.ErrInvalidInput)
	}
	now := time.Now()
	batch := &entity.MaterialBatch{
		ID:                uuid.New().String(),
		MaterialID:        materialID,
		BatchNumber:       req.BatchNumber,
		RemainingQuantity: decimal.Zero,
		Status:            entity.BatchStatusAvailable,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.batchRepo.Create(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

// ListBatches devuelve los lotes de un material.
func (uc *MaterialUseCase) ListBatches(ctx context.Context, materialID string) ([]*entity.MaterialBatch, error) {
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	return uc.batchRepo.ListByMaterial(ctx, materialID)
}
