package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia de lotes.
type BatchRepository interface {
	Create(ctx context.Context, b *entity.MaterialBatch) error
	GetByID(ctx context.Context, id string) (*entity.MaterialBatch, error)
	GetForUpdate(ctx context.Context, id string) (*entity.MaterialBatch, error)
	Update(ctx context.Context, b *entity.MaterialBatch) error
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.MaterialBatch, error)
	// SumRemainingByMaterial recalcula Σ RemainingQuantity de los lotes del material
	// (ruta de verificación del invariante agregado == suma de lotes).
	SumRemainingByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error)
}
