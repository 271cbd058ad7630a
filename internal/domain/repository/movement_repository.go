package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del historial de
// movimientos. Las líneas son append-only: jamás se actualizan ni se borran.
type MovementRepository interface {
	CreateDocument(ctx context.Context, doc *entity.MaterialDocument) error
	CreateLine(ctx context.Context, line *entity.MovementLine) error
	// GetDocumentByID devuelve el documento con sus líneas, o nil si no existe
	// (chequeo de idempotencia del posteo).
	GetDocumentByID(ctx context.Context, id string) (*entity.MaterialDocument, error)
	ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.MovementLine, error)
	// SumByMaterial devuelve Σ cantidad firmada (S positivo, H negativo) del
	// historial completo del material: la ruta de recomputación por replay.
	SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error)
}
