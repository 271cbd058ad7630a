package inventory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// LowStockUseCase devuelve los materiales por debajo de su stock mínimo con el
// déficit calculado, ordenados por mayor déficit (lo resuelve el repositorio).
type LowStockUseCase struct {
	materialRepo repository.MaterialRepository
}

// NewLowStockUseCase construye el caso de uso.
func NewLowStockUseCase(materialRepo repository.MaterialRepository) *LowStockUseCase {
	return &LowStockUseCase{materialRepo: materialRepo}
}

// List genera la lista de materiales bajo mínimo.
func (uc *LowStockUseCase) List(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	materials, err := uc.materialRepo.ListBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LowStockItemDTO, 0, len(materials))
	for _, m := range materials {
		items = append(items, dto.LowStockItemDTO{
			MaterialID:    m.ID,
			Code:          m.Code,
			Name:          m.Name,
			CurrentStock:  m.CurrentStock,
			MinStockLevel: m.MinStockLevel,
			Deficit:       m.MinStockLevel.Sub(m.CurrentStock),
			Unit:          m.UnitOfMeasure,
		})
	}
	return items, nil
}
