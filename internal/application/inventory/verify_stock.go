package inventory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// VerifyStockUseCase audita el agregado de stock de un material contra sus dos
// fuentes de verdad derivables: el replay del historial de movimientos
// (append-only) y la suma de remanentes de lotes. El agregado es una
// proyección cacheada; esta ruta de recomputación hace detectables los bugs de
// consistencia en vez de solo confiar en el invariante.
type VerifyStockUseCase struct {
	materialRepo repository.MaterialRepository
	batchRepo    repository.BatchRepository
	movRepo      repository.MovementRepository
}

// NewVerifyStockUseCase construye el caso de uso (solo lecturas, sin tx).
func NewVerifyStockUseCase(
	materialRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
) *VerifyStockUseCase {
	return &VerifyStockUseCase{materialRepo: materialRepo, batchRepo: batchRepo, movRepo: movRepo}
}

// Verify recalcula y compara. Consistent es true solo si el agregado coincide
// con el replay y, para materiales con lote, con la suma de lotes.
func (uc *VerifyStockUseCase) Verify(ctx context.Context, materialID string) (*dto.StockVerificationDTO, error) {
	material, err := uc.materialRepo.GetByID(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}

	replayed, err := uc.movRepo.SumByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	out := &dto.StockVerificationDTO{
		MaterialID:    material.ID,
		MaterialCode:  material.Code,
		CurrentStock:  material.CurrentStock,
		ReplayedStock: replayed,
		Consistent:    material.CurrentStock.Equal(replayed),
	}
	if material.BatchTracked {
		batchSum, err := uc.batchRepo.SumRemainingByMaterial(ctx, materialID)
		if err != nil {
			return nil, err
		}
		out.BatchSum = &batchSum
		out.Consistent = out.Consistent && material.CurrentStock.Equal(batchSum)
	}
	return out, nil
}
