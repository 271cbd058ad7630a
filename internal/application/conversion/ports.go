package conversion

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner es el mismo contrato transaccional del motor de inventario;
// se declara aquí para que el paquete dependa solo de su propio puerto.
// La implementación de postgres satisface ambos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		materialRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
