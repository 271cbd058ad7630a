package inventory

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que cada secuencia read-check-write
// del motor (posteo, conversión, transición) sea una única unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		materialRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error) error
}
