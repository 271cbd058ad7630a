package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Manufactura-api/internal/application/conversion"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Ensure TxRunner implements ambos puertos transaccionales.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ conversion.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los conflictos de serialización y deadlocks se traducen
// a ErrConcurrencyConflict para que el interesado reintente.
func (r *TxRunner) Run(ctx context.Context, fn func(
	docRepo repository.DocumentRepository,
	materialRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	docRepo := NewDocumentRepository(tx)
	materialRepo := NewMaterialRepository(tx)
	batchRepo := NewBatchRepository(tx)
	movRepo := NewMovementRepository(tx)
	seqRepo := NewSequenceRepository(tx)

	if err := fn(docRepo, materialRepo, batchRepo, movRepo, seqRepo); err != nil {
		if isConcurrencyConflict(err) {
			return fmt.Errorf("%v: %w", err, domain.ErrConcurrencyConflict)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isConcurrencyConflict(err) {
			return fmt.Errorf("commit transaction: %w", domain.ErrConcurrencyConflict)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
