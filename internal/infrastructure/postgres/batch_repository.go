package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, material_id, batch_number, remaining_quantity, status, created_at, updated_at`

// Create persiste un lote. Número de lote duplicado por material devuelve ErrDuplicate.
func (r *BatchRepo) Create(ctx context.Context, b *entity.MaterialBatch) error {
	query := `
		INSERT INTO material_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.MaterialID, b.BatchNumber, b.RemainingQuantity, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("lote %s: %w", b.BatchNumber, domain.ErrDuplicate)
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

func (r *BatchRepo) scanOne(row pgx.Row) (*entity.MaterialBatch, error) {
	var b entity.MaterialBatch
	err := row.Scan(&b.ID, &b.MaterialID, &b.BatchNumber, &b.RemainingQuantity, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}
	return &b, nil
}

// GetByID obtiene un lote por ID (nil si no existe).
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.MaterialBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM material_batches WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.MaterialBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM material_batches WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// Update escribe remanente y estado del lote.
func (r *BatchRepo) Update(ctx context.Context, b *entity.MaterialBatch) error {
	query := `
		UPDATE material_batches
		SET remaining_quantity = $2, status = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, b.ID, b.RemainingQuantity, b.Status, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByMaterial devuelve los lotes de un material ordenados por número.
func (r *BatchRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.MaterialBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM material_batches WHERE material_id = $1 ORDER BY batch_number`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.MaterialBatch
	for rows.Next() {
		var b entity.MaterialBatch
		if err := rows.Scan(&b.ID, &b.MaterialID, &b.BatchNumber, &b.RemainingQuantity, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// SumRemainingByMaterial recalcula Σ remanentes de los lotes del material.
func (r *BatchRepo) SumRemainingByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(remaining_quantity), 0) FROM material_batches WHERE material_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, materialID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum batches: %w", err)
	}
	return sum, nil
}
