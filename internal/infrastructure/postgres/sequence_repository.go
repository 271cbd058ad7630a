package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo emite consecutivos por tipo y año con un upsert atómico sobre
// una tabla de contadores: ningún par de transacciones obtiene el mismo número.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo para el tipo y año dados.
func (r *SequenceRepo) Next(ctx context.Context, docType string, year int) (int64, error) {
	query := `
		INSERT INTO document_sequences (doc_type, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (doc_type, year)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var next int64
	if err := r.q.QueryRow(ctx, query, docType, year).Scan(&next); err != nil {
		return 0, fmt.Errorf("next sequence %s/%d: %w", docType, year, err)
	}
	return next, nil
}
