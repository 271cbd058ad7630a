package repository

import "context"

// SequenceRepository emite consecutivos por tipo de documento y año para la
// numeración humana (REQ-2026-000014). Debe usarse dentro de la transacción
// que crea el documento para no quemar números en rollbacks visibles.
type SequenceRepository interface {
	Next(ctx context.Context, docType string, year int) (int64, error)
}
