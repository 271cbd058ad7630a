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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación de MovementRepository sobre PostgreSQL (usable
// con pool o tx). Las líneas son append-only: no hay UPDATE ni DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// CreateDocument persiste la cabecera del documento de material. ID repetido
// devuelve ErrDuplicate (el chequeo de idempotencia corre antes, pero dos
// posteos concurrentes del mismo ID chocan aquí).
func (r *MovementRepo) CreateDocument(ctx context.Context, doc *entity.MaterialDocument) error {
	query := `
		INSERT INTO material_documents (id, number, movement_type, date, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	createdBy := (*string)(nil)
	if doc.CreatedBy != "" {
		createdBy = &doc.CreatedBy
	}
	_, err := r.q.Exec(ctx, query, doc.ID, doc.Number, doc.MovementType, doc.Date, doc.CreatedAt, createdBy)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("documento de material %s: %w", doc.ID, domain.ErrDuplicate)
		}
		return fmt.Errorf("create material document: %w", err)
	}
	return nil
}

const movementLineColumns = `id, document_id, material_id, batch_id, quantity, debit_credit,
	previous_stock, new_stock, ref_item_id, created_at`

// CreateLine persiste una línea de movimiento (inmutable desde aquí).
func (r *MovementRepo) CreateLine(ctx context.Context, line *entity.MovementLine) error {
	query := `
		INSERT INTO movement_lines (` + movementLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	batchID := (*string)(nil)
	if line.BatchID != "" {
		batchID = &line.BatchID
	}
	refItemID := (*string)(nil)
	if line.RefItemID != "" {
		refItemID = &line.RefItemID
	}
	_, err := r.q.Exec(ctx, query,
		line.ID, line.DocumentID, line.MaterialID, batchID, line.Quantity, line.DebitCredit,
		line.PreviousStock, line.NewStock, refItemID, line.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement line: %w", err)
	}
	return nil
}

// GetDocumentByID devuelve el documento con sus líneas, o nil si no existe.
func (r *MovementRepo) GetDocumentByID(ctx context.Context, id string) (*entity.MaterialDocument, error) {
	query := `
		SELECT id, number, movement_type, date, created_at, created_by
		FROM material_documents WHERE id = $1`
	var doc entity.MaterialDocument
	var createdBy *string
	err := r.q.QueryRow(ctx, query, id).Scan(&doc.ID, &doc.Number, &doc.MovementType, &doc.Date, &doc.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get material document: %w", err)
	}
	if createdBy != nil {
		doc.CreatedBy = *createdBy
	}

	linesQuery := `
		SELECT ` + movementLineColumns + `
		FROM movement_lines WHERE document_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, linesQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		line, err := scanMovementLine(rows)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, line)
	}
	return &doc, rows.Err()
}

// ListByMaterial lista las líneas del historial de un material, más recientes primero.
func (r *MovementRepo) ListByMaterial(ctx context.Context, materialID string, limit, offset int) ([]*entity.MovementLine, error) {
	query := `
		SELECT ` + movementLineColumns + `
		FROM movement_lines WHERE material_id = $1
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, materialID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list by material: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovementLine
	for rows.Next() {
		line, err := scanMovementLine(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, line)
	}
	return list, rows.Err()
}

// SumByMaterial replay del historial: Σ cantidad firmada (S suma, H resta).
func (r *MovementRepo) SumByMaterial(ctx context.Context, materialID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN debit_credit = 'S' THEN quantity ELSE -quantity END), 0)
		FROM movement_lines WHERE material_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, materialID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum by material: %w", err)
	}
	return sum, nil
}

func scanMovementLine(rows pgx.Rows) (*entity.MovementLine, error) {
	var l entity.MovementLine
	var batchID, refItemID *string
	if err := rows.Scan(&l.ID, &l.DocumentID, &l.MaterialID, &batchID, &l.Quantity, &l.DebitCredit,
		&l.PreviousStock, &l.NewStock, &refItemID, &l.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan movement line: %w", err)
	}
	if batchID != nil {
		l.BatchID = *batchID
	}
	if refItemID != nil {
		l.RefItemID = *refItemID
	}
	return &l, nil
}
