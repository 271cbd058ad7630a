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

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable con pool o tx).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, number, type, status, partner_id, company_id, branch_id, purch_org_id,
	currency, date, notes, created_at, updated_at`

const documentLineColumns = `id, document_id, material_id, batch_id, quantity, unit,
	fulfilled_quantity, source_line_id, created_at, updated_at`

// Create persiste la cabecera. Número duplicado por tipo devuelve ErrDuplicate.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		doc.ID, doc.Number, doc.Type, doc.Status,
		nullable(doc.PartnerID), nullable(doc.CompanyID), nullable(doc.BranchID), nullable(doc.PurchOrgID),
		nullable(doc.Currency), doc.Date, nullable(doc.Notes), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("documento %s: %w", doc.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// CreateLine persiste una línea de documento.
func (r *DocumentRepo) CreateLine(ctx context.Context, line *entity.DocumentLine) error {
	query := `
		INSERT INTO document_lines (` + documentLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.DocumentID, line.MaterialID, nullable(line.BatchID),
		line.Quantity, nullable(line.Unit), line.FulfilledQuantity, nullable(line.SourceLineID),
		line.CreatedAt, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document line: %w", err)
	}
	return nil
}

func (r *DocumentRepo) scanOne(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	var partnerID, companyID, branchID, purchOrgID, currency, notes *string
	err := row.Scan(
		&d.ID, &d.Number, &d.Type, &d.Status, &partnerID, &companyID, &branchID, &purchOrgID,
		&currency, &d.Date, &notes, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	d.PartnerID = deref(partnerID)
	d.CompanyID = deref(companyID)
	d.BranchID = deref(branchID)
	d.PurchOrgID = deref(purchOrgID)
	d.Currency = deref(currency)
	d.Notes = deref(notes)
	return &d, nil
}

// GetByID obtiene la cabecera (nil si no existe, sin líneas).
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate obtiene la cabecera y bloquea la fila (SELECT FOR UPDATE).
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, id))
}

// GetLines devuelve las líneas del documento en orden de creación.
func (r *DocumentRepo) GetLines(ctx context.Context, documentID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT ` + documentLineColumns + `
		FROM document_lines WHERE document_id = $1 ORDER BY created_at, id`
	return r.queryLines(ctx, query, documentID)
}

func (r *DocumentRepo) scanLine(row pgx.Row) (*entity.DocumentLine, error) {
	var l entity.DocumentLine
	var batchID, unit, sourceLineID *string
	err := row.Scan(
		&l.ID, &l.DocumentID, &l.MaterialID, &batchID, &l.Quantity, &unit,
		&l.FulfilledQuantity, &sourceLineID, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan document line: %w", err)
	}
	l.BatchID = deref(batchID)
	l.Unit = deref(unit)
	l.SourceLineID = deref(sourceLineID)
	return &l, nil
}

// GetLineByID obtiene una línea por ID (nil si no existe).
func (r *DocumentRepo) GetLineByID(ctx context.Context, id string) (*entity.DocumentLine, error) {
	query := `SELECT ` + documentLineColumns + ` FROM document_lines WHERE id = $1`
	return r.scanLine(r.q.QueryRow(ctx, query, id))
}

// GetLineForUpdate obtiene la línea y bloquea la fila (SELECT FOR UPDATE).
func (r *DocumentRepo) GetLineForUpdate(ctx context.Context, id string) (*entity.DocumentLine, error) {
	query := `SELECT ` + documentLineColumns + ` FROM document_lines WHERE id = $1 FOR UPDATE`
	return r.scanLine(r.q.QueryRow(ctx, query, id))
}

// UpdateStatus escribe el estado del documento. La validación del grafo corre
// antes, en docflow.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus) error {
	query := `UPDATE documents SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateLineFulfilled escribe la cantidad cumplida de la línea.
func (r *DocumentRepo) UpdateLineFulfilled(ctx context.Context, lineID string, fulfilled decimal.Decimal) error {
	query := `UPDATE document_lines SET fulfilled_quantity = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, lineID, fulfilled)
	if err != nil {
		return fmt.Errorf("update line fulfilled: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLinesBySource devuelve las líneas aguas abajo que referencian la línea origen.
func (r *DocumentRepo) ListLinesBySource(ctx context.Context, sourceLineID string) ([]*entity.DocumentLine, error) {
	query := `
		SELECT ` + documentLineColumns + `
		FROM document_lines WHERE source_line_id = $1 ORDER BY created_at, id`
	return r.queryLines(ctx, query, sourceLineID)
}

// List devuelve documentos filtrados por tipo y/o estado, más recientes primero.
func (r *DocumentRepo) List(ctx context.Context, docType entity.DocumentType, status entity.DocumentStatus, limit, offset int) ([]*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []any{}
	pos := 1
	if docType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, docType)
		pos++
	}
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, number DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		var d entity.Document
		var partnerID, companyID, branchID, purchOrgID, currency, notes *string
		if err := rows.Scan(
			&d.ID, &d.Number, &d.Type, &d.Status, &partnerID, &companyID, &branchID, &purchOrgID,
			&currency, &d.Date, &notes, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.PartnerID = deref(partnerID)
		d.CompanyID = deref(companyID)
		d.BranchID = deref(branchID)
		d.PurchOrgID = deref(purchOrgID)
		d.Currency = deref(currency)
		d.Notes = deref(notes)
		list = append(list, &d)
	}
	return list, rows.Err()
}

func (r *DocumentRepo) queryLines(ctx context.Context, query string, arg any) ([]*entity.DocumentLine, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query document lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.DocumentLine
	for rows.Next() {
		var l entity.DocumentLine
		var batchID, unit, sourceLineID *string
		if err := rows.Scan(
			&l.ID, &l.DocumentID, &l.MaterialID, &batchID, &l.Quantity, &unit,
			&l.FulfilledQuantity, &sourceLineID, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan document line: %w", err)
		}
		l.BatchID = deref(batchID)
		l.Unit = deref(unit)
		l.SourceLineID = deref(sourceLineID)
		list = append(list, &l)
	}
	return list, rows.Err()
}

// nullable convierte "" a NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
