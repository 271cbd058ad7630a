package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepository)(nil)

// DocumentRepository implementación en memoria de DocumentRepository.
type DocumentRepository struct {
	store *Store
}

// NewDocumentRepository construye el adaptador.
func NewDocumentRepository(store *Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) Create(_ context.Context, doc *entity.Document) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.documents[doc.ID]; ok {
		return fmt.Errorf("documento %s: %w", doc.ID, domain.ErrDuplicate)
	}
	for _, existing := range r.store.documents {
		if existing.Number == doc.Number && existing.Type == doc.Type {
			return fmt.Errorf("documento %s: %w", doc.Number, domain.ErrDuplicate)
		}
	}
	stored := *doc
	stored.Lines = nil
	r.store.documents[doc.ID] = stored
	r.store.docOrder = append(r.store.docOrder, doc.ID)
	return nil
}

func (r *DocumentRepository) CreateLine(_ context.Context, line *entity.DocumentLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.docLines[line.ID]; ok {
		return fmt.Errorf("línea %s: %w", line.ID, domain.ErrDuplicate)
	}
	r.store.docLines[line.ID] = *line
	r.store.docLineOrder = append(r.store.docLineOrder, line.ID)
	return nil
}

func (r *DocumentRepository) GetByID(_ context.Context, id string) (*entity.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	doc, ok := r.store.documents[id]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

func (r *DocumentRepository) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *DocumentRepository) GetLines(_ context.Context, documentID string) ([]*entity.DocumentLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var lines []*entity.DocumentLine
	for _, id := range r.store.docLineOrder {
		if l, ok := r.store.docLines[id]; ok && l.DocumentID == documentID {
			line := l
			lines = append(lines, &line)
		}
	}
	return lines, nil
}

func (r *DocumentRepository) GetLineByID(_ context.Context, id string) (*entity.DocumentLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.docLines[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (r *DocumentRepository) GetLineForUpdate(ctx context.Context, id string) (*entity.DocumentLine, error) {
	return r.GetLineByID(ctx, id)
}

func (r *DocumentRepository) UpdateStatus(_ context.Context, id string, status entity.DocumentStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	doc, ok := r.store.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	r.store.documents[id] = doc
	return nil
}

func (r *DocumentRepository) UpdateLineFulfilled(_ context.Context, lineID string, fulfilled decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	l, ok := r.store.docLines[lineID]
	if !ok {
		return domain.ErrNotFound
	}
	l.FulfilledQuantity = fulfilled
	r.store.docLines[lineID] = l
	return nil
}

func (r *DocumentRepository) ListLinesBySource(_ context.Context, sourceLineID string) ([]*entity.DocumentLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var lines []*entity.DocumentLine
	for _, id := range r.store.docLineOrder {
		if l, ok := r.store.docLines[id]; ok && l.SourceLineID == sourceLineID {
			line := l
			lines = append(lines, &line)
		}
	}
	return lines, nil
}

func (r *DocumentRepository) List(_ context.Context, docType entity.DocumentType, status entity.DocumentStatus, limit, offset int) ([]*entity.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.Document
	for i := len(r.store.docOrder) - 1; i >= 0; i-- {
		doc, ok := r.store.documents[r.store.docOrder[i]]
		if !ok {
			continue
		}
		if docType != "" && doc.Type != docType {
			continue
		}
		if status != "" && doc.Status != status {
			continue
		}
		d := doc
		list = append(list, &d)
	}
	return page(list, limit, offset), nil
}
