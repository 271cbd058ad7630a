package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ── Materiales ────────────────────────────────────────────────────────────────

var _ repository.MaterialRepository = (*MaterialRepository)(nil)

// MaterialRepository implementación en memoria de MaterialRepository.
type MaterialRepository struct {
	store *Store
}

// NewMaterialRepository construye el adaptador.
func NewMaterialRepository(store *Store) *MaterialRepository {
	return &MaterialRepository{store: store}
}

func (r *MaterialRepository) Create(_ context.Context, m *entity.Material) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.materials {
		if existing.Code == m.Code {
			return fmt.Errorf("material %s: %w", m.Code, domain.ErrDuplicate)
		}
	}
	r.store.materials[m.ID] = *m
	return nil
}

func (r *MaterialRepository) GetByID(_ context.Context, id string) (*entity.Material, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate en memoria equivale a GetByID: el TxRunner ya serializa las tx.
func (r *MaterialRepository) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRepository) UpdateStock(_ context.Context, id string, quantity decimal.Decimal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	m, ok := r.store.materials[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.CurrentStock = quantity
	r.store.materials[id] = m
	return nil
}

func (r *MaterialRepository) List(_ context.Context, limit, offset int) ([]*entity.Material, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	all := make([]*entity.Material, 0, len(r.store.materials))
	for id := range r.store.materials {
		m := r.store.materials[id]
		all = append(all, &m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	return page(all, limit, offset), nil
}

func (r *MaterialRepository) ListBelowMinStock(_ context.Context) ([]*entity.Material, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var below []*entity.Material
	for id := range r.store.materials {
		m := r.store.materials[id]
		if m.BelowMinStock() {
			below = append(below, &m)
		}
	}
	sort.Slice(below, func(i, j int) bool {
		di := below[i].MinStockLevel.Sub(below[i].CurrentStock)
		dj := below[j].MinStockLevel.Sub(below[j].CurrentStock)
		return di.GreaterThan(dj)
	})
	return below, nil
}

// ── Lotes ─────────────────────────────────────────────────────────────────────

var _ repository.BatchRepository = (*BatchRepository)(nil)

// BatchRepository implementación en memoria de BatchRepository.
type BatchRepository struct {
	store *Store
}

// NewBatchRepository construye el adaptador.
func NewBatchRepository(store *Store) *BatchRepository {
	return &BatchRepository{store: store}
}

func (r *BatchRepository) Create(_ context.Context, b *entity.MaterialBatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.batches {
		if existing.MaterialID == b.MaterialID && existing.BatchNumber == b.BatchNumber {
			return fmt.Errorf("lote %s: %w", b.BatchNumber, domain.ErrDuplicate)
		}
	}
	r.store.batches[b.ID] = *b
	return nil
}

func (r *BatchRepository) GetByID(_ context.Context, id string) (*entity.MaterialBatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	b, ok := r.store.batches[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BatchRepository) GetForUpdate(ctx context.Context, id string) (*entity.MaterialBatch, error) {
	return r.GetByID(ctx, id)
}

func (r *BatchRepository) Update(_ context.Context, b *entity.MaterialBatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.batches[b.ID] = *b
	return nil
}

func (r *BatchRepository) ListByMaterial(_ context.Context, materialID string) ([]*entity.MaterialBatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.MaterialBatch
	for id := range r.store.batches {
		b := r.store.batches[id]
		if b.MaterialID == materialID {
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].BatchNumber < list[j].BatchNumber })
	return list, nil
}

func (r *BatchRepository) SumRemainingByMaterial(_ context.Context, materialID string) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sum := decimal.Zero
	for _, b := range r.store.batches {
		if b.MaterialID == materialID {
			sum = sum.Add(b.RemainingQuantity)
		}
	}
	return sum, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository implementación en memoria de MovementRepository
// (líneas append-only, como en postgres).
type MovementRepository struct {
	store *Store
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(store *Store) *MovementRepository {
	return &MovementRepository{store: store}
}

func (r *MovementRepository) CreateDocument(_ context.Context, doc *entity.MaterialDocument) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.movDocs[doc.ID]; ok {
		return fmt.Errorf("documento de material %s: %w", doc.ID, domain.ErrDuplicate)
	}
	stored := *doc
	stored.Lines = nil
	r.store.movDocs[doc.ID] = stored
	return nil
}

func (r *MovementRepository) CreateLine(_ context.Context, line *entity.MovementLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.movLines = append(r.store.movLines, *line)
	return nil
}

func (r *MovementRepository) GetDocumentByID(_ context.Context, id string) (*entity.MaterialDocument, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	doc, ok := r.store.movDocs[id]
	if !ok {
		return nil, nil
	}
	for i := range r.store.movLines {
		if r.store.movLines[i].DocumentID == id {
			l := r.store.movLines[i]
			doc.Lines = append(doc.Lines, &l)
		}
	}
	return &doc, nil
}

func (r *MovementRepository) ListByMaterial(_ context.Context, materialID string, limit, offset int) ([]*entity.MovementLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var list []*entity.MovementLine
	for i := len(r.store.movLines) - 1; i >= 0; i-- {
		if r.store.movLines[i].MaterialID == materialID {
			l := r.store.movLines[i]
			list = append(list, &l)
		}
	}
	return page(list, limit, offset), nil
}

func (r *MovementRepository) SumByMaterial(_ context.Context, materialID string) (decimal.Decimal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	sum := decimal.Zero
	for i := range r.store.movLines {
		if r.store.movLines[i].MaterialID == materialID {
			sum = sum.Add(r.store.movLines[i].SignedQuantity())
		}
	}
	return sum, nil
}

// ── Consecutivos ──────────────────────────────────────────────────────────────

var _ repository.SequenceRepository = (*SequenceRepository)(nil)

// SequenceRepository implementación en memoria de SequenceRepository.
type SequenceRepository struct {
	store *Store
}

// NewSequenceRepository construye el adaptador.
func NewSequenceRepository(store *Store) *SequenceRepository {
	return &SequenceRepository{store: store}
}

func (r *SequenceRepository) Next(_ context.Context, docType string, year int) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := seqKey{docType: docType, year: year}
	r.store.sequences[key]++
	return r.store.sequences[key], nil
}

// page aplica limit/offset sobre un slice ya ordenado.
func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
