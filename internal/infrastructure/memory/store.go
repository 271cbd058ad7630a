// Package memory implementa los puertos de persistencia sobre mapas en
// memoria, con un TxRunner que hace rollback por snapshot. Lo usan las pruebas
// de aplicación para ejercitar atomicidad e idempotencia sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Manufactura-api/internal/application/conversion"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// Store guarda todo el estado en memoria. Los métodos devuelven copias para
// que el caller no mute el estado fuera de una transacción.
type Store struct {
	mu sync.Mutex

	materials map[string]entity.Material
	batches   map[string]entity.MaterialBatch

	documents    map[string]entity.Document
	docLines     map[string]entity.DocumentLine
	docOrder     []string
	docLineOrder []string

	movDocs  map[string]entity.MaterialDocument
	movLines []entity.MovementLine

	sequences map[seqKey]int64
}

type seqKey struct {
	docType string
	year    int
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		materials: make(map[string]entity.Material),
		batches:   make(map[string]entity.MaterialBatch),
		documents: make(map[string]entity.Document),
		docLines:  make(map[string]entity.DocumentLine),
		movDocs:   make(map[string]entity.MaterialDocument),
		sequences: make(map[seqKey]int64),
	}
}

// snapshot copia el estado completo (las entidades no guardan slices internos:
// Lines se arma al leer, así la copia de structs es suficiente).
func (s *Store) snapshot() *Store {
	snap := NewStore()
	for k, v := range s.materials {
		snap.materials[k] = v
	}
	for k, v := range s.batches {
		snap.batches[k] = v
	}
	for k, v := range s.documents {
		v.Lines = nil
		snap.documents[k] = v
	}
	for k, v := range s.docLines {
		snap.docLines[k] = v
	}
	snap.docOrder = append([]string(nil), s.docOrder...)
	snap.docLineOrder = append([]string(nil), s.docLineOrder...)
	for k, v := range s.movDocs {
		v.Lines = nil
		snap.movDocs[k] = v
	}
	snap.movLines = append([]entity.MovementLine(nil), s.movLines...)
	for k, v := range s.sequences {
		snap.sequences[k] = v
	}
	return snap
}

func (s *Store) restore(snap *Store) {
	s.materials = snap.materials
	s.batches = snap.batches
	s.documents = snap.documents
	s.docLines = snap.docLines
	s.docOrder = snap.docOrder
	s.docLineOrder = snap.docLineOrder
	s.movDocs = snap.movDocs
	s.movLines = snap.movLines
	s.sequences = snap.sequences
}

// Verificar en tiempo de compilación los puertos transaccionales.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ conversion.TxRunner = (*TxRunner)(nil)

// TxRunner serializa transacciones sobre el Store y restaura el snapshot si el
// callback falla: misma semántica todo-o-nada que la implementación de postgres.
type TxRunner struct {
	store *Store
	txMu  sync.Mutex
}

// NewTxRunner construye el runner sobre el almacén dado.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos sobre el almacén; si fn falla, el estado vuelve al
// punto de partida.
func (r *TxRunner) Run(_ context.Context, fn func(
	docRepo repository.DocumentRepository,
	materialRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.store.mu.Lock()
	snap := r.store.snapshot()
	r.store.mu.Unlock()

	err := fn(
		NewDocumentRepository(r.store),
		NewMaterialRepository(r.store),
		NewBatchRepository(r.store),
		NewMovementRepository(r.store),
		NewSequenceRepository(r.store),
	)
	if err != nil {
		r.store.mu.Lock()
		r.store.restore(snap)
		r.store.mu.Unlock()
		return err
	}
	return nil
}
