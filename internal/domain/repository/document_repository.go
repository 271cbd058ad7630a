package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// DocumentRepository define el puerto de persistencia de documentos y líneas.
// Las mutaciones de FulfilledQuantity y de estado se usan siempre dentro de la
// transacción del TxRunner; GetLineForUpdate bloquea la fila (SELECT FOR UPDATE)
// para el chequeo read-check-write.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	CreateLine(ctx context.Context, line *entity.DocumentLine) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	GetLines(ctx context.Context, documentID string) ([]*entity.DocumentLine, error)
	GetLineByID(ctx context.Context, id string) (*entity.DocumentLine, error)
	GetLineForUpdate(ctx context.Context, id string) (*entity.DocumentLine, error)
	UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus) error
	UpdateLineFulfilled(ctx context.Context, lineID string, fulfilled decimal.Decimal) error
	// ListLinesBySource devuelve las líneas aguas abajo que referencian la línea origen
	// (cumplimiento parcial repartido en varios documentos destino).
	ListLinesBySource(ctx context.Context, sourceLineID string) ([]*entity.DocumentLine, error)
	List(ctx context.Context, docType entity.DocumentType, status entity.DocumentStatus, limit, offset int) ([]*entity.Document, error)
}
