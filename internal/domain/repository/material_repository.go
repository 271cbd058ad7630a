package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia de materiales.
// UpdateStock solo lo invoca el posteador de movimientos, dentro de una
// transacción y con la fila bloqueada vía GetForUpdate.
type MaterialRepository interface {
	Create(ctx context.Context, m *entity.Material) error
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	UpdateStock(ctx context.Context, id string, quantity decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.Material, error)
	// ListBelowMinStock devuelve los materiales cuyo stock actual es inferior al
	// mínimo configurado, ordenados por mayor déficit primero.
	ListBelowMinStock(ctx context.Context) ([]*entity.Material, error)
}
