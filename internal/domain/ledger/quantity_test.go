package ledger_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/ledger"
)

// línea con pedido 100 y cumplido 0.
func nuevaLinea() *entity.DocumentLine {
	return &entity.DocumentLine{
		ID:                "line-1",
		Quantity:          decimal.NewFromInt(100),
		FulfilledQuantity: decimal.Zero,
	}
}

func TestCanFulfill_DentroDeLoPendiente(t *testing.T) {
	l := nuevaLinea()
	assert.True(t, ledger.CanFulfill(l, decimal.NewFromInt(100)), "exactamente lo pendiente debe ser válido")
	assert.True(t, ledger.CanFulfill(l, decimal.NewFromInt(1)))
	assert.False(t, ledger.CanFulfill(l, decimal.NewFromInt(101)), "más de lo pendiente no debe ser válido")
	assert.False(t, ledger.CanFulfill(l, decimal.Zero), "cero no es un cumplimiento válido")
	assert.False(t, ledger.CanFulfill(l, decimal.NewFromInt(-5)))
}

func TestApplyFulfillment_IncrementaYDevuelvePendiente(t *testing.T) {
	l := nuevaLinea()

	open, err := ledger.ApplyFulfillment(l, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.True(t, open.Equal(decimal.NewFromInt(60)), "pendiente debe ser 60, fue %s", open)
	assert.True(t, l.FulfilledQuantity.Equal(decimal.NewFromInt(40)))

	// segundo cumplimiento parcial
	open, err = ledger.ApplyFulfillment(l, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, open.IsZero(), "la línea debe quedar sin pendiente")
	assert.True(t, l.FullyFulfilled())
}

func TestApplyFulfillment_SobreCumplimiento(t *testing.T) {
	l := nuevaLinea()
	_, err := ledger.ApplyFulfillment(l, decimal.NewFromInt(40))
	require.NoError(t, err)

	// pendiente = 60; pedir 70 debe fallar sin tocar la línea
	_, err = ledger.ApplyFulfillment(l, decimal.NewFromInt(70))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverFulfillment)
	assert.True(t, l.FulfilledQuantity.Equal(decimal.NewFromInt(40)),
		"un cumplimiento rechazado no debe modificar la línea")

	// el error debe identificar la línea y las cantidades
	var le *domain.LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "line-1", le.LineID)
	assert.True(t, le.Requested.Equal(decimal.NewFromInt(70)))
	assert.True(t, le.Available.Equal(decimal.NewFromInt(60)))
}

func TestApplyFulfillment_CantidadInvalida(t *testing.T) {
	l := nuevaLinea()

	_, err := ledger.ApplyFulfillment(l, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "cero debe rechazarse antes de tocar estado")

	_, err = ledger.ApplyFulfillment(l, decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	assert.True(t, l.FulfilledQuantity.IsZero())
}

// Invariante: 0 <= FulfilledQuantity <= Quantity y OpenQuantity >= 0 siempre,
// aplicando cumplimientos parciales arbitrarios.
func TestApplyFulfillment_InvarianteNoNegativo(t *testing.T) {
	l := nuevaLinea()
	amounts := []int64{10, 25, 5, 60, 40, 1}

	for _, a := range amounts {
		_, _ = ledger.ApplyFulfillment(l, decimal.NewFromInt(a))
		assert.False(t, l.OpenQuantity().IsNegative(), "pendiente nunca puede ser negativo")
		assert.False(t, l.FulfilledQuantity.GreaterThan(l.Quantity),
			"cumplido nunca puede superar lo pedido")
	}
}
