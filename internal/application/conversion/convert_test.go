package conversion_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/conversion"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Pruebas del orquestador de conversión y de las transiciones con efectos
// acoplados (emisión de entrega, posteo de factura) sobre los adaptadores en
// memoria con rollback por snapshot.
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store      *memory.Store
	convert    *conversion.ConvertUseCase
	transition *conversion.TransitionUseCase
	poster     *inventory.PostMovementUseCase
	material   *memory.MaterialRepository
	batch      *memory.BatchRepository
	movement   *memory.MovementRepository
	document   *memory.DocumentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	poster := inventory.NewPostMovementUseCase(runner)
	return &fixture{
		store:      store,
		convert:    conversion.NewConvertUseCase(runner),
		transition: conversion.NewTransitionUseCase(runner, poster),
		poster:     poster,
		material:   memory.NewMaterialRepository(store),
		batch:      memory.NewBatchRepository(store),
		movement:   memory.NewMovementRepository(store),
		document:   memory.NewDocumentRepository(store),
	}
}

func (f *fixture) seedMaterial(t *testing.T, code string, batchTracked bool) *entity.Material {
	t.Helper()
	m := &entity.Material{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          "Material " + code,
		UnitOfMeasure: "UN",
		CurrentStock:  decimal.Zero,
		BatchTracked:  batchTracked,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, f.material.Create(context.Background(), m))
	return m
}

func (f *fixture) seedBatchWithStock(t *testing.T, materialID, number string, qty int64) *entity.MaterialBatch {
	t.Helper()
	b := &entity.MaterialBatch{
		ID:                uuid.New().String(),
		MaterialID:        materialID,
		BatchNumber:       number,
		RemainingQuantity: decimal.Zero,
		Status:            entity.BatchStatusAvailable,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	require.NoError(t, f.batch.Create(context.Background(), b))
	_, err := f.poster.Post(context.Background(), inventory.MovementInputDTO{
		Type: entity.MovementTypeInbound,
		Lines: []inventory.MovementLineInput{
			{MaterialID: materialID, BatchID: b.ID, Quantity: decimal.NewFromInt(qty)},
		},
	})
	require.NoError(t, err)
	return b
}

func (f *fixture) seedDocument(t *testing.T, docType entity.DocumentType, status entity.DocumentStatus, number string) *entity.Document {
	t.Helper()
	doc := &entity.Document{
		ID:        uuid.New().String(),
		Number:    number,
		Type:      docType,
		Status:    status,
		Date:      time.Now(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.document.Create(context.Background(), doc))
	return doc
}

func (f *fixture) seedLine(t *testing.T, docID, materialID string, qty int64) *entity.DocumentLine {
	t.Helper()
	line := &entity.DocumentLine{
		ID:                uuid.New().String(),
		DocumentID:        docID,
		MaterialID:        materialID,
		Quantity:          decimal.NewFromInt(qty),
		Unit:              "UN",
		FulfilledQuantity: decimal.Zero,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
	require.NoError(t, f.document.CreateLine(context.Background(), line))
	return line
}

func TestConvert_RequisicionAOrdenCompra(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-100", false)
	req := f.seedDocument(t, entity.DocTypeRequisition, entity.StatusApproved, "REQ-2026-000001")
	reqLine := f.seedLine(t, req.ID, m.ID, 100)

	// Conversión parcial: 60 de 100.
	po, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{reqLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(60)},
		TargetType:    entity.DocTypePurchaseOrder,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDraft, po.Status, "el destino nace en borrador")
	assert.Contains(t, po.Number, "OC-", "numeración con prefijo del tipo destino")
	require.Len(t, po.Lines, 1)
	assert.Equal(t, reqLine.ID, po.Lines[0].SourceLineID, "la línea destino guarda su linaje")
	assert.True(t, po.Lines[0].Quantity.Equal(decimal.NewFromInt(60)))

	// Conversión de papel: el cumplimiento se aplica de inmediato.
	gotLine, _ := f.document.GetLineByID(context.Background(), reqLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.Equal(decimal.NewFromInt(60)))
	gotReq, _ := f.document.GetByID(context.Background(), req.ID)
	assert.Equal(t, entity.StatusApproved, gotReq.Status, "con pendiente la requisición sigue aprobada")

	// Convertir el resto cierra la requisición automáticamente.
	_, err = f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{reqLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(40)},
		TargetType:    entity.DocTypePurchaseOrder,
	})
	require.NoError(t, err)
	gotReq, _ = f.document.GetByID(context.Background(), req.ID)
	assert.Equal(t, entity.StatusClosed, gotReq.Status, "requisición sin pendiente queda cerrada")
}

func TestConvert_EstadoNoConvertible(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-101", false)
	req := f.seedDocument(t, entity.DocTypeRequisition, entity.StatusDraft, "REQ-2026-000002")
	reqLine := f.seedLine(t, req.ID, m.ID, 10)

	_, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{reqLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(10)},
		TargetType:    entity.DocTypePurchaseOrder,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConversionNotAllowed, "un borrador no es convertible")

	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, reqLine.ID, lineErr.LineID)

	// Una cotización aprobada tampoco se convierte en entrega (par no soportado).
	cot := f.seedDocument(t, entity.DocTypeQuotation, entity.StatusAccepted, "COT-2026-000001")
	cotLine := f.seedLine(t, cot.ID, m.ID, 5)
	_, err = f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{cotLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(5)},
		TargetType:    entity.DocTypeDelivery,
	})
	assert.ErrorIs(t, err, domain.ErrConversionNotAllowed)
}

func TestConvert_ExcedePendiente(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-102", false)
	req := f.seedDocument(t, entity.DocTypeRequisition, entity.StatusApproved, "REQ-2026-000003")
	reqLine := f.seedLine(t, req.ID, m.ID, 30)

	_, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{reqLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(31)},
		TargetType:    entity.DocTypePurchaseOrder,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverFulfillment)

	var lineErr *domain.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.True(t, lineErr.Available.Equal(decimal.NewFromInt(30)), "el error reporta el pendiente real")

	gotLine, _ := f.document.GetLineByID(context.Background(), reqLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.IsZero(), "nada se aplicó")
	docs, _ := f.document.List(context.Background(), entity.DocTypePurchaseOrder, "", 10, 0)
	assert.Empty(t, docs, "no debe quedar ningún documento destino")
}

func TestConvert_AtomicidadMultilinea(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-103", false)
	req := f.seedDocument(t, entity.DocTypeRequisition, entity.StatusApproved, "REQ-2026-000004")
	lineA := f.seedLine(t, req.ID, m.ID, 50)
	lineB := f.seedLine(t, req.ID, m.ID, 20)

	// La primera línea cabría, la segunda excede: nada debe quedar aplicado.
	_, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{lineA.ID, lineB.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(10), decimal.NewFromInt(25)},
		TargetType:    entity.DocTypePurchaseOrder,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverFulfillment)

	gotA, _ := f.document.GetLineByID(context.Background(), lineA.ID)
	gotB, _ := f.document.GetLineByID(context.Background(), lineB.ID)
	assert.True(t, gotA.FulfilledQuantity.IsZero(), "el cumplimiento de la línea válida debe revertirse")
	assert.True(t, gotB.FulfilledQuantity.IsZero())
	docs, _ := f.document.List(context.Background(), entity.DocTypePurchaseOrder, "", 10, 0)
	assert.Empty(t, docs)
}

func TestConvert_CotizacionAOrdenVenta(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-104", false)
	cot := f.seedDocument(t, entity.DocTypeQuotation, entity.StatusAccepted, "COT-2026-000002")
	cotLine := f.seedLine(t, cot.ID, m.ID, 12)

	so, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{cotLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(12)},
		TargetType:    entity.DocTypeSalesOrder,
	})
	require.NoError(t, err)
	assert.Contains(t, so.Number, "OV-")

	gotCot, _ := f.document.GetByID(context.Background(), cot.ID)
	assert.Equal(t, entity.StatusConverted, gotCot.Status, "cotización agotada queda convertida")
}

func TestConvert_OrdenVentaAEntregaDiferida(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-105", true)
	b := f.seedBatchWithStock(t, m.ID, "L-001", 100)
	so := f.seedDocument(t, entity.DocTypeSalesOrder, entity.StatusConfirmed, "OV-2026-000001")
	soLine := f.seedLine(t, so.ID, m.ID, 40)

	delivery, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{soLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(40)},
		BatchIDs:      []string{b.ID},
		TargetType:    entity.DocTypeDelivery,
	})
	require.NoError(t, err)
	assert.Contains(t, delivery.Number, "ENT-")
	assert.Equal(t, b.ID, delivery.Lines[0].BatchID, "la línea de entrega lleva el lote elegido")

	// Ruta diferida: crear la entrega no cumple nada todavía.
	gotLine, _ := f.document.GetLineByID(context.Background(), soLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.IsZero(), "el cumplimiento espera a la salida de mercancía")
	gotSO, _ := f.document.GetByID(context.Background(), so.ID)
	assert.Equal(t, entity.StatusConfirmed, gotSO.Status)
}

func TestTransition_ConfirmarOrdenCompra(t *testing.T) {
	f := newFixture(t)
	po := f.seedDocument(t, entity.DocTypePurchaseOrder, entity.StatusDraft, "OC-2026-000001")

	// Sin proveedor ni organización de compras no se confirma.
	_, err := f.transition.Transition(context.Background(), po.ID, entity.StatusConfirmed, "u1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	gotPO, _ := f.document.GetByID(context.Background(), po.ID)
	assert.Equal(t, entity.StatusDraft, gotPO.Status)

	// Con cabecera completa sí.
	full := &entity.Document{
		ID:         uuid.New().String(),
		Number:     "OC-2026-000002",
		Type:       entity.DocTypePurchaseOrder,
		Status:     entity.StatusDraft,
		PartnerID:  "P1",
		CompanyID:  "C1",
		BranchID:   "B1",
		PurchOrgID: "ORG1",
		Date:       time.Now(),
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, f.document.Create(context.Background(), full))

	doc, err := f.transition.Transition(context.Background(), full.ID, entity.StatusConfirmed, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusConfirmed, doc.Status)
}

func TestTransition_Ilegal(t *testing.T) {
	f := newFixture(t)
	delivery := f.seedDocument(t, entity.DocTypeDelivery, entity.StatusDraft, "ENT-2026-000009")

	_, err := f.transition.Transition(context.Background(), delivery.ID, entity.StatusIssued, "u1")
	assert.ErrorIs(t, err, domain.ErrIllegalTransition, "DRAFT no salta directo a ISSUED")
}

func TestTransition_EmisionEntregaCompleta(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-106", true)
	b := f.seedBatchWithStock(t, m.ID, "L-001", 100)

	so := f.seedDocument(t, entity.DocTypeSalesOrder, entity.StatusConfirmed, "OV-2026-000002")
	soLine := f.seedLine(t, so.ID, m.ID, 40)

	delivery, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{soLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(40)},
		BatchIDs:      []string{b.ID},
		TargetType:    entity.DocTypeDelivery,
	})
	require.NoError(t, err)

	_, err = f.transition.Transition(context.Background(), delivery.ID, entity.StatusPicked, "u1")
	require.NoError(t, err)
	issued, err := f.transition.Transition(context.Background(), delivery.ID, entity.StatusIssued, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusIssued, issued.Status)

	// La salida de mercancía se posteó: stock y lote bajaron.
	gotM, _ := f.material.GetByID(context.Background(), m.ID)
	assert.True(t, gotM.CurrentStock.Equal(decimal.NewFromInt(60)))
	gotB, _ := f.batch.GetByID(context.Background(), b.ID)
	assert.True(t, gotB.RemainingQuantity.Equal(decimal.NewFromInt(60)))

	// El movimiento quedó ligado a la entrega (mismo ID, reemisión idempotente).
	movDoc, _ := f.movement.GetDocumentByID(context.Background(), delivery.ID)
	require.NotNil(t, movDoc)
	assert.Equal(t, entity.MovementTypeOutbound, movDoc.MovementType)

	// La OV quedó cumplida y entregada.
	gotLine, _ := f.document.GetLineByID(context.Background(), soLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.Equal(decimal.NewFromInt(40)))
	gotSO, _ := f.document.GetByID(context.Background(), so.ID)
	assert.Equal(t, entity.StatusDelivered, gotSO.Status)
}

func TestTransition_EmisionSinStockNoCambiaEstado(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-107", true)
	b := f.seedBatchWithStock(t, m.ID, "L-001", 10)

	so := f.seedDocument(t, entity.DocTypeSalesOrder, entity.StatusConfirmed, "OV-2026-000003")
	soLine := f.seedLine(t, so.ID, m.ID, 25)

	delivery, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{soLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(25)},
		BatchIDs:      []string{b.ID},
		TargetType:    entity.DocTypeDelivery,
	})
	require.NoError(t, err)
	_, err = f.transition.Transition(context.Background(), delivery.ID, entity.StatusPicked, "u1")
	require.NoError(t, err)

	_, err = f.transition.Transition(context.Background(), delivery.ID, entity.StatusIssued, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Transacción completa revertida: estado, stock y cumplimiento intactos.
	gotDelivery, _ := f.document.GetByID(context.Background(), delivery.ID)
	assert.Equal(t, entity.StatusPicked, gotDelivery.Status)
	gotM, _ := f.material.GetByID(context.Background(), m.ID)
	assert.True(t, gotM.CurrentStock.Equal(decimal.NewFromInt(10)))
	gotLine, _ := f.document.GetLineByID(context.Background(), soLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.IsZero())
}

func TestTransition_FacturaPosteoYAnulacion(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-108", true)
	b := f.seedBatchWithStock(t, m.ID, "L-001", 100)

	so := f.seedDocument(t, entity.DocTypeSalesOrder, entity.StatusConfirmed, "OV-2026-000004")
	soLine := f.seedLine(t, so.ID, m.ID, 40)

	delivery, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{soLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(40)},
		BatchIDs:      []string{b.ID},
		TargetType:    entity.DocTypeDelivery,
	})
	require.NoError(t, err)
	_, err = f.transition.Transition(context.Background(), delivery.ID, entity.StatusPicked, "u1")
	require.NoError(t, err)
	_, err = f.transition.Transition(context.Background(), delivery.ID, entity.StatusIssued, "u1")
	require.NoError(t, err)

	deliveryLines, _ := f.document.GetLines(context.Background(), delivery.ID)
	require.Len(t, deliveryLines, 1)

	invoice, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{deliveryLines[0].ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(40)},
		TargetType:    entity.DocTypeInvoice,
	})
	require.NoError(t, err)
	assert.Contains(t, invoice.Number, "FAC-")

	// Postear la factura cumple la línea de entrega y factura la OV completa.
	posted, err := f.transition.Transition(context.Background(), invoice.ID, entity.StatusPosted, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPosted, posted.Status)

	gotDelLine, _ := f.document.GetLineByID(context.Background(), deliveryLines[0].ID)
	assert.True(t, gotDelLine.FulfilledQuantity.Equal(decimal.NewFromInt(40)))
	gotSO, _ := f.document.GetByID(context.Background(), so.ID)
	assert.Equal(t, entity.StatusBilled, gotSO.Status, "OV totalmente facturada pasa a BILLED")

	// La anulación marca void sin tocar stock.
	stockBefore, _ := f.material.GetByID(context.Background(), m.ID)
	cancelled, err := f.transition.Transition(context.Background(), invoice.ID, entity.StatusCancelled, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCancelled, cancelled.Status)
	stockAfter, _ := f.material.GetByID(context.Background(), m.ID)
	assert.True(t, stockBefore.CurrentStock.Equal(stockAfter.CurrentStock), "anular no revierte el posteo físico")
}

func TestConvert_LineaOrigenRepetida(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-109", false)
	req := f.seedDocument(t, entity.DocTypeRequisition, entity.StatusApproved, "REQ-2026-000005")
	reqLine := f.seedLine(t, req.ID, m.ID, 100)

	// La misma línea dos veces en el lote intentaría consumir 200 de un
	// pendiente de 100: se rechaza antes de tocar estado.
	_, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{reqLine.ID, reqLine.ID},
		Amounts:       []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(100)},
		TargetType:    entity.DocTypePurchaseOrder,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	gotLine, _ := f.document.GetLineByID(context.Background(), reqLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.IsZero(), "nada se aplicó")
	docs, _ := f.document.List(context.Background(), entity.DocTypePurchaseOrder, "", 10, 0)
	assert.Empty(t, docs, "no debe crearse ningún documento destino")
}

func TestConvert_ConcurrenciaMismaLinea(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-110", false)
	req := f.seedDocument(t, entity.DocTypeRequisition, entity.StatusApproved, "REQ-2026-000006")
	reqLine := f.seedLine(t, req.ID, m.ID, 100)

	// Dos conversiones simultáneas de 60 sobre un pendiente de 100: exactamente
	// una cabe, la otra debe rechazarse al revalidar dentro de su transacción.
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
				SourceLineIDs: []string{reqLine.ID},
				Amounts:       []decimal.Decimal{decimal.NewFromInt(60)},
				TargetType:    entity.DocTypePurchaseOrder,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrOverFulfillment)
		rejected++
	}
	assert.Equal(t, 1, ok, "solo una conversión cabe en el pendiente")
	assert.Equal(t, 1, rejected)

	gotLine, _ := f.document.GetLineByID(context.Background(), reqLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.Equal(decimal.NewFromInt(60)))
	docs, _ := f.document.List(context.Background(), entity.DocTypePurchaseOrder, "", 10, 0)
	assert.Len(t, docs, 1, "la conversión rechazada no dejó destino")
}

func TestTransition_EntregasParcialesAcumulan(t *testing.T) {
	f := newFixture(t)
	m := f.seedMaterial(t, "MAT-111", true)
	b := f.seedBatchWithStock(t, m.ID, "L-001", 100)
	so := f.seedDocument(t, entity.DocTypeSalesOrder, entity.StatusConfirmed, "OV-2026-000005")
	soLine := f.seedLine(t, so.ID, m.ID, 50)

	mkDelivery := func(qty int64) *entity.Document {
		t.Helper()
		d, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
			SourceLineIDs: []string{soLine.ID},
			Amounts:       []decimal.Decimal{decimal.NewFromInt(qty)},
			BatchIDs:      []string{b.ID},
			TargetType:    entity.DocTypeDelivery,
		})
		require.NoError(t, err)
		_, err = f.transition.Transition(context.Background(), d.ID, entity.StatusPicked, "u1")
		require.NoError(t, err)
		return d
	}
	// La ruta diferida no reserva pendiente al convertir: el exceso de la
	// tercera entrega se ataja recién al emitirla.
	d1 := mkDelivery(20)
	d2 := mkDelivery(30)
	d3 := mkDelivery(10)

	// Primera emisión parcial: cumplimiento 20, la OV sigue abierta.
	_, err := f.transition.Transition(context.Background(), d1.ID, entity.StatusIssued, "u1")
	require.NoError(t, err)
	gotLine, _ := f.document.GetLineByID(context.Background(), soLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.Equal(decimal.NewFromInt(20)))
	gotSO, _ := f.document.GetByID(context.Background(), so.ID)
	assert.Equal(t, entity.StatusConfirmed, gotSO.Status, "con pendiente la OV sigue confirmada")

	// Segunda emisión completa el pendiente: 20+30 = 50 y OV entregada.
	_, err = f.transition.Transition(context.Background(), d2.ID, entity.StatusIssued, "u1")
	require.NoError(t, err)
	gotLine, _ = f.document.GetLineByID(context.Background(), soLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.Equal(decimal.NewFromInt(50)))
	gotSO, _ = f.document.GetByID(context.Background(), so.ID)
	assert.Equal(t, entity.StatusDelivered, gotSO.Status)

	// La tercera emisión excedería el pendiente: todo su efecto se revierte.
	_, err = f.transition.Transition(context.Background(), d3.ID, entity.StatusIssued, "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverFulfillment)

	gotD3, _ := f.document.GetByID(context.Background(), d3.ID)
	assert.Equal(t, entity.StatusPicked, gotD3.Status, "la entrega rechazada no cambia de estado")
	gotLine, _ = f.document.GetLineByID(context.Background(), soLine.ID)
	assert.True(t, gotLine.FulfilledQuantity.Equal(decimal.NewFromInt(50)), "el cumplimiento no pasa de la cantidad de la línea")
	gotM, _ := f.material.GetByID(context.Background(), m.ID)
	assert.True(t, gotM.CurrentStock.Equal(decimal.NewFromInt(50)), "la salida fallida tampoco movió stock")
}

func TestConvert_EntradaInvalida(t *testing.T) {
	f := newFixture(t)

	_, err := f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		TargetType: entity.DocTypePurchaseOrder,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas origen no hay conversión")

	_, err = f.convert.Convert(context.Background(), conversion.ConvertInputDTO{
		SourceLineIDs: []string{"x"},
		Amounts:       []decimal.Decimal{decimal.Zero},
		TargetType:    entity.DocTypePurchaseOrder,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
