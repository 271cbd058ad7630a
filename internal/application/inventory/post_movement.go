package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/docflow"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// PostMovementUseCase es el único escritor del libro de stock: aplica un
// movimiento (entrada/salida/ajuste/traslado/producción) de forma atómica,
// mantiene el invariante agregado == Σ lotes y emite líneas inmutables con
// snapshot antes/después. Si una línea referencia una línea de documento
// (RefItemID), aplica el cumplimiento en la misma transacción.
type PostMovementUseCase struct {
	txRunner TxRunner
}

// NewPostMovementUseCase construye el caso de uso.
func NewPostMovementUseCase(txRunner TxRunner) *PostMovementUseCase {
	return &PostMovementUseCase{txRunner: txRunner}
}

// MovementLineInput entrada de una línea de movimiento.
// BatchID es obligatorio para materiales con lote; ToBatchID solo en TRANSFER;
// DebitCredit (S/H) solo en ADJUSTMENT.
type MovementLineInput struct {
	MaterialID  string
	BatchID     string
	ToBatchID   string
	Quantity    decimal.Decimal
	DebitCredit string
	RefItemID   string
}

// MovementInputDTO entrada para postear un movimiento. ID es la clave de
// idempotencia aportada por el cliente (UUID); vacío = se genera uno y el
// posteo no es reintentable.
type MovementInputDTO struct {
	ID     string
	Type   string
	UserID string
	Lines  []MovementLineInput
}

// Post valida la entrada y ejecuta el posteo completo en una transacción:
// o todas las líneas se aplican, o ninguna.
func (uc *PostMovementUseCase) Post(ctx context.Context, input MovementInputDTO) (*entity.MaterialDocument, error) {
	if err := validateMovementInput(input); err != nil {
		return nil, err
	}
	var result *entity.MaterialDocument
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		materialRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error {
		var err error
		result, err = uc.PostInTx(ctx, docRepo, materialRepo, batchRepo, movRepo, seqRepo, input, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// validateMovementInput rechaza entradas malformadas antes de tocar estado.
func validateMovementInput(input MovementInputDTO) error {
	if !entity.ValidMovementType(input.Type) || len(input.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	for _, l := range input.Lines {
		if l.MaterialID == "" {
			return domain.ErrInvalidInput
		}
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return domain.NewLineError(l.MaterialID, l.Quantity, decimal.Zero, domain.ErrInvalidQuantity)
		}
		switch input.Type {
		case entity.MovementTypeAdjustment:
			if l.DebitCredit != entity.DebitCreditS && l.DebitCredit != entity.DebitCreditH {
				return domain.ErrInvalidInput
			}
		case entity.MovementTypeTransfer:
			if l.BatchID == "" || l.ToBatchID == "" || l.BatchID == l.ToBatchID {
				return domain.ErrInvalidInput
			}
		default:
			if l.ToBatchID != "" {
				return domain.ErrInvalidInput
			}
		}
	}
	return nil
}

// PostInTx ejecuta el posteo usando los repositorios del caller (misma
// transacción). Lo usa Post y también la emisión de entregas, que postea la
// salida de mercancía y cambia el estado del documento en una sola unidad.
// Repostear un ID ya registrado devuelve el documento existente sin aplicar
// nada (idempotente).
func (uc *PostMovementUseCase) PostInTx(
	ctx context.Context,
	docRepo repository.DocumentRepository,
	materialRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
	input MovementInputDTO,
	now time.Time,
) (*entity.MaterialDocument, error) {
	if input.ID == "" {
		input.ID = uuid.New().String()
	} else if existing, err := movRepo.GetDocumentByID(ctx, input.ID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	seq, err := seqRepo.Next(ctx, "MD", now.Year())
	if err != nil {
		return nil, err
	}
	doc := &entity.MaterialDocument{
		ID:           input.ID,
		Number:       fmt.Sprintf("MD-%d-%06d", now.Year(), seq),
		MovementType: input.Type,
		Date:         now,
		CreatedAt:    now,
		CreatedBy:    input.UserID,
	}
	if err := movRepo.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	for _, in := range input.Lines {
		var lines []*entity.MovementLine
		var err error
		if input.Type == entity.MovementTypeTransfer {
			lines, err = uc.applyTransfer(ctx, materialRepo, batchRepo, doc, in, now)
		} else {
			direction := in.DebitCredit
			if d, ok := entity.DirectionFor(input.Type); ok {
				direction = d
			}
			var line *entity.MovementLine
			line, err = uc.applyLine(ctx, materialRepo, batchRepo, doc, in, direction, now)
			if line != nil {
				lines = []*entity.MovementLine{line}
			}
		}
		if err != nil {
			return nil, err
		}
		for _, line := range lines {
			if err := movRepo.CreateLine(ctx, line); err != nil {
				return nil, err
			}
			doc.Lines = append(doc.Lines, line)
		}
		// Linaje de conversión: el cumplimiento de la línea origen se aplica
		// en la misma transacción que el efecto físico.
		if in.RefItemID != "" {
			if err := uc.applyFulfillment(ctx, docRepo, in.RefItemID, in.Quantity, now); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

// applyLine bloquea material (y lote si aplica), verifica disponibilidad en
// salidas, actualiza agregado y lote juntos y construye el snapshot inmutable.
func (uc *PostMovementUseCase) applyLine(
	ctx context.Context,
	materialRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	doc *entity.MaterialDocument,
	in MovementLineInput,
	direction string,
	now time.Time,
) (*entity.MovementLine, error) {
	material, err := materialRepo.GetForUpdate(ctx, in.MaterialID)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.ErrNotFound
	}
	if material.BatchTracked && in.BatchID == "" {
		return nil, fmt.Errorf("material %s maneja lote: %w", material.Code, domain.ErrInvalidInput)
	}

	var batch *entity.MaterialBatch
	if in.BatchID != "" {
		batch, err = batchRepo.GetForUpdate(ctx, in.BatchID)
		if err != nil {
			return nil, err
		}
		if batch == nil || batch.MaterialID != material.ID {
			return nil, domain.ErrNotFound
		}
	}

	if direction == entity.DebitCreditH {
		if batch != nil {
			// El escape de stock negativo aplica solo al agregado sin lote:
			// un lote no emitible no despacha y RemainingQuantity nunca baja
			// de cero.
			available := batch.RemainingQuantity
			if !batch.Issuable() {
				available = decimal.Zero
			}
			if in.Quantity.GreaterThan(available) {
				return nil, domain.NewLineError(in.MaterialID, in.Quantity, available, domain.ErrInsufficientStock)
			}
		} else if in.Quantity.GreaterThan(material.CurrentStock) && !material.AllowNegativeStock {
			return nil, domain.NewLineError(in.MaterialID, in.Quantity, material.CurrentStock, domain.ErrInsufficientStock)
		}
	}

	previous := material.CurrentStock
	delta := in.Quantity
	if direction == entity.DebitCreditH {
		delta = delta.Neg()
	}
	newStock := previous.Add(delta)

	if batch != nil {
		batch.RemainingQuantity = batch.RemainingQuantity.Add(delta)
		switch {
		case batch.RemainingQuantity.IsZero() && direction == entity.DebitCreditH:
			batch.Status = entity.BatchStatusConsumed
		case batch.Status == entity.BatchStatusConsumed && batch.RemainingQuantity.GreaterThan(decimal.Zero):
			// una devolución sobre un lote consumido lo reactiva
			batch.Status = entity.BatchStatusAvailable
		}
		batch.UpdatedAt = now
		if err := batchRepo.Update(ctx, batch); err != nil {
			return nil, err
		}
	}
	if err := materialRepo.UpdateStock(ctx, material.ID, newStock); err != nil {
		return nil, err
	}

	return &entity.MovementLine{
		ID:            uuid.New().String(),
		DocumentID:    doc.ID,
		MaterialID:    material.ID,
		BatchID:       in.BatchID,
		Quantity:      in.Quantity,
		DebitCredit:   direction,
		PreviousStock: previous,
		NewStock:      newStock,
		RefItemID:     in.RefItemID,
		CreatedAt:     now,
	}, nil
}

// applyTransfer mueve cantidad entre dos lotes del mismo material: par H/S con
// efecto neto cero sobre el agregado.
func (uc *PostMovementUseCase) applyTransfer(
	ctx context.Context,
	materialRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	doc *entity.MaterialDocument,
	in MovementLineInput,
	now time.Time,
) ([]*entity.MovementLine, error) {
	dest, err := batchRepo.GetForUpdate(ctx, in.ToBatchID)
	if err != nil {
		return nil, err
	}
	if dest == nil || dest.MaterialID != in.MaterialID {
		return nil, domain.ErrNotFound
	}

	outIn := in
	outIn.ToBatchID = ""
	outIn.RefItemID = ""
	outLine, err := uc.applyLine(ctx, materialRepo, batchRepo, doc, outIn, entity.DebitCreditH, now)
	if err != nil {
		return nil, err
	}
	inIn := in
	inIn.BatchID = in.ToBatchID
	inIn.ToBatchID = ""
	inIn.RefItemID = ""
	inLine, err := uc.applyLine(ctx, materialRepo, batchRepo, doc, inIn, entity.DebitCreditS, now)
	if err != nil {
		return nil, err
	}
	return []*entity.MovementLine{outLine, inLine}, nil
}

// applyFulfillment bloquea la línea de documento referida, aplica el
// cumplimiento vía el libro de cantidades y dispara la transición automática
// del documento origen cuando queda sin pendiente (OC→COMPLETED, OV→DELIVERED).
func (uc *PostMovementUseCase) applyFulfillment(
	ctx context.Context,
	docRepo repository.DocumentRepository,
	refItemID string,
	quantity decimal.Decimal,
	now time.Time,
) error {
	line, err := docRepo.GetLineForUpdate(ctx, refItemID)
	if err != nil {
		return err
	}
	if line == nil {
		return domain.ErrNotFound
	}
	if _, err := ledger.ApplyFulfillment(line, quantity); err != nil {
		return err
	}
	if err := docRepo.UpdateLineFulfilled(ctx, line.ID, line.FulfilledQuantity); err != nil {
		return err
	}
	return TransitionIfExhausted(ctx, docRepo, line.DocumentID)
}

// TransitionIfExhausted pasa el documento a su estado de agotamiento cuando
// todas sus líneas quedan sin pendiente y el grafo lo permite.
func TransitionIfExhausted(ctx context.Context, docRepo repository.DocumentRepository, documentID string) error {
	doc, err := docRepo.GetByID(ctx, documentID)
	if err != nil || doc == nil {
		return err
	}
	target, ok := docflow.ExhaustedStatus(doc.Type)
	if !ok || !docflow.CanTransition(doc.Type, doc.Status, target) {
		return nil
	}
	lines, err := docRepo.GetLines(ctx, documentID)
	if err != nil {
		return err
	}
	for _, l := range lines {
		if !l.FullyFulfilled() {
			return nil
		}
	}
	return docRepo.UpdateStatus(ctx, documentID, target)
}
