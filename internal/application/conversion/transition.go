package conversion

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/docflow"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// TransitionUseCase mueve un documento por su grafo de estados. Las
// transiciones con efectos físicos o contables (emitir entrega, postear
// factura) ejecutan el efecto y el cambio de estado en una sola transacción.
type TransitionUseCase struct {
	txRunner TxRunner
	poster   *inventory.PostMovementUseCase
}

// NewTransitionUseCase construye el caso de uso.
func NewTransitionUseCase(txRunner TxRunner, poster *inventory.PostMovementUseCase) *TransitionUseCase {
	return &TransitionUseCase{txRunner: txRunner, poster: poster}
}

// Transition valida la transición contra el grafo del tipo y la aplica.
// Reglas acopladas:
//   - OC DRAFT→CONFIRMED exige proveedor y tripleta organizacional completa.
//   - Entrega PICKED→ISSUED postea la salida de mercancía (con cumplimiento de
//     la OV origen) antes de cambiar el estado.
//   - Factura DRAFT→POSTED aplica el cumplimiento sobre las líneas de entrega
//     origen y, si la OV quedó totalmente facturada, la pasa a BILLED.
//   - Factura POSTED→CANCELLED es una anulación: marca void, no revierte stock.
func (uc *TransitionUseCase) Transition(ctx context.Context, documentID string, target entity.DocumentStatus, userID string) (*entity.Document, error) {
	var doc *entity.Document
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		materialRepo repository.MaterialRepository,
		batchRepo repository.BatchRepository,
		movRepo repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error {
		var err error
		doc, err = docRepo.GetForUpdate(ctx, documentID)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.ErrNotFound
		}
		if err := docflow.Validate(doc, target); err != nil {
			return err
		}

		switch {
		case doc.Type == entity.DocTypePurchaseOrder && target == entity.StatusConfirmed:
			if doc.PartnerID == "" || doc.CompanyID == "" || doc.BranchID == "" || doc.PurchOrgID == "" {
				return fmt.Errorf("orden %s sin proveedor u organización de compras completa: %w",
					doc.Number, domain.ErrInvalidInput)
			}
		case doc.Type == entity.DocTypeDelivery && target == entity.StatusIssued:
			if err := uc.issueDelivery(ctx, docRepo, materialRepo, batchRepo, movRepo, seqRepo, doc, userID); err != nil {
				return err
			}
		case doc.Type == entity.DocTypeInvoice && target == entity.StatusPosted:
			if err := uc.postInvoice(ctx, docRepo, doc); err != nil {
				return err
			}
		}

		if err := docRepo.UpdateStatus(ctx, doc.ID, target); err != nil {
			return err
		}
		doc.Status = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// issueDelivery postea la salida de mercancía de la entrega: una línea de
// movimiento OUTBOUND por línea de entrega, con RefItemID apuntando a la línea
// de OV origen para que el posteador aplique el cumplimiento (y OV→DELIVERED
// si queda agotada). El ID del movimiento es el ID de la entrega: repostear la
// misma emisión es un no-op.
func (uc *TransitionUseCase) issueDelivery(
	ctx context.Context,
	docRepo repository.DocumentRepository,
	materialRepo repository.MaterialRepository,
	batchRepo repository.BatchRepository,
	movRepo repository.MovementRepository,
	seqRepo repository.SequenceRepository,
	delivery *entity.Document,
	userID string,
) error {
	lines, err := docRepo.GetLines(ctx, delivery.ID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("entrega %s sin líneas: %w", delivery.Number, domain.ErrInvalidInput)
	}
	input := inventory.MovementInputDTO{
		ID:     delivery.ID,
		Type:   entity.MovementTypeOutbound,
		UserID: userID,
	}
	for _, l := range lines {
		input.Lines = append(input.Lines, inventory.MovementLineInput{
			MaterialID: l.MaterialID,
			BatchID:    l.BatchID,
			Quantity:   l.Quantity,
			RefItemID:  l.SourceLineID,
		})
	}
	_, err = uc.poster.PostInTx(ctx, docRepo, materialRepo, batchRepo, movRepo, seqRepo, input, time.Now())
	return err
}

// postInvoice aplica el cumplimiento de facturación sobre las líneas de
// entrega origen y promueve la OV a BILLED cuando todas sus líneas quedan
// completamente facturadas a través de sus entregas.
func (uc *TransitionUseCase) postInvoice(
	ctx context.Context,
	docRepo repository.DocumentRepository,
	invoice *entity.Document,
) error {
	lines, err := docRepo.GetLines(ctx, invoice.ID)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		return fmt.Errorf("factura %s sin líneas: %w", invoice.Number, domain.ErrInvalidInput)
	}

	salesOrderIDs := make(map[string]struct{})
	for _, l := range lines {
		if l.SourceLineID == "" {
			continue
		}
		deliveryLine, err := docRepo.GetLineForUpdate(ctx, l.SourceLineID)
		if err != nil {
			return err
		}
		if deliveryLine == nil {
			return domain.ErrNotFound
		}
		if _, err := ledger.ApplyFulfillment(deliveryLine, l.Quantity); err != nil {
			return err
		}
		if err := docRepo.UpdateLineFulfilled(ctx, deliveryLine.ID, deliveryLine.FulfilledQuantity); err != nil {
			return err
		}
		if deliveryLine.SourceLineID != "" {
			soLine, err := docRepo.GetLineByID(ctx, deliveryLine.SourceLineID)
			if err != nil {
				return err
			}
			if soLine != nil {
				salesOrderIDs[soLine.DocumentID] = struct{}{}
			}
		}
	}

	for soID := range salesOrderIDs {
		if err := uc.promoteSalesOrderIfBilled(ctx, docRepo, soID); err != nil {
			return err
		}
	}
	return nil
}

// promoteSalesOrderIfBilled pasa la OV a BILLED si está DELIVERED y cada una de
// sus líneas está cubierta por cumplimiento de facturación en sus líneas de
// entrega descendientes.
func (uc *TransitionUseCase) promoteSalesOrderIfBilled(
	ctx context.Context,
	docRepo repository.DocumentRepository,
	salesOrderID string,
) error {
	so, err := docRepo.GetByID(ctx, salesOrderID)
	if err != nil || so == nil {
		return err
	}
	if so.Type != entity.DocTypeSalesOrder || !docflow.CanTransition(so.Type, so.Status, entity.StatusBilled) {
		return nil
	}
	soLines, err := docRepo.GetLines(ctx, so.ID)
	if err != nil {
		return err
	}
	for _, soLine := range soLines {
		deliveryLines, err := docRepo.ListLinesBySource(ctx, soLine.ID)
		if err != nil {
			return err
		}
		billed := decimal.Zero
		for _, dl := range deliveryLines {
			billed = billed.Add(dl.FulfilledQuantity)
		}
		if billed.LessThan(soLine.Quantity) {
			return nil
		}
	}
	return docRepo.UpdateStatus(ctx, so.ID, entity.StatusBilled)
}
