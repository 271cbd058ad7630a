package conversion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/docflow"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
	"github.com/jhoicas/Manufactura-api/internal/domain/ledger"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// ConvertUseCase crea un documento aguas abajo a partir de líneas de uno o más
// documentos origen, consumiendo parte o todo su pendiente. Todo el lote de
// líneas pasa o nada pasa: si la línea k falla, no queda ninguna línea destino.
type ConvertUseCase struct {
	txRunner TxRunner
}

// NewConvertUseCase construye el caso de uso.
func NewConvertUseCase(txRunner TxRunner) *ConvertUseCase {
	return &ConvertUseCase{txRunner: txRunner}
}

// HeaderInputDTO cabecera del documento destino.
type HeaderInputDTO struct {
	PartnerID  string
	CompanyID  string
	BranchID   string
	PurchOrgID string
	Currency   string
	Notes      string
}

// ConvertInputDTO entrada de una conversión. Amounts corre en paralelo a
// SourceLineIDs; BatchIDs es opcional (lote elegido por línea destino, usado
// al crear entregas).
type ConvertInputDTO struct {
	SourceLineIDs []string
	Amounts       []decimal.Decimal
	BatchIDs      []string
	TargetType    entity.DocumentType
	Header        HeaderInputDTO
	UserID        string
}

// Convert ejecuta la conversión completa en una transacción: bloquea cada
// línea origen, verifica estado convertible y pendiente suficiente, crea el
// destino en DRAFT con linaje SourceLineID y, en conversiones de papel,
// aplica el cumplimiento de inmediato. En rutas diferidas (OV→Entrega,
// Entrega→Factura) el cumplimiento lo aplica el posteo físico posterior.
func (uc *ConvertUseCase) Convert(ctx context.Context, input ConvertInputDTO) (*entity.Document, error) {
	if err := validateConvertInput(input); err != nil {
		return nil, err
	}

	var target *entity.Document
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.MaterialRepository,
		_ repository.BatchRepository,
		_ repository.MovementRepository,
		seqRepo repository.SequenceRepository,
	) error {
		now := time.Now()

		// 1) Bloquear y verificar todas las líneas origen antes de crear nada.
		sourceLines := make([]*entity.DocumentLine, len(input.SourceLineIDs))
		sourceDocs := make(map[string]*entity.Document)
		rules := make([]docflow.ConversionRule, len(input.SourceLineIDs))
		for i, lineID := range input.SourceLineIDs {
			line, err := docRepo.GetLineForUpdate(ctx, lineID)
			if err != nil {
				return err
			}
			if line == nil {
				return fmt.Errorf("línea origen %s: %w", lineID, domain.ErrNotFound)
			}
			srcDoc, ok := sourceDocs[line.DocumentID]
			if !ok {
				srcDoc, err = docRepo.GetByID(ctx, line.DocumentID)
				if err != nil {
					return err
				}
				if srcDoc == nil {
					return domain.ErrNotFound
				}
				sourceDocs[line.DocumentID] = srcDoc
			}
			rule, ok := docflow.RuleFor(srcDoc.Type, input.TargetType)
			if !ok || srcDoc.Status != rule.SourceStatus {
				return domain.NewLineError(lineID, input.Amounts[i], line.OpenQuantity(), domain.ErrConversionNotAllowed)
			}
			if !ledger.CanFulfill(line, input.Amounts[i]) {
				return domain.NewLineError(lineID, input.Amounts[i], line.OpenQuantity(), domain.ErrOverFulfillment)
			}
			sourceLines[i] = line
			rules[i] = rule
		}

		// 2) Crear cabecera destino en DRAFT con numeración consecutiva.
		seq, err := seqRepo.Next(ctx, string(input.TargetType), now.Year())
		if err != nil {
			return err
		}
		target = &entity.Document{
			ID:         uuid.New().String(),
			Number:     fmt.Sprintf("%s-%d-%06d", docflow.NumberPrefix(input.TargetType), now.Year(), seq),
			Type:       input.TargetType,
			Status:     docflow.Initial(input.TargetType),
			PartnerID:  input.Header.PartnerID,
			CompanyID:  input.Header.CompanyID,
			BranchID:   input.Header.BranchID,
			PurchOrgID: input.Header.PurchOrgID,
			Currency:   input.Header.Currency,
			Date:       now,
			Notes:      input.Header.Notes,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := docRepo.Create(ctx, target); err != nil {
			return err
		}

		// 3) Líneas destino con linaje + cumplimiento inmediato si es de papel.
		for i, src := range sourceLines {
			line := &entity.DocumentLine{
				ID:                uuid.New().String(),
				DocumentID:        target.ID,
				MaterialID:        src.MaterialID,
				Quantity:          input.Amounts[i],
				Unit:              src.Unit,
				FulfilledQuantity: decimal.Zero,
				SourceLineID:      src.ID,
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if len(input.BatchIDs) > i {
				line.BatchID = input.BatchIDs[i]
			}
			if err := docRepo.CreateLine(ctx, line); err != nil {
				return err
			}
			target.Lines = append(target.Lines, line)

			if rules[i].Immediate {
				if _, err := ledger.ApplyFulfillment(src, input.Amounts[i]); err != nil {
					return err
				}
				if err := docRepo.UpdateLineFulfilled(ctx, src.ID, src.FulfilledQuantity); err != nil {
					return err
				}
			}
		}

		// 4) Documentos origen agotados pasan a su estado final (REQ→CLOSED,
		// COT→CONVERTED) dentro de la misma transacción.
		for docID, srcDoc := range sourceDocs {
			if _, ok := docflow.ExhaustedStatus(srcDoc.Type); ok {
				if err := inventory.TransitionIfExhausted(ctx, docRepo, docID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

func validateConvertInput(input ConvertInputDTO) error {
	if len(input.SourceLineIDs) == 0 || len(input.SourceLineIDs) != len(input.Amounts) {
		return domain.ErrInvalidInput
	}
	if !docflow.ValidType(input.TargetType) {
		return domain.ErrInvalidInput
	}
	if len(input.BatchIDs) != 0 && len(input.BatchIDs) != len(input.SourceLineIDs) {
		return domain.ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(input.SourceLineIDs))
	for i, id := range input.SourceLineIDs {
		// Una misma línea dos veces en el lote burlaría el chequeo de
		// pendiente: cada entrada se validaría contra la copia sin aplicar.
		if _, dup := seen[id]; dup {
			return fmt.Errorf("línea origen %s repetida en el lote: %w", id, domain.ErrInvalidInput)
		}
		seen[id] = struct{}{}
		if !input.Amounts[i].GreaterThan(decimal.Zero) {
			return domain.NewLineError(id, input.Amounts[i], decimal.Zero, domain.ErrInvalidQuantity)
		}
	}
	return nil
}
