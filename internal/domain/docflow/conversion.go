package docflow

import "github.com/jhoicas/Manufactura-api/internal/domain/entity"

// ConversionRule describe una ruta de conversión válida entre tipos.
//
// SourceStatus es el estado que debe tener el documento origen para que una
// línea suya pueda convertirse. Immediate distingue las conversiones "de
// papel" (el cumplimiento de la línea origen se aplica en la misma
// transacción de la conversión) de las diferidas, cuyo cumplimiento lo aplica
// el posteo físico posterior: la salida de mercancía para OV→Entrega y el
// posteo de la factura para Entrega→Factura.
type ConversionRule struct {
	SourceStatus entity.DocumentStatus
	Immediate    bool
}

// conversionMatrix: linaje hacia adelante, siempre acíclico por construcción
// (la línea creada es estrictamente más "nueva" que su origen).
var conversionMatrix = map[entity.DocumentType]map[entity.DocumentType]ConversionRule{
	entity.DocTypeRequisition: {
		entity.DocTypePurchaseOrder: {SourceStatus: entity.StatusApproved, Immediate: true},
	},
	entity.DocTypeQuotation: {
		entity.DocTypeSalesOrder: {SourceStatus: entity.StatusAccepted, Immediate: true},
	},
	entity.DocTypeSalesOrder: {
		entity.DocTypeDelivery: {SourceStatus: entity.StatusConfirmed, Immediate: false},
	},
	entity.DocTypeDelivery: {
		entity.DocTypeInvoice: {SourceStatus: entity.StatusIssued, Immediate: false},
	},
}

// RuleFor devuelve la regla de conversión source→target, si existe.
func RuleFor(source, target entity.DocumentType) (ConversionRule, bool) {
	rule, ok := conversionMatrix[source][target]
	return rule, ok
}

// ExhaustedStatus es el estado al que pasa automáticamente un documento origen
// cuando todas sus líneas quedan sin pendiente, si aplica para el tipo.
func ExhaustedStatus(t entity.DocumentType) (entity.DocumentStatus, bool) {
	switch t {
	case entity.DocTypeRequisition:
		return entity.StatusClosed, true // todo pedido ya ordenado
	case entity.DocTypeQuotation:
		return entity.StatusConverted, true
	case entity.DocTypePurchaseOrder:
		return entity.StatusCompleted, true // todo recibido
	case entity.DocTypeSalesOrder:
		return entity.StatusDelivered, true // todo despachado
	default:
		return "", false
	}
}
