// Package docflow implementa la máquina de estados compartida por todos los
// tipos de documento: un grafo dirigido fijo de transiciones por tipo, con un
// estado de entrada (DRAFT) y uno o más estados terminales. Bloquea cualquier
// mutación de cabecera/líneas fuera del estado editable.
package docflow

import (
	"fmt"

	"github.com/jhoicas/Manufactura-api/internal/domain"
	"github.com/jhoicas/Manufactura-api/internal/domain/entity"
)

// transitions define los sucesores directos válidos por tipo y estado.
var transitions = map[entity.DocumentType]map[entity.DocumentStatus][]entity.DocumentStatus{
	entity.DocTypeRequisition: {
		entity.StatusDraft:    {entity.StatusApproved, entity.StatusCancelled},
		entity.StatusApproved: {entity.StatusClosed, entity.StatusCancelled},
	},
	entity.DocTypePurchaseOrder: {
		entity.StatusDraft:     {entity.StatusConfirmed, entity.StatusCancelled},
		entity.StatusConfirmed: {entity.StatusCompleted, entity.StatusCancelled},
	},
	entity.DocTypeQuotation: {
		entity.StatusDraft:    {entity.StatusSent},
		entity.StatusSent:     {entity.StatusAccepted, entity.StatusRejected, entity.StatusExpired},
		entity.StatusAccepted: {entity.StatusConverted},
	},
	entity.DocTypeSalesOrder: {
		entity.StatusDraft:     {entity.StatusConfirmed},
		entity.StatusConfirmed: {entity.StatusDelivered},
		entity.StatusDelivered: {entity.StatusBilled},
	},
	entity.DocTypeDelivery: {
		entity.StatusDraft:  {entity.StatusPicked},
		entity.StatusPicked: {entity.StatusIssued},
	},
	entity.DocTypeInvoice: {
		entity.StatusDraft:  {entity.StatusPosted},
		entity.StatusPosted: {entity.StatusCancelled}, // anulación: marca void, no revierte el posteo
	},
}

// ValidType indica si el tipo de documento es conocido por el motor.
func ValidType(t entity.DocumentType) bool {
	_, ok := transitions[t]
	return ok
}

// Initial devuelve el estado de entrada de todo documento.
func Initial(entity.DocumentType) entity.DocumentStatus {
	return entity.StatusDraft
}

// CanTransition indica si target es sucesor directo de from en el grafo del tipo.
func CanTransition(t entity.DocumentType, from, target entity.DocumentStatus) bool {
	for _, s := range transitions[t][from] {
		if s == target {
			return true
		}
	}
	return false
}

// Validate falla con ErrIllegalTransition si target no es sucesor directo del
// estado actual del documento.
func Validate(doc *entity.Document, target entity.DocumentStatus) error {
	if !CanTransition(doc.Type, doc.Status, target) {
		return fmt.Errorf("documento %s (%s): %s → %s: %w",
			doc.Number, doc.Type, doc.Status, target, domain.ErrIllegalTransition)
	}
	return nil
}

// IsTerminal indica si el estado no tiene sucesores en el grafo del tipo.
func IsTerminal(t entity.DocumentType, s entity.DocumentStatus) bool {
	return len(transitions[t][s]) == 0
}

// Editable indica si cabecera y líneas admiten mutación (solo DRAFT).
func Editable(s entity.DocumentStatus) bool {
	return s == entity.StatusDraft
}

// Prefijos de numeración por tipo (número humano: <prefijo>-<año>-<consecutivo>).
var numberPrefixes = map[entity.DocumentType]string{
	entity.DocTypeRequisition:   "REQ",
	entity.DocTypePurchaseOrder: "OC",
	entity.DocTypeQuotation:     "COT",
	entity.DocTypeSalesOrder:    "OV",
	entity.DocTypeDelivery:      "ENT",
	entity.DocTypeInvoice:       "FAC",
}

// NumberPrefix devuelve el prefijo de numeración del tipo.
func NumberPrefix(t entity.DocumentType) string {
	return numberPrefixes[t]
}
