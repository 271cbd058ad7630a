package ports

import (
	"context"

	"github.com/jhoicas/Manufactura-api/internal/application/dto"
)

// ErpBridge define el puerto de salida hacia el ERP externo (Netsis).
// Cualquier adaptador (REST, mock) debe implementar esta interfaz; siguiendo
// el principio de inversión de dependencias, la aplicación solo conoce este
// contrato. Todas las llamadas deben respetar el timeout del contexto.
type ErpBridge interface {
	// GetStock consulta el saldo de un material en el ERP.
	GetStock(ctx context.Context, materialCode string) (*dto.ErpStockDTO, error)

	// GetStockBatch consulta los saldos por lote de un material en el ERP.
	GetStockBatch(ctx context.Context, materialCode string) ([]dto.ErpBatchStockDTO, error)

	// CreateOrder replica una orden confirmada en el ERP.
	CreateOrder(ctx context.Context, order dto.ErpOrderDTO) error

	// SyncToNetsis empuja los agregados de stock locales de los materiales
	// dados hacia el ERP.
	SyncToNetsis(ctx context.Context, stocks []dto.ErpStockDTO) (*dto.ErpSyncResultDTO, error)

	// SyncFromNetsis trae los saldos del ERP para los códigos dados.
	SyncFromNetsis(ctx context.Context, materialCodes []string) ([]dto.ErpStockDTO, error)

	// CheckHealth verifica que el ERP responde.
	CheckHealth(ctx context.Context) error
}
