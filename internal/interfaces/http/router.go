package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/conversion"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/ports"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MaterialUC   *usecase.MaterialUseCase
	DocumentUC   *usecase.DocumentUseCase
	PostMovement *inventory.PostMovementUseCase
	VerifyStock  *inventory.VerifyStockUseCase
	LowStock     *inventory.LowStockUseCase
	Convert      *conversion.ConvertUseCase
	Transition   *conversion.TransitionUseCase
	MovementRepo repository.MovementRepository
	Netsis       ports.ErpBridge
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Materiales y lotes
	materials := api.Group("/materials")
	materialHandler := NewMaterialHandler(deps.MaterialUC)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Post("/:id/batches", materialHandler.CreateBatch)
	materials.Get("/:id/batches", materialHandler.ListBatches)

	// Documentos de negocio: creación, lectura, transición y conversión
	documents := api.Group("/documents")
	documentHandler := NewDocumentHandler(deps.DocumentUC, deps.Transition)
	conversionHandler := NewConversionHandler(deps.Convert)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Post("/convert", conversionHandler.Convert)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Post("/:id/transition", documentHandler.Transition)

	// Libro de stock
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.PostMovement, deps.VerifyStock, deps.LowStock, deps.MovementRepo)
	invGroup.Post("/movements", inventoryHandler.PostMovement)
	invGroup.Get("/materials/:id/movements", inventoryHandler.ListMovements)
	invGroup.Get("/materials/:id/verify", inventoryHandler.VerifyStock)
	invGroup.Get("/low-stock", inventoryHandler.LowStockList)

	// Puente ERP (opcional: solo si hay adaptador configurado)
	if deps.Netsis != nil {
		netsisGroup := api.Group("/netsis")
		netsisHandler := NewNetsisHandler(deps.Netsis)
		netsisGroup.Get("/health", netsisHandler.Health)
		netsisGroup.Get("/stock/:code", netsisHandler.GetStock)
		netsisGroup.Post("/stock/pull", netsisHandler.PullStock)
	}
}
