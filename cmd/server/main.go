package main

import (
	"log"

	"legajo_app_go/config"
	"legajo_app_go/db"
	"legajo_app_go/handlers"
	"legajo_app_go/middleware"
	"legajo_app_go/models"
	"legajo_app_go/services"
	"legajo_app_go/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Person{},
		&models.Identification{},
		&models.Domicile{},
		&models.Barrio{},
		&models.PersonBarrio{},
		&models.Title{},
		&models.PersonDocument{},
		&models.Profile{},
		&models.ProfileAssignment{},
		&models.TariffRate{},
		&models.Carrera{},
		&models.Materia{},
		&models.Contract{},
		&models.ContractItem{},
		&models.LegajoEstado{},
		&models.LegajoHistorial{},
		&models.PlazoGracia{},
		&models.Notification{},
		&models.User{},
		&models.DomainEvent{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed catalogs
	if err := services.SeedProfiles(db.DB); err != nil {
		log.Fatalf("Failed to seed profiles: %v", err)
	}
	if err := services.SeedTariffs(db.DB); err != nil {
		log.Fatalf("Failed to seed tariffs: %v", err)
	}

	// Initialize storage
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	// All routes require a resolved actor
	api := e.Group("/api")
	api.Use(middleware.WithActor())
	{
		// Contracts
		api.POST("/contratos", handlers.CreateGeneralContractHandler)
		api.POST("/contratos/profesor", handlers.CreateProfessorContractHandler)
		api.GET("/contratos/:id", handlers.GetContractHandler)
		api.PUT("/contratos/:id", handlers.UpdateContractHandler)
		api.DELETE("/contratos/:id", handlers.DeleteContractHandler)
		api.GET("/contratos/:id/pdf", handlers.GetContractPDFHandler)

		// Persons and dossiers
		api.POST("/personas", handlers.CreatePersonHandler)
		api.GET("/personas/:id", handlers.GetPersonHandler)
		api.PUT("/personas/:id", handlers.UpdatePersonHandler)
		api.PUT("/personas/:id/identificacion", handlers.UpsertIdentificationHandler)
		api.POST("/personas/:id/domicilios", handlers.AddDomicileHandler)
		api.POST("/personas/:id/titulos", handlers.AddTitleHandler)
		api.GET("/personas/:id/contratos", handlers.GetPersonContractsHandler)
		api.POST("/personas/:id/documentos", handlers.UploadDocumentHandler)
		api.GET("/personas/:id/documentos", handlers.ListDocumentsHandler)
		api.GET("/personas/:id/documentos/:docId", handlers.DownloadDocumentHandler)
		api.DELETE("/personas/:id/documentos/:docId", handlers.DeleteDocumentHandler)

		// Legajo state machine
		api.GET("/personas/:id/legajo", handlers.GetLegajoHandler)
		api.POST("/personas/:id/legajo/recompute", handlers.RecomputeLegajoHandler)

		// Notifications
		api.GET("/notificaciones", handlers.GetNotificationsHandler)
		api.GET("/notificaciones/count", handlers.GetNotificationCountHandler)
		api.PUT("/notificaciones/:id/read", handlers.MarkNotificationReadHandler)
		api.PUT("/notificaciones/read-all", handlers.MarkAllNotificationsReadHandler)

		// RRHH-only operations
		rrhh := api.Group("")
		rrhh.Use(middleware.RequireProfile(models.ProfileRRHH))
		{
			rrhh.PUT("/personas/:id/legajo/estado", handlers.SetEstadoHandler)
			rrhh.POST("/personas/:id/legajo/plazo-gracia", handlers.SetPlazoGraciaHandler)
			rrhh.POST("/personas/:id/perfiles", handlers.AssignProfileHandler)
			rrhh.DELETE("/personas/:id/perfiles/:codigo", handlers.RevokeProfileHandler)
			rrhh.PUT("/usuarios/:id/estado", handlers.SetUserActiveHandler)
			rrhh.POST("/personas/import", handlers.ImportPersonsHandler)
			rrhh.GET("/personas/import/plantilla", handlers.ImportTemplateHandler)
		}
	}

	// Background jobs
	jobs.StartOutboxDispatcher(db.DB, cfg)
	jobs.StartReminderScheduler(db.DB, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
