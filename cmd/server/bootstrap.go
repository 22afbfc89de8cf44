package main

import (
	"github.com/srynko/teamspace/internal/config"
	"github.com/srynko/teamspace/internal/handlers"
	"github.com/srynko/teamspace/internal/models"
	"github.com/srynko/teamspace/internal/services"
	"github.com/srynko/teamspace/internal/services/sync"
	"github.com/srynko/teamspace/internal/utils"
	"github.com/srynko/teamspace/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	syncService      *sync.Service
	eventQueue       services.EventQueue
	worker           *services.Worker
	webhookHandler   *handlers.WebhookHandler
	workspaceHandler *handlers.WorkspaceHandler
}

// bootstrap initializes all application dependencies: database, sync service,
// event queue, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetSessionSecret(cfg.Auth.SessionSecret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	services.InitSystemLogger(models.GetDB())
	services.StartLogCleanupScheduler(models.GetDB(), cfg.Log.RetentionDays)

	syncService := sync.NewService(models.GetDB(), &cfg.Webhook)
	// Every provider event type must be routed; a gap is a programming error.
	if err := syncService.ValidateHandlers(); err != nil {
		logger.Fatalf("Invalid sync handler registry: %v", err)
	}

	// Event queue (uses Redis if enabled, otherwise inline sync mode)
	eventQueue := services.InitEventQueue(cfg)
	if syncQueue, ok := eventQueue.(*services.SyncEventQueue); ok {
		syncQueue.SetProcessor(syncService.ProcessEvent)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(syncService.ProcessEvent)
			worker.Start()
		}
	}

	return &appServices{
		syncService:      syncService,
		eventQueue:       eventQueue,
		worker:           worker,
		webhookHandler:   handlers.NewWebhookHandler(models.GetDB(), &cfg.Webhook, eventQueue),
		workspaceHandler: handlers.NewWorkspaceHandler(models.GetDB()),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.eventQueue != nil {
		s.eventQueue.Close()
	}
	logger.Info().Msg("All services stopped")
}
