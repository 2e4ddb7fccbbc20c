package bootstrap

import (
	"context"
	"net/http"
	"time"

	"model-notes-be/internal/config"
	"model-notes-be/internal/controller"
	"model-notes-be/internal/pkg/logger"
	"model-notes-be/internal/repository/implementation"
	"model-notes-be/internal/service"
	"model-notes-be/internal/websocket"
	"model-notes-be/pkg/civitai"
	"model-notes-be/pkg/database"
	pktNats "model-notes-be/pkg/nats"
	"model-notes-be/pkg/registry"
)

const progressTopic = "model_notes.progress"

type Container struct {
	// Controllers
	NoteController     controller.INoteController
	CivitaiController  controller.ICivitaiController
	TransferController controller.ITransferController
	SettingsController controller.ISettingsController
	ProgressController controller.IProgressController

	// Services (the CLI drives these directly)
	NoteService     service.INoteService
	SyncService     service.ISyncService
	TransferService service.ITransferService
	ProgressService service.IProgressService

	// WebSockets: main runs the hub against a progress subscription
	ProgressHub *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(conn *database.Conn, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	return NewContainerWithLogger(conn, cfg, sysLogger)
}

func NewContainerWithLogger(conn *database.Conn, cfg *config.Config, sysLogger logger.ILogger) *Container {
	// 1. Core
	noteRepository := implementation.NewNoteRepository(conn, sysLogger)
	resolver := registry.NewDirResolver(cfg.Models.Dirs())
	catalog := civitai.NewClient(civitai.Options{
		BaseURL:    cfg.Civitai.BaseURL,
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.Civitai.TimeoutSeconds) * time.Second},
		MaxRetries: cfg.Civitai.MaxRetries,
		Logger:     sysLogger,
	})

	// 2. Event Bus
	var forwarders []service.EventForwarder
	var closers []func()
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			sysLogger.Warn("Bootstrap", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
		} else {
			forwarders = append(forwarders, natsPub)
			closers = append(closers, natsPub.Close)
		}
	}
	progressService := service.NewProgressService(service.NewGoChannel(), progressTopic, sysLogger, forwarders...)
	progressHub := websocket.NewHub(sysLogger)

	// 3. Services
	noteService := service.NewNoteService(noteRepository, resolver, catalog, sysLogger)
	syncService := service.NewSyncService(noteService, resolver, catalog, progressService, cfg.Notes.Markdown, sysLogger)
	transferService := service.NewTransferService(noteService, resolver, progressService, cfg.Transfer.OutputDir, sysLogger)

	// 4. Controllers
	return &Container{
		NoteController:     controller.NewNoteController(noteService),
		CivitaiController:  controller.NewCivitaiController(noteService, syncService, cfg.Notes.Markdown),
		TransferController: controller.NewTransferController(transferService),
		SettingsController: controller.NewSettingsController(cfg.Notes),
		ProgressController: controller.NewProgressController(progressHub),

		NoteService:     noteService,
		SyncService:     syncService,
		TransferService: transferService,
		ProgressService: progressService,

		ProgressHub: progressHub,

		Logger: sysLogger,

		closers: closers,
	}
}

// Close releases connections opened by the container.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		closeFn()
	}
}

// StartBackground starts the progress logger and the websocket hub. Both stop
// when ctx is done.
func (c *Container) StartBackground(ctx context.Context) error {
	if err := c.ProgressService.LogProgress(ctx); err != nil {
		return err
	}

	updates, err := c.ProgressService.Subscribe(ctx)
	if err != nil {
		return err
	}
	go c.ProgressHub.Run(ctx, updates)
	return nil
}
