package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"model-notes-be/internal/bootstrap"
	"model-notes-be/internal/config"
	"model-notes-be/internal/server"
	"model-notes-be/internal/tracer"
	"model-notes-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database and bring the schema up to date
	conn, err := database.Open(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to open note database: %v", err)
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, conn, database.DefaultMigrations()); err != nil {
		log.Panicf("Unable to migrate note database: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(conn, cfg)
	defer container.Close()
	defer container.Logger.Sync()

	// 5. Start Background Services
	if err := container.StartBackground(ctx); err != nil {
		log.Printf("Background services error: %v", err)
	}

	// 6. Initialize and run Server
	srv := server.New(cfg, container)
	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		_ = srv.Shutdown()
	}()

	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
