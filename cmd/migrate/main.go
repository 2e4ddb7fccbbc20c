package main

import (
	"context"
	"log"

	"model-notes-be/internal/config"
	"model-notes-be/pkg/database"
)

func main() {
	// 1. Load Configuration (.env then environment)
	cfg := config.Load()

	// 2. Connect to Database
	conn, err := database.Open(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to open database:", err)
	}
	defer conn.Close()

	ctx := context.Background()
	before, err := database.SchemaVersion(ctx, conn)
	if err != nil {
		// A brand new file has no meta table yet.
		before = 0
	}

	// 3. Apply pending migrations
	log.Println("Running note schema migrations...")
	if err := database.Migrate(ctx, conn, database.DefaultMigrations()); err != nil {
		log.Fatal("Error: Migration failed:", err)
	}

	after, err := database.SchemaVersion(ctx, conn)
	if err != nil {
		log.Fatal("Error: Could not read schema version:", err)
	}

	if before == after {
		log.Printf("✅ Schema already at version %d", after)
		return
	}
	log.Printf("✅ Schema migrated from version %d to %d", before, after)
}
