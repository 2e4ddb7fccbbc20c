package database

import (
	"context"
	"fmt"
	"strconv"

	"model-notes-be/internal/model"

	"gorm.io/gorm"
)

// CurrentSchemaVersion is the version recorded after all migrations ran.
const CurrentSchemaVersion = 2

// Migration upgrades the schema from Version-1 to Version.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *gorm.DB) error
}

var baseTables = []string{
	`CREATE TABLE IF NOT EXISTS meta (
		version text PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS notes (
		model_hash text PRIMARY KEY,
		note text NOT NULL,
		model_type text NOT NULL
	)`,
}

var defaultMigrations = []Migration{
	{
		Version:     2,
		Description: "add notes.model_type",
		Up: func(tx *gorm.DB) error {
			if tx.Migrator().HasColumn("notes", "model_type") {
				return nil
			}
			// '1' is the Checkpoint tag; every note before v2 was a checkpoint note.
			if err := tx.Exec(`ALTER TABLE notes ADD COLUMN model_type text NOT NULL DEFAULT '1'`).Error; err != nil {
				return fmt.Errorf("add notes.model_type: %w", err)
			}
			return nil
		},
	},
}

func DefaultMigrations() []Migration {
	out := make([]Migration, len(defaultMigrations))
	copy(out, defaultMigrations)
	return out
}

// Migrate creates missing tables and applies every migration newer than the
// stored version. Calling it on an up to date database changes nothing.
func Migrate(ctx context.Context, conn *Conn, migrations []Migration) error {
	return conn.Do(ctx, func(db *gorm.DB) error {
		for _, stmt := range baseTables {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("create base tables: %w", err)
			}
		}

		current, err := readVersion(db)
		if err != nil {
			return err
		}

		for _, m := range migrations {
			if m.Version <= current {
				continue
			}
			err := db.Transaction(func(tx *gorm.DB) error {
				if err := m.Up(tx); err != nil {
					return err
				}
				return writeVersion(tx, m.Version)
			})
			if err != nil {
				return fmt.Errorf("apply migration v%d (%s): %w", m.Version, m.Description, err)
			}
			current = m.Version
		}
		return nil
	})
}

// SchemaVersion reads the stored version; an empty meta table means version 1.
func SchemaVersion(ctx context.Context, conn *Conn) (int, error) {
	var version int
	err := conn.Do(ctx, func(db *gorm.DB) error {
		v, err := readVersion(db)
		version = v
		return err
	})
	return version, err
}

func readVersion(db *gorm.DB) (int, error) {
	var rows []model.Meta
	if err := db.Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	version := 1
	for _, row := range rows {
		v, err := strconv.Atoi(row.Version)
		if err != nil {
			return 0, fmt.Errorf("read schema version: bad value %q", row.Version)
		}
		if v > version {
			version = v
		}
	}
	return version, nil
}

// writeVersion replaces the single meta row.
func writeVersion(tx *gorm.DB, version int) error {
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Meta{}).Error; err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	if err := tx.Create(&model.Meta{Version: strconv.Itoa(version)}).Error; err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}
