package config

import (
	"path/filepath"
	"testing"

	"model-notes-be/pkg/modeltype"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MODELS_DIR", "/srv/models")
	t.Setenv("CIVITAI_MAX_RETRIES", "not-a-number")

	cfg := Load()

	assert.Equal(t, "notes.db", cfg.Database.Connection)
	assert.Equal(t, filepath.Join("/srv/models", "Lora"), cfg.Models.LoraDir)
	assert.Equal(t, 5, cfg.Civitai.MaxRetries)
	assert.False(t, cfg.Notes.Markdown)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_CONNECTION_STRING", "/tmp/other.db")
	t.Setenv("LORA_DIR", "/data/lora")
	t.Setenv("CIVITAI_MAX_RETRIES", "2")
	t.Setenv("MODEL_NOTE_MARKDOWN", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, "/tmp/other.db", cfg.Database.Connection)
	assert.Equal(t, "/data/lora", cfg.Models.LoraDir)
	assert.Equal(t, 2, cfg.Civitai.MaxRetries)
	assert.True(t, cfg.Notes.Markdown)
	assert.True(t, cfg.IsProduction())
}

func TestModelsDirs(t *testing.T) {
	t.Setenv("MODELS_DIR", "/srv/models")
	t.Setenv("EMBEDDINGS_DIR", "/srv/embeddings")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()
	dirs := cfg.Models.Dirs()

	assert.Len(t, dirs, 4)
	assert.Equal(t, filepath.Join("/srv/models", "Stable-diffusion"), dirs[modeltype.Checkpoint])
	assert.Equal(t, "/srv/embeddings", dirs[modeltype.TextualInversion])
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "model-notes-backend", cfg.Tracing.ServiceName)
}
