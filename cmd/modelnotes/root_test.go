package main

import (
	"context"
	"path/filepath"
	"testing"

	"model-notes-be/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestModelsUnder(t *testing.T) {
	m := modelsUnder("/srv/sd")

	assert.Equal(t, "/srv/sd", m.RootDir)
	assert.Equal(t, filepath.Join("/srv/sd", "Stable-diffusion"), m.CheckpointDir)
	assert.Equal(t, filepath.Join("/srv/sd", "hypernetworks"), m.HypernetworkDir)
	assert.Equal(t, filepath.Join("/srv/sd", "Lora"), m.LoraDir)
	assert.Equal(t, filepath.Join("/srv/sd", "embeddings"), m.EmbeddingsDir)
}

func TestKindLabels(t *testing.T) {
	assert.Equal(t, []string{"Checkpoints", "Hypernetworks", "LoRA", "Textual Inversion"}, kindLabels())
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "notes.db")

	c, err := openStore(ctx, dsn)
	require.NoError(t, err)
	version, err := database.SchemaVersion(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, database.CurrentSchemaVersion, version)

	require.NoError(t, c.Do(ctx, func(db *gorm.DB) error {
		return db.Exec(`INSERT INTO meta(version) VALUES('abc')`).Error
	}))
	require.NoError(t, c.Close())

	c, err = openStore(ctx, dsn)
	assert.ErrorContains(t, err, "migrate note database")
	assert.Nil(t, c)
}
