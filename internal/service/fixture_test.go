package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"model-notes-be/internal/pkg/logger"
	"model-notes-be/internal/repository/implementation"
	"model-notes-be/pkg/database"
	"model-notes-be/pkg/modeltype"
	"model-notes-be/pkg/registry"

	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu           sync.Mutex
	descriptions map[string]string
	images       map[string]bool
	fetched      []string
}

func (c *fakeCatalog) FetchDescription(_ context.Context, hash string, wantMarkdown bool) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetched = append(c.fetched, hash)
	return c.descriptions[hash]
}

func (c *fakeCatalog) FetchPreviewImage(_ context.Context, hash, destPath string) bool {
	if !c.images[hash] {
		return false
	}
	return os.WriteFile(destPath, []byte("png"), 0o644) == nil
}

type fixture struct {
	root     string
	resolver *registry.Resolver
	notes    INoteService
	catalog  *fakeCatalog
	progress IProgressService
	conn     *database.Conn
}

func writeModel(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// newFixture lays out a models root with two LoRAs and one embedding.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	writeModel(t, filepath.Join(root, "Lora", "alpha.safetensors"), "alpha")
	writeModel(t, filepath.Join(root, "Lora", "beta.safetensors"), "beta")
	writeModel(t, filepath.Join(root, "embeddings", "gamma.pt"), "gamma")

	conn, err := database.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, database.Migrate(context.Background(), conn, database.DefaultMigrations()))

	log := logger.NewNopLogger()
	resolver := registry.NewDirResolver(map[modeltype.Kind]string{
		modeltype.Checkpoint:       filepath.Join(root, "Stable-diffusion"),
		modeltype.Hypernetwork:     filepath.Join(root, "hypernetworks"),
		modeltype.LoRA:             filepath.Join(root, "Lora"),
		modeltype.TextualInversion: filepath.Join(root, "embeddings"),
	})
	catalog := &fakeCatalog{descriptions: map[string]string{}, images: map[string]bool{}}

	return &fixture{
		root:     root,
		resolver: resolver,
		notes:    NewNoteService(implementation.NewNoteRepository(conn, log), resolver, catalog, log),
		catalog:  catalog,
		progress: NewProgressService(NewGoChannel(), "progress", log),
		conn:     conn,
	}
}

func (f *fixture) hash(t *testing.T, kind modeltype.Kind, name string) string {
	t.Helper()
	h, err := f.resolver.Hash(kind, name)
	require.NoError(t, err)
	return h
}
