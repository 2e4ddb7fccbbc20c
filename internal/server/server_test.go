package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"model-notes-be/internal/bootstrap"
	"model-notes-be/internal/config"
	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/logger"
	"model-notes-be/internal/pkg/serverutils"
	"model-notes-be/pkg/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	root := t.TempDir()
	loraDir := filepath.Join(root, "Lora")
	require.NoError(t, os.MkdirAll(loraDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(loraDir, "style.safetensors"), []byte("weights"), 0o644))

	conn, err := database.Open(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, database.Migrate(context.Background(), conn, database.DefaultMigrations()))

	cfg := &config.Config{
		App: config.AppConfig{Port: "0", CorsAllowedOrigins: "*"},
		Models: config.ModelsConfig{
			RootDir:         root,
			CheckpointDir:   filepath.Join(root, "Stable-diffusion"),
			HypernetworkDir: filepath.Join(root, "hypernetworks"),
			LoraDir:         loraDir,
			EmbeddingsDir:   filepath.Join(root, "embeddings"),
		},
		Civitai:  config.CivitaiConfig{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1},
		Notes:    config.NotesConfig{Markdown: true, InjectExtraPreviewButton: true},
		Transfer: config.TransferConfig{OutputDir: t.TempDir()},
	}

	container := bootstrap.NewContainerWithLogger(conn, cfg, logger.NewNopLogger())
	return New(cfg, container).GetApp()
}

func doRequest(t *testing.T, app *fiber.App, method, target string, body string) (*http.Response, []byte) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

func TestNoteRoutes(t *testing.T) {
	app := newTestApp(t)

	resp, body := doRequest(t, app, "GET", "/model_notes/get_note_by_name?type=lora&name=style", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"note":""}`, string(body))

	resp, body = doRequest(t, app, "POST", "/model_notes/set_note_by_name?type=LORA&name=style&note=%2A%2Acrisp%2A%2A", "")
	assert.Equal(t, 200, resp.StatusCode)
	assert.JSONEq(t, `{"success":true}`, string(body))

	_, body = doRequest(t, app, "GET", "/model_notes/get_note_by_name?type=Lora&name=style&markdown=true", "")
	var note dto.NoteResponse
	require.NoError(t, json.Unmarshal(body, &note))
	assert.Equal(t, "**crisp**", note.Note)
	assert.Contains(t, note.Html, "<strong>crisp</strong>")

	_, body = doRequest(t, app, "POST", "/model_notes/set_note_by_name?type=lora&name=missing&note=x", "")
	assert.JSONEq(t, `{"success":false}`, string(body))
}

func TestNoteByHashRoutes(t *testing.T) {
	app := newTestApp(t)

	_, body := doRequest(t, app, "POST", "/model_notes/set_note_by_hash?type=checkpoint&hash=abc123&note=hello", "")
	assert.JSONEq(t, `{"success":true}`, string(body))

	_, body = doRequest(t, app, "GET", "/model_notes/get_note_by_hash?hash=abc123", "")
	assert.JSONEq(t, `{"note":"hello"}`, string(body))

	_, body = doRequest(t, app, "GET", "/model_notes/get_note_by_hash?hash=unknown", "")
	assert.JSONEq(t, `{"note":""}`, string(body))
}

func TestConvertMarkdownToHtml(t *testing.T) {
	app := newTestApp(t)

	_, body := doRequest(t, app, "GET", "/model_notes/utils/convert_markdown_to_html?text=%23+Title", "")
	var res dto.HtmlResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "<h1>Title</h1>\n", res.Html)
}

func TestValidationErrorsUseEnvelope(t *testing.T) {
	app := newTestApp(t)

	resp, body := doRequest(t, app, "GET", "/model_notes/get_note_by_name?type=lora", "")
	assert.Equal(t, 400, resp.StatusCode)

	var res serverutils.BaseResponse[any]
	require.NoError(t, json.Unmarshal(body, &res))
	assert.False(t, res.Success)
	assert.Equal(t, 400, res.Code)
	assert.Contains(t, res.Message, "name is required")

	resp, _ = doRequest(t, app, "POST", "/model_notes/transfer/export", `{"format":"docx","destination":"output_dir","naming":"name"}`)
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/model_notes/nope", "")
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = doRequest(t, app, "GET", "/model_notes/progress", "")
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestListAndSettings(t *testing.T) {
	app := newTestApp(t)
	doRequest(t, app, "POST", "/model_notes/set_note_by_name?type=lora&name=style&note=n", "")

	_, body := doRequest(t, app, "GET", "/model_notes/list?type=lora", "")
	var list serverutils.BaseResponse[dto.ListNotesResponse]
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Data.Notes, 1)
	assert.Equal(t, "n", list.Data.Notes[0].Note)

	_, body = doRequest(t, app, "GET", "/model_notes/settings", "")
	var settings serverutils.BaseResponse[dto.SettingsResponse]
	require.NoError(t, json.Unmarshal(body, &settings))
	assert.True(t, settings.Data.Markdown)
	assert.True(t, settings.Data.InjectExtraPreviewButton)
	assert.False(t, settings.Data.Autosave)
}

func TestSyncAndTransferRoutes(t *testing.T) {
	app := newTestApp(t)

	_, body := doRequest(t, app, "POST", "/model_notes/civitai/sync", `{"kinds":[]}`)
	var sync serverutils.BaseResponse[dto.SyncResponse]
	require.NoError(t, json.Unmarshal(body, &sync))
	assert.Equal(t, "No models selected, nothing to download.", sync.Data.Summary)

	resp, body := doRequest(t, app, "POST", "/model_notes/civitai/sync", `{"kinds":["LoRA",""]}`)
	assert.Equal(t, 400, resp.StatusCode)
	var invalid serverutils.BaseResponse[any]
	require.NoError(t, json.Unmarshal(body, &invalid))
	assert.False(t, invalid.Success)
	assert.Equal(t, "kinds[1] is required", invalid.Message)

	doRequest(t, app, "POST", "/model_notes/set_note_by_name?type=lora&name=style&note=n", "")
	resp, body = doRequest(t, app, "POST", "/model_notes/transfer/export", `{"format":"md","destination":"output_dir","naming":"name"}`)
	assert.Equal(t, 200, resp.StatusCode)
	var export serverutils.BaseResponse[dto.ExportResponse]
	require.NoError(t, json.Unmarshal(body, &export))
	assert.Equal(t, 1, export.Data.Success)
	assert.NotEmpty(t, export.Data.RunId)
}
