package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/logger"
	"model-notes-be/pkg/events"
	"model-notes-be/pkg/modeltype"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const syncModule = "SyncService"

const NothingSelectedSummary = "No models selected, nothing to download."

var previewSuffixes = []string{".preview.png", ".png", ".jpg", ".jpeg", ".webp"}

type ISyncService interface {
	// Sync pulls catalog descriptions (and optionally preview images) for every
	// model of the selected kinds. Per-model failures are counted, never returned.
	Sync(ctx context.Context, req dto.SyncRequest) dto.SyncResponse
}

type syncService struct {
	noteService     INoteService
	resolver        ModelResolver
	catalog         DescriptionCatalog
	progressService IProgressService
	markdownEnabled bool
	logger          logger.ILogger
}

func NewSyncService(
	noteService INoteService,
	resolver ModelResolver,
	catalog DescriptionCatalog,
	progressService IProgressService,
	markdownEnabled bool,
	log logger.ILogger,
) ISyncService {
	return &syncService{
		noteService:     noteService,
		resolver:        resolver,
		catalog:         catalog,
		progressService: progressService,
		markdownEnabled: markdownEnabled,
		logger:          log,
	}
}

func (s *syncService) Sync(ctx context.Context, req dto.SyncRequest) dto.SyncResponse {
	selected := s.selectedKinds(req.Kinds)
	if len(selected) == 0 {
		return dto.SyncResponse{Stats: []dto.SyncStats{}, Summary: NothingSelectedSummary}
	}

	if !s.markdownEnabled {
		req.Markdown = false
	}

	runID := uuid.New().String()
	ctx, span := otel.Tracer("model-notes-be/service").Start(ctx, "SyncService.Sync")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", runID), attribute.Int("kinds", len(selected)))

	s.logger.Info(syncModule, "Sync started", map[string]interface{}{
		"run_id":    runID,
		"kinds":     len(selected),
		"overwrite": req.Overwrite,
		"markdown":  req.Markdown,
		"images":    req.Images,
	})

	stats := make([]dto.SyncStats, 0, len(selected))
	for _, kind := range selected {
		stats = append(stats, s.syncKind(ctx, runID, kind, req))
	}

	lines := make([]string, 0, len(stats))
	for _, st := range stats {
		lines = append(lines, summaryLine(st, req.Images))
	}
	summary := strings.Join(lines, "\n")

	s.logger.Info(syncModule, "Sync finished", map[string]interface{}{
		"run_id":  runID,
		"summary": summary,
	})

	return dto.SyncResponse{RunId: runID, Stats: stats, Summary: summary}
}

// selectedKinds keeps the canonical kind order whatever order the labels came in.
func (s *syncService) selectedKinds(labels []string) []modeltype.Kind {
	wanted := make(map[modeltype.Kind]bool, len(labels))
	for _, label := range labels {
		kind, err := modeltype.Parse(label)
		if err != nil {
			s.logger.Warn(syncModule, "Ignoring unknown model kind", map[string]interface{}{"kind": label})
			continue
		}
		wanted[kind] = true
	}

	out := make([]modeltype.Kind, 0, len(wanted))
	for _, kind := range modeltype.All() {
		if wanted[kind] {
			out = append(out, kind)
		}
	}
	return out
}

func (s *syncService) syncKind(ctx context.Context, runID string, kind modeltype.Kind, req dto.SyncRequest) dto.SyncStats {
	st := dto.SyncStats{Kind: kind.Label()}
	names := s.resolver.ListNames(kind)

	for i, name := range names {
		if ctx.Err() != nil {
			s.logger.Warn(syncModule, "Sync cancelled", map[string]interface{}{
				"run_id": runID,
				"kind":   kind.Label(),
				"done":   i,
				"total":  len(names),
			})
			break
		}

		s.syncModel(ctx, kind, name, req, &st)
		s.progressService.Publish(ctx, events.NewProgress(events.TypeSyncProgress, runID, kind.Label(), i+1, len(names)))
	}
	return st
}

func (s *syncService) syncModel(ctx context.Context, kind modeltype.Kind, name string, req dto.SyncRequest, st *dto.SyncStats) {
	hash, ok := s.noteService.ResolveHash(kind, name)

	if req.Images {
		s.syncPreview(ctx, kind, name, hash, ok, req.OverwriteImages, st)
	}

	if !ok {
		st.Failed++
		return
	}

	if !req.Overwrite && s.noteService.GetNoteByHash(ctx, hash) != "" {
		st.Skipped++
		return
	}

	description := s.catalog.FetchDescription(ctx, hash, req.Markdown)
	if description == "" {
		st.Failed++
		return
	}

	if !s.noteService.SetNoteByHash(ctx, kind, hash, description) {
		st.Failed++
		return
	}
	st.Success++
}

func (s *syncService) syncPreview(ctx context.Context, kind modeltype.Kind, name, hash string, resolved, overwrite bool, st *dto.SyncStats) {
	path, ok := s.resolver.ResolvePath(kind, name)
	if !ok || !resolved {
		st.ImageFailed++
		return
	}

	stem := strings.TrimSuffix(path, filepath.Ext(path))
	if !overwrite && hasPreview(stem) {
		st.ImageSkipped++
		return
	}

	if s.catalog.FetchPreviewImage(ctx, hash, stem+previewSuffixes[0]) {
		st.ImageSuccess++
	} else {
		st.ImageFailed++
	}
}

func hasPreview(stem string) bool {
	for _, suffix := range previewSuffixes {
		if _, err := os.Stat(stem + suffix); err == nil {
			return true
		}
	}
	return false
}

func summaryLine(st dto.SyncStats, images bool) string {
	line := fmt.Sprintf("%s: %d succeeded, %d failed, and %d skipped.", st.Kind, st.Success, st.Failed, st.Skipped)
	if images {
		line += fmt.Sprintf(" Images: %d downloaded, %d failed, and %d skipped.", st.ImageSuccess, st.ImageFailed, st.ImageSkipped)
	}
	return line
}
