package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"model-notes-be/internal/dto"
	"model-notes-be/internal/pkg/logger"
	"model-notes-be/pkg/events"
	"model-notes-be/pkg/markup"
	"model-notes-be/pkg/modeltype"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const transferModule = "TransferService"

// Format is the file format of exported or imported notes.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatCSV      Format = "csv"
)

const (
	DestinationModelDir  = "model_dir"
	DestinationOutputDir = "output_dir"
	NamingName           = "name"
	NamingHash           = "hash"
)

// CSVFileName is the single file csv exports are written to and imports read from.
const CSVFileName = "model_notes.csv"

var csvHeader = []string{"title", "content", "file_path"}

var ErrUnknownFormat = errors.New("unknown note format")

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatText, FormatMarkdown, FormatHTML, FormatCSV:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, value)
}

type ITransferService interface {
	Export(ctx context.Context, req dto.ExportRequest) dto.ExportResponse
	Import(ctx context.Context, req dto.ImportRequest) dto.ImportResponse
}

type transferService struct {
	noteService      INoteService
	resolver         ModelResolver
	progressService  IProgressService
	defaultOutputDir string
	logger           logger.ILogger
}

func NewTransferService(
	noteService INoteService,
	resolver ModelResolver,
	progressService IProgressService,
	defaultOutputDir string,
	log logger.ILogger,
) ITransferService {
	return &transferService{
		noteService:      noteService,
		resolver:         resolver,
		progressService:  progressService,
		defaultOutputDir: defaultOutputDir,
		logger:           log,
	}
}

type modelFile struct {
	kind modeltype.Kind
	name string
	path string
}

// stem is the display name: the file name without directory or extension.
func (m modelFile) stem() string {
	base := filepath.Base(m.path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *transferService) outputDir(requested string) string {
	if requested != "" {
		return requested
	}
	return s.defaultOutputDir
}

func (s *transferService) models(kind modeltype.Kind) []modelFile {
	names := s.resolver.ListNames(kind)
	out := make([]modelFile, 0, len(names))
	for _, name := range names {
		path, ok := s.resolver.ResolvePath(kind, name)
		if !ok {
			continue
		}
		out = append(out, modelFile{kind: kind, name: name, path: path})
	}
	return out
}

// sharedPath places a note inside the common output directory. Each kind gets
// its own subdirectory so models of different kinds that share a stem never
// share a file.
func sharedPath(dir string, kind modeltype.Kind, name string, format Format) string {
	return filepath.Join(dir, kind.Dir(), name+"."+string(format))
}

func title(m modelFile, hash, naming string) string {
	if naming == NamingHash {
		return hash
	}
	return m.stem()
}

func (s *transferService) Export(ctx context.Context, req dto.ExportRequest) dto.ExportResponse {
	resp := dto.ExportResponse{RunId: uuid.New().String()}
	ctx, span := otel.Tracer("model-notes-be/service").Start(ctx, "TransferService.Export")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", resp.RunId), attribute.String("format", req.Format))

	format, err := ParseFormat(req.Format)
	if err != nil {
		s.logger.Warn(transferModule, "Export rejected", map[string]interface{}{"error": err.Error()})
		resp.Summary = err.Error()
		return resp
	}

	outDir := s.outputDir(req.OutputDir)
	var rows [][]string

	for _, kind := range modeltype.All() {
		models := s.models(kind)
		for i, m := range models {
			if ctx.Err() != nil {
				break
			}

			hash, ok := s.noteService.ResolveHash(kind, m.name)
			note := ""
			if ok {
				note = s.noteService.GetNoteByHash(ctx, hash)
			}

			switch {
			case note == "":
				resp.NotFound++
			case format == FormatCSV:
				rows = append(rows, []string{title(m, hash, req.Naming), note, m.path})
			default:
				target := sharedPath(outDir, kind, title(m, hash, req.Naming), format)
				if req.Destination == DestinationModelDir {
					target = filepath.Join(filepath.Dir(m.path), title(m, hash, req.Naming)+"."+string(format))
				}
				if err := writeNote(target, note, format, req.Overwrite); err != nil {
					s.logger.Warn(transferModule, "Export failed", map[string]interface{}{
						"path":  target,
						"error": err.Error(),
					})
					resp.Error++
				} else {
					resp.Success++
				}
			}

			s.progressService.Publish(ctx, events.NewProgress(events.TypeExportProgress, resp.RunId, kind.Label(), i+1, len(models)))
		}
	}

	if format == FormatCSV {
		target := filepath.Join(outDir, CSVFileName)
		if err := writeCSV(target, rows); err != nil {
			s.logger.Error(transferModule, "CSV export failed", map[string]interface{}{
				"path":  target,
				"error": err.Error(),
			})
			resp.Error += len(rows)
		} else {
			resp.Success += len(rows)
		}
	}

	resp.Summary = fmt.Sprintf("Export: %d succeeded, %d without a note, and %d failed.", resp.Success, resp.NotFound, resp.Error)
	s.logger.Info(transferModule, "Export finished", map[string]interface{}{
		"run_id":  resp.RunId,
		"format":  string(format),
		"summary": resp.Summary,
	})
	return resp
}

func writeNote(target, note string, format Format, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(target); err == nil {
			return fmt.Errorf("%s already exists", target)
		}
	}

	content := note
	if format == FormatHTML {
		rendered, err := markup.ToHTML(note)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		content = rendered
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(target, []byte(content), 0o644)
}

func writeCSV(target string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type csvRow struct {
	content string
	path    string
}

// csvTable holds the rows of model_notes.csv by title. err is set when the
// file could not be read; every lookup then fails with it.
type csvTable struct {
	rows map[string][]csvRow
	err  error
}

// lookup prefers the row written for modelPath. A row whose model file no
// longer exists (a table from another machine) still matches by title alone.
func (t csvTable) lookup(title, modelPath string) (string, bool, error) {
	if t.err != nil {
		return "", false, t.err
	}
	rows := t.rows[title]
	for _, row := range rows {
		if row.path == modelPath {
			return row.content, true, nil
		}
	}
	for _, row := range rows {
		if row.path == "" {
			return row.content, true, nil
		}
		if _, err := os.Stat(row.path); errors.Is(err, os.ErrNotExist) {
			return row.content, true, nil
		}
	}
	return "", false, nil
}

// readCSV groups rows by title. A missing file is an empty table.
func readCSV(path string) (map[string][]csvRow, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string][]csvRow{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	out := make(map[string][]csvRow)
	header := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if header {
			header = false
			if len(record) > 0 && record[0] == csvHeader[0] {
				continue
			}
		}
		if len(record) < 2 {
			continue
		}
		row := csvRow{content: record[1]}
		if len(record) > 2 {
			row.path = record[2]
		}
		out[record[0]] = append(out[record[0]], row)
	}
	return out, nil
}

func (s *transferService) Import(ctx context.Context, req dto.ImportRequest) dto.ImportResponse {
	resp := dto.ImportResponse{RunId: uuid.New().String()}
	ctx, span := otel.Tracer("model-notes-be/service").Start(ctx, "TransferService.Import")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", resp.RunId), attribute.StringSlice("formats", req.Formats))

	formats := make([]Format, 0, len(req.Formats))
	for _, value := range req.Formats {
		format, err := ParseFormat(value)
		if err != nil {
			s.logger.Warn(transferModule, "Import rejected", map[string]interface{}{"error": err.Error()})
			resp.Summary = err.Error()
			return resp
		}
		formats = append(formats, format)
	}

	inDir := s.outputDir(req.InputDir)
	var table csvTable
	for _, format := range formats {
		if format != FormatCSV {
			continue
		}
		table.rows, table.err = readCSV(filepath.Join(inDir, CSVFileName))
		if table.err != nil {
			s.logger.Error(transferModule, "CSV import failed", map[string]interface{}{"error": table.err.Error()})
		}
		break
	}

	for _, kind := range modeltype.All() {
		models := s.models(kind)
		for i, m := range models {
			if ctx.Err() != nil {
				break
			}
			s.importModel(ctx, m, formats, table, inDir, req, &resp)
			s.progressService.Publish(ctx, events.NewProgress(events.TypeImportProgress, resp.RunId, kind.Label(), i+1, len(models)))
		}
	}

	resp.Summary = fmt.Sprintf("Import: %d succeeded, %d not found, %d skipped, and %d failed.",
		resp.Success, resp.NotFound, resp.Skipped, resp.Error)
	s.logger.Info(transferModule, "Import finished", map[string]interface{}{
		"run_id":  resp.RunId,
		"summary": resp.Summary,
	})
	return resp
}

func (s *transferService) importModel(ctx context.Context, m modelFile, formats []Format, table csvTable, inDir string, req dto.ImportRequest, resp *dto.ImportResponse) {
	hash, ok := s.noteService.ResolveHash(m.kind, m.name)
	if !ok {
		resp.NotFound++
		return
	}

	name := title(m, hash, req.Naming)
	pathOf := func(format Format) string {
		return sharedPath(inDir, m.kind, name, format)
	}
	if req.Source == DestinationModelDir {
		pathOf = func(format Format) string {
			return filepath.Join(filepath.Dir(m.path), name+"."+string(format))
		}
	}

	content, found, err := readNote(name, m.path, formats, pathOf, table)
	if err != nil {
		s.logger.Warn(transferModule, "Import failed", map[string]interface{}{
			"model": m.name,
			"error": err.Error(),
		})
		resp.Error++
		return
	}
	if !found {
		resp.NotFound++
		return
	}

	if !req.Overwrite && s.noteService.GetNoteByHash(ctx, hash) != "" {
		resp.Skipped++
		return
	}

	if s.noteService.SetNoteByHash(ctx, m.kind, hash, content) {
		resp.Success++
	} else {
		resp.Error++
	}
}

// readNote returns the first note found for the model, trying formats in order.
func readNote(name, modelPath string, formats []Format, pathOf func(Format) string, table csvTable) (string, bool, error) {
	for _, format := range formats {
		if format == FormatCSV {
			content, ok, err := table.lookup(name, modelPath)
			if err != nil {
				return "", false, fmt.Errorf("read %s: %w", CSVFileName, err)
			}
			if ok {
				return content, true, nil
			}
			continue
		}

		path := pathOf(format)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("read %s: %w", path, err)
		}

		content := string(data)
		if format == FormatHTML {
			content, err = markup.ToMarkdown(content)
			if err != nil {
				return "", false, fmt.Errorf("convert %s: %w", path, err)
			}
		}
		return content, true, nil
	}
	return "", false, nil
}
