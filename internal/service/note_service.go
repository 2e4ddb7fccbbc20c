package service

import (
	"context"
	"errors"

	"model-notes-be/internal/dto"
	"model-notes-be/internal/entity"
	"model-notes-be/internal/pkg/logger"
	"model-notes-be/internal/repository/contract"
	"model-notes-be/internal/repository/specification"
	"model-notes-be/pkg/modeltype"
	"model-notes-be/pkg/registry"
)

const noteModule = "NoteService"

// ModelResolver is the identity layer: model names to files and content hashes.
type ModelResolver interface {
	Hash(kind modeltype.Kind, name string) (string, error)
	ResolvePath(kind modeltype.Kind, name string) (string, bool)
	ListNames(kind modeltype.Kind) []string
}

// DescriptionCatalog looks models up in the remote catalog by content hash.
type DescriptionCatalog interface {
	FetchDescription(ctx context.Context, hash string, wantMarkdown bool) string
	FetchPreviewImage(ctx context.Context, hash, destPath string) bool
}

// INoteService never returns errors: storage failures are logged by the
// repository and surface here as "no note" or an unsuccessful save.
type INoteService interface {
	GetNoteByHash(ctx context.Context, hash string) string
	GetNoteByName(ctx context.Context, kind modeltype.Kind, name string) string
	SetNoteByHash(ctx context.Context, kind modeltype.Kind, hash, note string) bool
	SetNoteByName(ctx context.Context, kind modeltype.Kind, name, note string) bool
	ListNotes(ctx context.Context, kind modeltype.Kind) []dto.NoteItem
	DescribeByName(ctx context.Context, kind modeltype.Kind, name string, wantMarkdown bool) string
	ResolveHash(kind modeltype.Kind, name string) (string, bool)
}

type noteService struct {
	noteRepository contract.NoteRepository
	resolver       ModelResolver
	catalog        DescriptionCatalog
	logger         logger.ILogger
}

func NewNoteService(
	noteRepository contract.NoteRepository,
	resolver ModelResolver,
	catalog DescriptionCatalog,
	log logger.ILogger,
) INoteService {
	return &noteService{
		noteRepository: noteRepository,
		resolver:       resolver,
		catalog:        catalog,
		logger:         log,
	}
}

func (s *noteService) ResolveHash(kind modeltype.Kind, name string) (string, bool) {
	hash, err := s.resolver.Hash(kind, name)
	if err != nil {
		details := map[string]interface{}{
			"type":  kind.String(),
			"name":  name,
			"error": err.Error(),
		}
		if errors.Is(err, registry.ErrUnknownModel) {
			s.logger.Debug(noteModule, "Model not resolved", details)
		} else {
			s.logger.Warn(noteModule, "Model could not be hashed", details)
		}
		return "", false
	}
	return hash, true
}

func (s *noteService) GetNoteByHash(ctx context.Context, hash string) string {
	if hash == "" {
		return ""
	}
	note, err := s.noteRepository.FindOne(ctx, specification.ByModelHash{Hash: hash})
	if err != nil || note == nil {
		return ""
	}
	return note.Content
}

func (s *noteService) GetNoteByName(ctx context.Context, kind modeltype.Kind, name string) string {
	hash, ok := s.ResolveHash(kind, name)
	if !ok {
		return ""
	}
	return s.GetNoteByHash(ctx, hash)
}

func (s *noteService) SetNoteByHash(ctx context.Context, kind modeltype.Kind, hash, note string) bool {
	if hash == "" {
		return false
	}
	err := s.noteRepository.Upsert(ctx, &entity.Note{
		ModelHash: hash,
		Content:   note,
		ModelType: kind,
	})
	return err == nil
}

func (s *noteService) SetNoteByName(ctx context.Context, kind modeltype.Kind, name, note string) bool {
	hash, ok := s.ResolveHash(kind, name)
	if !ok {
		return false
	}
	return s.SetNoteByHash(ctx, kind, hash, note)
}

func (s *noteService) ListNotes(ctx context.Context, kind modeltype.Kind) []dto.NoteItem {
	notes, err := s.noteRepository.FindAll(ctx,
		specification.ByModelType{Kind: kind},
		specification.NonEmpty{},
		specification.OrderBy{Field: "model_hash"},
	)
	if err != nil {
		return []dto.NoteItem{}
	}

	items := make([]dto.NoteItem, 0, len(notes))
	for _, n := range notes {
		items = append(items, dto.NoteItem{
			ModelHash: n.ModelHash,
			ModelType: n.ModelType.String(),
			Note:      n.Content,
		})
	}
	return items
}

// DescribeByName fetches the catalog description for one model without saving it.
func (s *noteService) DescribeByName(ctx context.Context, kind modeltype.Kind, name string, wantMarkdown bool) string {
	hash, ok := s.ResolveHash(kind, name)
	if !ok {
		return ""
	}
	return s.catalog.FetchDescription(ctx, hash, wantMarkdown)
}
