package contract

import (
	"context"

	"model-notes-be/internal/entity"
	"model-notes-be/internal/repository/specification"
)

type NoteRepository interface {
	// Upsert replaces any existing row for the note's hash.
	Upsert(ctx context.Context, note *entity.Note) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
