package mapper

import (
	"model-notes-be/internal/entity"
	"model-notes-be/internal/model"
	"model-notes-be/pkg/modeltype"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	// Rows with a tag this build does not know are kept readable as checkpoints,
	// the v1 default.
	kind, err := modeltype.FromTag(n.ModelType)
	if err != nil {
		kind = modeltype.Checkpoint
	}

	return &entity.Note{
		ModelHash: n.ModelHash,
		Content:   n.Note,
		ModelType: kind,
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	kind := n.ModelType
	if !kind.Valid() {
		kind = modeltype.Checkpoint
	}

	return &model.Note{
		ModelHash: n.ModelHash,
		Note:      n.Content,
		ModelType: kind.Tag(),
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}
