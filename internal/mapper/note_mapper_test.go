package mapper

import (
	"testing"

	"model-notes-be/internal/entity"
	"model-notes-be/internal/model"
	"model-notes-be/pkg/modeltype"

	"github.com/stretchr/testify/assert"
)

func TestNoteMapper(t *testing.T) {
	m := NewNoteMapper()

	row := m.ToModel(&entity.Note{ModelHash: "h", Content: "c", ModelType: modeltype.LoRA})
	assert.Equal(t, &model.Note{ModelHash: "h", Note: "c", ModelType: "3"}, row)

	back := m.ToEntity(row)
	assert.Equal(t, modeltype.LoRA, back.ModelType)
	assert.Equal(t, "c", back.Content)

	unknown := m.ToEntity(&model.Note{ModelHash: "x", ModelType: "42"})
	assert.Equal(t, modeltype.Checkpoint, unknown.ModelType)

	assert.Nil(t, m.ToEntity(nil))
	assert.Len(t, m.ToEntities([]*model.Note{row, row}), 2)
}
