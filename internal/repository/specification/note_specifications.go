package specification

import (
	"model-notes-be/pkg/modeltype"

	"gorm.io/gorm"
)

type ByModelHash struct {
	Hash string
}

func (s ByModelHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("model_hash = ?", s.Hash)
}

type ByModelType struct {
	Kind modeltype.Kind
}

func (s ByModelType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("model_type = ?", s.Kind.Tag())
}

// NonEmpty skips rows whose note was cleared.
type NonEmpty struct{}

func (s NonEmpty) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("note <> ''")
}
