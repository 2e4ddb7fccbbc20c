package entity

import "model-notes-be/pkg/modeltype"

// Note is the annotation attached to one model file, keyed by its content hash.
// An empty Content means "no note".
type Note struct {
	ModelHash string
	Content   string
	ModelType modeltype.Kind
}
