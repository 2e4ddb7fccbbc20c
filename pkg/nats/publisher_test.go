package nats

import (
	"testing"

	"model-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "model_notes.sync_progress", Subject(events.TypeSyncProgress))
	assert.Equal(t, "model_notes.import_progress", Subject(events.TypeImportProgress))
}
