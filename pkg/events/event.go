package events

import "time"

const (
	TypeSyncProgress   = "SYNC_PROGRESS"
	TypeExportProgress = "EXPORT_PROGRESS"
	TypeImportProgress = "IMPORT_PROGRESS"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SYNC_PROGRESS").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewProgress reports that done of total models of one kind were processed in a run.
func NewProgress(eventType, runID, kind string, done, total int) BaseEvent {
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"run_id": runID,
			"kind":   kind,
			"done":   done,
			"total":  total,
		},
		OccurredAt: time.Now(),
	}
}
