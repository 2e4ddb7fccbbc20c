package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"model-notes-be/internal/pkg/logger"
	"model-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, chan events.BaseEvent, context.CancelFunc) {
	t.Helper()
	hub := NewHub(logger.NewNopLogger())
	updates := make(chan events.BaseEvent)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx, updates)
	t.Cleanup(cancel)
	return hub, updates, cancel
}

func receive(t *testing.T, ch <-chan []byte) ([]byte, bool) {
	t.Helper()
	select {
	case msg, ok := <-ch:
		return msg, ok
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hub")
		return nil, false
	}
}

func TestHubBroadcastsProgress(t *testing.T) {
	hub, updates, _ := startHub(t)
	a := newClient(hub, nil)
	b := newClient(hub, nil)
	require.True(t, hub.join(a))
	require.True(t, hub.join(b))

	updates <- events.NewProgress(events.TypeExportProgress, "run-1", "LoRA", 3, 7)

	for _, c := range []*Client{a, b} {
		msg, ok := receive(t, c.Send)
		require.True(t, ok)

		var evt events.BaseEvent
		require.NoError(t, json.Unmarshal(msg, &evt))
		assert.Equal(t, events.TypeExportProgress, evt.Type)
		assert.Equal(t, "run-1", evt.Data["run_id"])
		assert.EqualValues(t, 3, evt.Data["done"])
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub, updates, _ := startHub(t)
	slow := &Client{Hub: hub, Send: make(chan []byte, 1)}
	slow.Send <- []byte("unread")
	require.True(t, hub.join(slow))

	updates <- events.NewProgress(events.TypeSyncProgress, "run-2", "LoRA", 1, 2)
	// The hub only takes the next update once the previous broadcast is done.
	updates <- events.NewProgress(events.TypeSyncProgress, "run-2", "LoRA", 2, 2)

	msg, ok := receive(t, slow.Send)
	require.True(t, ok)
	assert.Equal(t, "unread", string(msg))
	_, ok = receive(t, slow.Send)
	assert.False(t, ok)
}

func TestHubStopsWithContext(t *testing.T) {
	hub, _, cancel := startHub(t)
	c := newClient(hub, nil)
	require.True(t, hub.join(c))

	cancel()

	_, ok := receive(t, c.Send)
	assert.False(t, ok)

	late := newClient(hub, nil)
	assert.False(t, hub.join(late))
	hub.leave(late)
}
