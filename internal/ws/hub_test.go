package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish_NilHubIsNoop(t *testing.T) {
	var h *Hub
	assert.NotPanics(t, func() { h.Publish(Event{Type: "lot"}) })
}

func TestPublish_QueuesEncodedEvent(t *testing.T) {
	h := NewHub()
	h.Publish(Event{Type: "lot", Action: "created", Data: map[string]int{"count": 2}})

	require.Len(t, h.Broadcast, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(<-h.Broadcast, &got))
	assert.Equal(t, "lot", got["type"])
	assert.Equal(t, "created", got["action"])
}

func TestPublish_DropsWhenQueueFull(t *testing.T) {
	h := NewHub()
	for i := 0; i < cap(h.Broadcast)+10; i++ {
		h.Publish(Event{Type: "lot"})
	}
	assert.Equal(t, cap(h.Broadcast), len(h.Broadcast))
}
