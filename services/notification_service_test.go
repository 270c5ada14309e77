package services

import (
	"testing"

	"amora_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickyHandle struct{ id string }

func (h *panickyHandle) ID() string { return h.id }

func (h *panickyHandle) Emit(string, interface{}) { panic("transport gone") }

func TestDispatcher_PushesToBoundHandle(t *testing.T) {
	registry := NewSessionRegistry()
	dispatcher := &NotificationDispatcher{Registry: registry}
	handle := &stubHandle{id: "conn-1"}
	registry.Bind("alice", handle)

	dispatcher.NotifyMatchFound("alice", models.MatchFoundPayload{ConversationID: "conv-1"})
	dispatcher.NotifyMatchError("alice", "boom")

	require.Len(t, handle.events, 2)
	assert.Equal(t, EventMatchFound, handle.events[0])
	assert.Equal(t, EventMatchError, handle.events[1])
}

func TestDispatcher_DropsWhenNoSession(t *testing.T) {
	dispatcher := &NotificationDispatcher{Registry: NewSessionRegistry()}

	// Absent handle: the event is dropped, never an error.
	assert.NotPanics(t, func() {
		dispatcher.NotifyMatchFound("ghost", models.MatchFoundPayload{ConversationID: "conv-1"})
	})
}

func TestDispatcher_SwallowsTransportFailure(t *testing.T) {
	registry := NewSessionRegistry()
	dispatcher := &NotificationDispatcher{Registry: registry}
	registry.Bind("alice", &panickyHandle{id: "conn-1"})

	assert.NotPanics(t, func() {
		dispatcher.NotifyMatchError("alice", "boom")
	})
}
