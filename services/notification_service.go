package services

import (
	"log"

	"amora_server/models"
)

// Event names pushed to clients over the realtime channel.
const (
	EventMatchRequested = "match-requested"
	EventMatchCanceled  = "match-canceled"
	EventMatchStatus    = "match-status"
	EventMatchFound     = "match-found"
	EventMatchError     = "match-error"
)

// NotificationDispatcher formats and pushes events to whichever connection the
// registry currently holds for a user. Delivery is best-effort: an absent
// handle drops the event, and a transport failure is logged and swallowed.
// Match durability never depends on a push landing.
type NotificationDispatcher struct {
	Registry *SessionRegistry
}

// NotifyMatchFound pushes a match-found event to one side of a new pair.
func (nd *NotificationDispatcher) NotifyMatchFound(userID string, payload models.MatchFoundPayload) {
	nd.push(userID, EventMatchFound, payload)
}

// NotifyMatchError pushes a match-error event.
func (nd *NotificationDispatcher) NotifyMatchError(userID, message string) {
	nd.push(userID, EventMatchError, models.MatchErrorPayload{Message: message})
}

func (nd *NotificationDispatcher) push(userID, event string, payload interface{}) {
	handle, ok := nd.Registry.Lookup(userID)
	if !ok {
		log.Printf("🔕 No live session for %s, dropping %s", userID, event)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Push of %s to %s failed: %v", event, userID, r)
		}
	}()
	handle.Emit(event, payload)
}
