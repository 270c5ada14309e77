package models

// ObscuredPhoto is a photo reference sent to a counterpart at match time.
// Photos stay blurred until the pair opens the conversation; the raw gallery
// is never pushed with the match notification.
type ObscuredPhoto struct {
	URL     string `json:"url"`
	Blurred bool   `json:"blurred"`
}

// MatchedUser is the public projection of a matched counterpart.
type MatchedUser struct {
	UserID    string          `json:"userId"`
	Name      string          `json:"name"`
	BirthYear int             `json:"birthYear,omitempty"`
	Height    int             `json:"height,omitempty"`
	City      string          `json:"city,omitempty"`
	Photos    []ObscuredPhoto `json:"photos"`
}

// MatchRequestedPayload is emitted in response to request-match.
type MatchRequestedPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	QueueID string `json:"queueId,omitempty"`
}

// MatchCanceledPayload is emitted in response to cancel-match.
type MatchCanceledPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// MatchStatusPayload is returned by both status surfaces. MatchedUser is nil
// unless a match was resolved within the surface's recency window.
type MatchStatusPayload struct {
	IsWaiting      bool         `json:"isWaiting"`
	MatchedUser    *MatchedUser `json:"matchedUser"`
	ConversationID string       `json:"conversationId,omitempty"`
	QueuedAt       int64        `json:"queuedAt,omitempty"`
}

// MatchFoundPayload is pushed to both sides of a new match.
type MatchFoundPayload struct {
	MatchedUser    *MatchedUser `json:"matchedUser"`
	ConversationID string       `json:"conversationId"`
}

// MatchErrorPayload is pushed when a realtime request fails unexpectedly.
type MatchErrorPayload struct {
	Message string `json:"message"`
}
