package models

// QueueEntry is a single match request in the waiting pool. Entries are never
// deleted, only flagged with isWaiting=false once matched or canceled, so
// recent matches can still be resolved by the status surfaces.
type QueueEntry struct {
	QueueID        string `dynamodbav:"queueId" json:"queueId"`       // ✅ Partition Key
	UserID         string `dynamodbav:"userId" json:"userId"`         // Indexed via GSI
	Gender         string `dynamodbav:"gender" json:"gender"`         // Indexed via GSI
	EnqueuedAt     int64  `dynamodbav:"enqueuedAt" json:"enqueuedAt"` // Epoch millis; FIFO order within a class
	IsWaiting      bool   `dynamodbav:"isWaiting" json:"isWaiting"`
	MatchedWith    string `dynamodbav:"matchedWith,omitempty" json:"matchedWith,omitempty"`
	ConversationID string `dynamodbav:"conversationId,omitempty" json:"conversationId,omitempty"`
	MatchedAt      string `dynamodbav:"matchedAt,omitempty" json:"matchedAt,omitempty"`
	CanceledAt     string `dynamodbav:"canceledAt,omitempty" json:"canceledAt,omitempty"`
}

// MatchQueueTable is the DynamoDB table name for match queue entries
const MatchQueueTable = "MatchQueue"

// GSIs on the MatchQueue table
const (
	MatchQueueUserIndex   = "userId-enqueuedAt-index"
	MatchQueueGenderIndex = "gender-enqueuedAt-index"
)
