package models

// Conversation is the persistent record created for a matched pair.
type Conversation struct {
	ConversationID string   `dynamodbav:"conversationId" json:"conversationId"` // Unique conversationId
	Users          []string `dynamodbav:"users" json:"users"`                   // The two matched users
	Status         string   `dynamodbav:"status" json:"status"`                 // active, archived
	CreatedAt      string   `dynamodbav:"createdAt" json:"createdAt"`           // Timestamp of creation
}

// Conversation statuses
const (
	ConversationStatusActive   = "active"
	ConversationStatusArchived = "archived"
)

// ConversationsTable is the DynamoDB table name for conversations
const ConversationsTable = "Conversations"
