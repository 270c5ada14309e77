package models

type Message struct {
	ConversationID string `dynamodbav:"conversationId" json:"conversationId"`
	CreatedAt      string `dynamodbav:"createdAt" json:"createdAt"`
	Content        string `dynamodbav:"content" json:"content"`
	IsUnread       bool   `dynamodbav:"isUnread" json:"isUnread"`
	MessageID      string `dynamodbav:"messageId" json:"messageId"`
	SenderID       string `dynamodbav:"senderId" json:"senderId"` // Empty for system messages
}

// MessagesTable is the DynamoDB table name for conversation messages
const MessagesTable = "Messages"
