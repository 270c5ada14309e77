package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"amora_server/models"

	"github.com/google/uuid"
)

// ConversationService creates the persistent conversation record for a
// matched pair.
type ConversationService struct {
	Dynamo *DynamoService
}

// CreateConversation inserts the conversation record and seeds it with an
// opening system message. The conversation id is generated by the caller so
// it can be recorded on the queue entries in the same claim transaction.
func (cs *ConversationService) CreateConversation(ctx context.Context, conversationID, userA, userB string) error {
	conversation := models.Conversation{
		ConversationID: conversationID,
		Users:          []string{userA, userB},
		Status:         models.ConversationStatusActive,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	if err := cs.Dynamo.PutItem(ctx, models.ConversationsTable, conversation); err != nil {
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	// The conversation exists at this point; the greeting is best-effort.
	if err := cs.createMessage(ctx, conversationID, "", "You've been matched, say hi!", true); err != nil {
		log.Printf("⚠️ Failed to add opening message to conversation %s: %v", conversationID, err)
	}

	return nil
}

// createMessage adds a new message to the Messages table
func (cs *ConversationService) createMessage(ctx context.Context, conversationID, senderID, content string, isUnread bool) error {
	message := models.Message{
		MessageID:      uuid.NewString(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
		IsUnread:       isUnread,
	}

	if err := cs.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}
	return nil
}
