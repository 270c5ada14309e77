package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"amora_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Errors reported by the match queue and its callers.
var (
	ErrAlreadyWaiting = errors.New("user already has an active match request")
	ErrNotWaiting     = errors.New("user has no active match request")
	ErrEntryClaimed   = errors.New("queue entry no longer waiting")
)

// MatchQueueService owns QueueEntry rows and every isWaiting transition.
// Both flips (claim and cancel) are conditional writes, so a concurrent claim
// and cancel on the same entry resolve to exactly one winner.
type MatchQueueService struct {
	Dynamo *DynamoService
}

// InsertEntry inserts a new waiting entry.
func (qs *MatchQueueService) InsertEntry(ctx context.Context, entry *models.QueueEntry) error {
	if err := qs.Dynamo.PutItem(ctx, models.MatchQueueTable, entry); err != nil {
		return fmt.Errorf("failed to insert queue entry: %w", err)
	}
	return nil
}

// FindWaitingByUser returns the user's isWaiting=true entry, or nil if none
// exists. At most one waiting entry per user exists at any time.
func (qs *MatchQueueService) FindWaitingByUser(ctx context.Context, userID string) (*models.QueueEntry, error) {
	items, err := qs.Dynamo.QueryIndex(ctx,
		models.MatchQueueTable,
		models.MatchQueueUserIndex,
		"userId = :userId",
		"isWaiting = :waiting",
		map[string]types.AttributeValue{
			":userId":  &types.AttributeValueMemberS{Value: userID},
			":waiting": &types.AttributeValueMemberBOOL{Value: true},
		},
		nil,
		false, // newest first
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up waiting entry for %s: %w", userID, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var entry models.QueueEntry
	if err := attributevalue.UnmarshalMap(items[0], &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue entry: %w", err)
	}
	return &entry, nil
}

// OldestWaiting returns the longest-waiting entry of the given class,
// excluding excludeUserID, or nil when the class has no one waiting.
func (qs *MatchQueueService) OldestWaiting(ctx context.Context, gender, excludeUserID string) (*models.QueueEntry, error) {
	items, err := qs.Dynamo.QueryIndex(ctx,
		models.MatchQueueTable,
		models.MatchQueueGenderIndex,
		"gender = :gender",
		"isWaiting = :waiting AND userId <> :excludeUserId",
		map[string]types.AttributeValue{
			":gender":        &types.AttributeValueMemberS{Value: gender},
			":waiting":       &types.AttributeValueMemberBOOL{Value: true},
			":excludeUserId": &types.AttributeValueMemberS{Value: excludeUserID},
		},
		nil,
		true, // oldest first
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find oldest waiting %s entry: %w", gender, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var entry models.QueueEntry
	if err := attributevalue.UnmarshalMap(items[0], &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue entry: %w", err)
	}
	return &entry, nil
}

// ListWaiting returns all waiting entries of a class, oldest first.
func (qs *MatchQueueService) ListWaiting(ctx context.Context, gender string) ([]models.QueueEntry, error) {
	items, err := qs.Dynamo.QueryIndex(ctx,
		models.MatchQueueTable,
		models.MatchQueueGenderIndex,
		"gender = :gender",
		"isWaiting = :waiting",
		map[string]types.AttributeValue{
			":gender":  &types.AttributeValueMemberS{Value: gender},
			":waiting": &types.AttributeValueMemberBOOL{Value: true},
		},
		nil,
		true,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list waiting %s entries: %w", gender, err)
	}

	var entries []models.QueueEntry
	if err := attributevalue.UnmarshalListOfMaps(items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal waiting entries: %w", err)
	}
	return entries, nil
}

// ClaimPair atomically flips both entries to isWaiting=false, recording the
// counterpart and conversation on each. Both updates are conditioned on the
// entry still waiting; if either condition fails the transaction cancels as a
// whole and ErrEntryClaimed is returned. This is the only synchronization
// between the reactive path, the sweep, and cancellation.
func (qs *MatchQueueService) ClaimPair(ctx context.Context, a, b *models.QueueEntry, conversationID, matchedAt string) error {
	claim := func(entry, counterpart *models.QueueEntry) types.TransactWriteItem {
		return types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(models.MatchQueueTable),
				Key: map[string]types.AttributeValue{
					"queueId": &types.AttributeValueMemberS{Value: entry.QueueID},
				},
				UpdateExpression:    aws.String("SET isWaiting = :false, matchedWith = :partner, conversationId = :conversationId, matchedAt = :matchedAt"),
				ConditionExpression: aws.String("isWaiting = :true"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":false":          &types.AttributeValueMemberBOOL{Value: false},
					":true":           &types.AttributeValueMemberBOOL{Value: true},
					":partner":        &types.AttributeValueMemberS{Value: counterpart.UserID},
					":conversationId": &types.AttributeValueMemberS{Value: conversationID},
					":matchedAt":      &types.AttributeValueMemberS{Value: matchedAt},
				},
			},
		}
	}

	err := qs.Dynamo.TransactWrite(ctx, []types.TransactWriteItem{claim(a, b), claim(b, a)})
	if err != nil {
		if IsTransactionCanceled(err) {
			return ErrEntryClaimed
		}
		return err
	}
	return nil
}

// CancelEntry flips a single entry to isWaiting=false, conditioned on it
// still waiting. Losing the condition to a concurrent claim returns
// ErrEntryClaimed.
func (qs *MatchQueueService) CancelEntry(ctx context.Context, queueID string) error {
	_, err := qs.Dynamo.UpdateItemConditional(ctx,
		models.MatchQueueTable,
		map[string]types.AttributeValue{
			"queueId": &types.AttributeValueMemberS{Value: queueID},
		},
		"SET isWaiting = :false, canceledAt = :canceledAt",
		"isWaiting = :true",
		map[string]types.AttributeValue{
			":false":      &types.AttributeValueMemberBOOL{Value: false},
			":true":       &types.AttributeValueMemberBOOL{Value: true},
			":canceledAt": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrEntryClaimed
		}
		return err
	}
	return nil
}

// LatestResolvedMatch returns the user's most recent matched entry whose
// matchedAt is at or after the cutoff, or nil when there is none. Canceled
// entries never carry a conversationId and are filtered out.
func (qs *MatchQueueService) LatestResolvedMatch(ctx context.Context, userID string, cutoff time.Time) (*models.QueueEntry, error) {
	items, err := qs.Dynamo.QueryIndex(ctx,
		models.MatchQueueTable,
		models.MatchQueueUserIndex,
		"userId = :userId",
		"isWaiting = :false AND attribute_exists(conversationId) AND matchedAt >= :cutoff",
		map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
			":false":  &types.AttributeValueMemberBOOL{Value: false},
			":cutoff": &types.AttributeValueMemberS{Value: cutoff.UTC().Format(time.RFC3339)},
		},
		nil,
		false, // newest first
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up recent match for %s: %w", userID, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var entry models.QueueEntry
	if err := attributevalue.UnmarshalMap(items[0], &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal queue entry: %w", err)
	}
	return &entry, nil
}
