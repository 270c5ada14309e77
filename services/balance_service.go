package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"amora_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// ErrInsufficientBalance is returned when a debit would push a balance below zero.
var ErrInsufficientBalance = errors.New("insufficient balance")

// BalanceService is the balance ledger: it owns balance values and the
// append-only log of changes. The queue never touches balances directly; it
// only requests debits here.
type BalanceService struct {
	Dynamo *DynamoService
}

// DebitForMatch atomically deducts the match cost if the balance covers it.
// The check and the deduction are one conditional write, so two concurrent
// debits can never both succeed against the same credits.
func (bs *BalanceService) DebitForMatch(ctx context.Context, userID string) error {
	cost := strconv.Itoa(models.MatchCost)
	_, err := bs.Dynamo.UpdateItemConditional(ctx,
		models.BalancesTable,
		map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		"SET balance = balance - :cost",
		"attribute_exists(userId) AND balance >= :cost",
		map[string]types.AttributeValue{
			":cost": &types.AttributeValueMemberN{Value: cost},
		},
	)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrInsufficientBalance
		}
		return fmt.Errorf("failed to debit balance for %s: %w", userID, err)
	}

	bs.appendLog(ctx, userID, -int64(models.MatchCost), models.DebitReasonMatchRequest)
	return nil
}

// Credit adds credits to a user's balance, creating the row if needed.
func (bs *BalanceService) Credit(ctx context.Context, userID string, amount int64) error {
	if amount <= 0 {
		return errors.New("credit amount must be positive")
	}

	_, err := bs.Dynamo.UpdateItemConditional(ctx,
		models.BalancesTable,
		map[string]types.AttributeValue{
			"userId": &types.AttributeValueMemberS{Value: userID},
		},
		"SET balance = if_not_exists(balance, :zero) + :amount",
		"attribute_not_exists(userId) OR balance >= :zero",
		map[string]types.AttributeValue{
			":amount": &types.AttributeValueMemberN{Value: strconv.FormatInt(amount, 10)},
			":zero":   &types.AttributeValueMemberN{Value: "0"},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to credit balance for %s: %w", userID, err)
	}

	bs.appendLog(ctx, userID, amount, models.CreditReasonTopUp)
	return nil
}

// GetBalance returns a user's current balance; missing rows read as zero.
func (bs *BalanceService) GetBalance(ctx context.Context, userID string) (int64, error) {
	item, err := bs.Dynamo.GetItem(ctx, models.BalancesTable, map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch balance for %s: %w", userID, err)
	}

	var balance models.Balance
	if err := attributevalue.UnmarshalMap(item, &balance); err != nil {
		return 0, fmt.Errorf("failed to unmarshal balance: %w", err)
	}
	return balance.Balance, nil
}

// appendLog records a balance change. The debit has already committed at this
// point, so a log failure is logged and swallowed rather than unwinding it.
func (bs *BalanceService) appendLog(ctx context.Context, userID string, delta int64, reason string) {
	entry := models.BalanceLogEntry{
		LogID:     uuid.NewString(),
		UserID:    userID,
		Delta:     delta,
		Reason:    reason,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := bs.Dynamo.PutItem(ctx, models.BalanceLogTable, entry); err != nil {
		log.Printf("⚠️ Failed to append balance log for %s: %v", userID, err)
	}
}
