package models

// Balance holds a user's spendable credits.
type Balance struct {
	UserID  string `dynamodbav:"userId" json:"userId"` // ✅ Partition Key
	Balance int64  `dynamodbav:"balance" json:"balance"`
}

// BalanceLogEntry is one append-only record of a balance change.
type BalanceLogEntry struct {
	LogID     string `dynamodbav:"logId" json:"logId"`
	UserID    string `dynamodbav:"userId" json:"userId"`
	Delta     int64  `dynamodbav:"delta" json:"delta"` // Negative for debits
	Reason    string `dynamodbav:"reason" json:"reason"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// DynamoDB table names for the balance ledger
const (
	BalancesTable   = "Balances"
	BalanceLogTable = "BalanceLog"
)
