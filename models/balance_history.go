package models

import (
	"time"
)

// TransactionType represents the type of balance change
type TransactionType string

const (
	TransactionTypeInitial         TransactionType = "initial"
	TransactionTypeBetEscrow       TransactionType = "bet_escrow"
	TransactionTypeChallengeEscrow TransactionType = "challenge_escrow"
	TransactionTypeChallengeRefund TransactionType = "challenge_refund"
)

// BalanceHistory represents a historical balance change
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	AccountID           int64           `db:"account_id"`
	BalanceBefore       int64           `db:"balance_before"`
	BalanceAfter        int64           `db:"balance_after"`
	ChangeAmount        int64           `db:"change_amount"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	RelatedBetID        *int64          `db:"related_bet_id"`
	CreatedAt           time.Time       `db:"created_at"`
}
