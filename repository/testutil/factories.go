package testutil

import (
	"fmt"

	"betboard/models"
)

// CreateTestAccount returns an unsaved account with a placeholder password hash
func CreateTestAccount(handle string, balance int64) *models.Account {
	return &models.Account{
		Handle:       handle,
		Email:        fmt.Sprintf("%s@example.com", handle),
		DisplayName:  handle,
		PasswordHash: "$2a$04$placeholderplaceholderplaceholderplaceholderplacehol",
		Balance:      balance,
	}
}

// CreateTestBet returns an unsaved open bet owned by the account
func CreateTestBet(ownerID int64, wager int64) *models.Bet {
	return &models.Bet{
		OwnerAccountID: ownerID,
		Title:          "Test bet",
		Body:           "The test suite will pass",
		Evidence:       "CI logs",
		Wager:          wager,
		Status:         models.BetStatusOpen,
	}
}

// CreateTestBalanceHistory returns an unsaved balance history entry
func CreateTestBalanceHistory(accountID, before, change int64, transactionType models.TransactionType) *models.BalanceHistory {
	return &models.BalanceHistory{
		AccountID:       accountID,
		BalanceBefore:   before,
		BalanceAfter:    before + change,
		ChangeAmount:    change,
		TransactionType: transactionType,
		TransactionMetadata: map[string]any{
			"test": true,
		},
	}
}
