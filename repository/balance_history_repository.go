package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"betboard/database"
	"betboard/models"
)

// BalanceHistoryRepository implements the BalanceHistoryRepository interface
type BalanceHistoryRepository struct {
	q queryable
}

// NewBalanceHistoryRepository creates a new balance history repository
func NewBalanceHistoryRepository(db *database.DB) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: db.Pool}
}

// newBalanceHistoryRepositoryWithTx creates a new balance history repository with a transaction
func newBalanceHistoryRepositoryWithTx(tx queryable) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: tx}
}

// Record creates a new balance history entry
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	metadataJSON, err := json.Marshal(history.TransactionMetadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO balance_history
		(account_id, balance_before, balance_after, change_amount, transaction_type, transaction_metadata, related_bet_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		history.AccountID,
		history.BalanceBefore,
		history.BalanceAfter,
		history.ChangeAmount,
		string(history.TransactionType),
		metadataJSON,
		history.RelatedBetID,
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to record balance history for account %d: %w", history.AccountID, err)
	}

	return nil
}

// GetByAccount returns the latest balance history entries for an account
func (r *BalanceHistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.BalanceHistory, error) {
	query := `
		SELECT id, account_id, balance_before, balance_after, change_amount,
		       transaction_type, transaction_metadata, related_bet_id, created_at
		FROM balance_history
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var histories []*models.BalanceHistory
	for rows.Next() {
		var history models.BalanceHistory
		var transactionType string
		var metadataJSON []byte

		err := rows.Scan(
			&history.ID,
			&history.AccountID,
			&history.BalanceBefore,
			&history.BalanceAfter,
			&history.ChangeAmount,
			&transactionType,
			&metadataJSON,
			&history.RelatedBetID,
			&history.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance history: %w", err)
		}
		history.TransactionType = models.TransactionType(transactionType)

		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &history.TransactionMetadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
			}
		}

		histories = append(histories, &history)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balance history: %w", err)
	}

	return histories, nil
}
