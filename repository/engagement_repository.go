package repository

import (
	"context"
	"fmt"

	"betboard/database"
	"betboard/models"
	"betboard/service"
)

// EngagementRepository implements the EngagementRepository interface over the
// likes and bookmarks tables
type EngagementRepository struct {
	q queryable
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *database.DB) *EngagementRepository {
	return &EngagementRepository{q: db.Pool}
}

// newEngagementRepositoryWithTx creates a new engagement repository with a transaction
func newEngagementRepositoryWithTx(tx queryable) *EngagementRepository {
	return &EngagementRepository{q: tx}
}

// Add inserts the relation unless it already exists
func (r *EngagementRepository) Add(ctx context.Context, kind models.EngagementKind, accountID, betID int64) (bool, error) {
	table, err := kind.Table()
	if err != nil {
		return false, err
	}

	query := `INSERT INTO ` + table + ` (account_id, bet_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	tag, err := r.q.Exec(ctx, query, accountID, betID)
	if pgErrorCode(err) == pgForeignKeyViolation {
		return false, fmt.Errorf("%w: %d", service.ErrBetNotFound, betID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to add %s on bet %d: %w", kind, betID, err)
	}

	return tag.RowsAffected() == 1, nil
}

// Remove deletes the relation if present
func (r *EngagementRepository) Remove(ctx context.Context, kind models.EngagementKind, accountID, betID int64) (bool, error) {
	table, err := kind.Table()
	if err != nil {
		return false, err
	}

	query := `DELETE FROM ` + table + ` WHERE account_id = $1 AND bet_id = $2`

	tag, err := r.q.Exec(ctx, query, accountID, betID)
	if err != nil {
		return false, fmt.Errorf("failed to remove %s on bet %d: %w", kind, betID, err)
	}

	return tag.RowsAffected() == 1, nil
}

// Count returns how many accounts hold the relation on the bet
func (r *EngagementRepository) Count(ctx context.Context, kind models.EngagementKind, betID int64) (int64, error) {
	table, err := kind.Table()
	if err != nil {
		return 0, err
	}

	query := `SELECT COUNT(*) FROM ` + table + ` WHERE bet_id = $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, betID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count %ss on bet %d: %w", kind, betID, err)
	}
	return count, nil
}
