package repository

import (
	"context"
	"errors"
	"fmt"

	"betboard/database"
	"betboard/models"
	"betboard/service"

	"github.com/jackc/pgx/v5"
)

const betColumns = `id, owner_account_id, title, body, evidence, wager, status,
	challenger_account_id, challenge_amount, created_at, updated_at`

// betViewSelect joins a bet with its owner, its current challenger and
// the like/bookmark counts
const betViewSelect = `
	SELECT
		b.id, b.owner_account_id, b.title, b.body, b.evidence, b.wager, b.status,
		b.challenger_account_id, b.challenge_amount, b.created_at, b.updated_at,
		o.handle, o.display_name,
		c.handle, c.display_name,
		(SELECT COUNT(*) FROM likes l WHERE l.bet_id = b.id),
		(SELECT COUNT(*) FROM bookmarks bm WHERE bm.bet_id = b.id)
	FROM bets b
	JOIN accounts o ON o.id = b.owner_account_id
	LEFT JOIN accounts c ON c.id = b.challenger_account_id
`

// BetRepository implements the BetRepository interface
type BetRepository struct {
	q queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) *BetRepository {
	return &BetRepository{q: db.Pool}
}

// newBetRepositoryWithTx creates a new bet repository with a transaction
func newBetRepositoryWithTx(tx queryable) *BetRepository {
	return &BetRepository{q: tx}
}

func scanBet(row pgx.Row) (*models.Bet, error) {
	var bet models.Bet
	var status string
	err := row.Scan(
		&bet.ID,
		&bet.OwnerAccountID,
		&bet.Title,
		&bet.Body,
		&bet.Evidence,
		&bet.Wager,
		&status,
		&bet.ChallengerAccountID,
		&bet.ChallengeAmount,
		&bet.CreatedAt,
		&bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	bet.Status = models.BetStatus(status)
	return &bet, nil
}

func scanBetView(row pgx.Row) (*models.BetView, error) {
	var view models.BetView
	var status string
	var challengerHandle, challengerName *string
	err := row.Scan(
		&view.ID,
		&view.OwnerAccountID,
		&view.Title,
		&view.Body,
		&view.Evidence,
		&view.Wager,
		&status,
		&view.ChallengerAccountID,
		&view.ChallengeAmount,
		&view.CreatedAt,
		&view.UpdatedAt,
		&view.Owner.Handle,
		&view.Owner.DisplayName,
		&challengerHandle,
		&challengerName,
		&view.LikeCount,
		&view.BookmarkCount,
	)
	if err != nil {
		return nil, err
	}

	view.Status = models.BetStatus(status)
	view.Owner.ID = view.OwnerAccountID
	if view.ChallengerAccountID != nil && challengerHandle != nil {
		view.Challenger = &models.AccountSummary{
			ID:     *view.ChallengerAccountID,
			Handle: *challengerHandle,
		}
		if challengerName != nil {
			view.Challenger.DisplayName = *challengerName
		}
	}
	return &view, nil
}

func (r *BetRepository) queryViews(ctx context.Context, query string, args ...any) ([]*models.BetView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*models.BetView
	for rows.Next() {
		view, err := scanBetView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return views, nil
}

// Create inserts a new bet
func (r *BetRepository) Create(ctx context.Context, bet *models.Bet) error {
	query := `
		INSERT INTO bets (owner_account_id, title, body, evidence, wager, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.OwnerAccountID,
		bet.Title,
		bet.Body,
		bet.Evidence,
		bet.Wager,
		string(bet.Status),
	).Scan(&bet.ID, &bet.CreatedAt, &bet.UpdatedAt)

	if pgErrorCode(err) == pgForeignKeyViolation {
		return fmt.Errorf("%w: %d", service.ErrAccountNotFound, bet.OwnerAccountID)
	}
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by ID
func (r *BetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}
	return bet, nil
}

// GetByIDForUpdate retrieves a bet and locks its row until the transaction
// ends. The lock does not conflict with engagement inserts referencing the bet.
func (r *BetRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1 FOR NO KEY UPDATE`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock bet %d: %w", id, err)
	}
	return bet, nil
}

// UpdateChallenge writes the bet's status and challenge columns
func (r *BetRepository) UpdateChallenge(ctx context.Context, bet *models.Bet) error {
	query := `
		UPDATE bets
		SET status = $2, challenger_account_id = $3, challenge_amount = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query,
		bet.ID,
		string(bet.Status),
		bet.ChallengerAccountID,
		bet.ChallengeAmount,
	).Scan(&bet.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %d", service.ErrBetNotFound, bet.ID)
	}
	if pgErrorCode(err) == pgCheckViolation {
		return fmt.Errorf("%w: bet %d rejected challenge state", service.ErrBetNotChallengeable, bet.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update challenge on bet %d: %w", bet.ID, err)
	}

	return nil
}

// GetView returns the projection of a single bet
func (r *BetRepository) GetView(ctx context.Context, id int64) (*models.BetView, error) {
	query := betViewSelect + ` WHERE b.id = $1`

	view, err := scanBetView(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet view %d: %w", id, err)
	}
	return view, nil
}

// ListViews returns the feed, newest first
func (r *BetRepository) ListViews(ctx context.Context, limit, offset int) ([]*models.BetView, error) {
	query := betViewSelect + `
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $1 OFFSET $2
	`

	views, err := r.queryViews(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	return views, nil
}

// ListViewsByOwner returns the bets owned by the account, newest first
func (r *BetRepository) ListViewsByOwner(ctx context.Context, accountID int64) ([]*models.BetView, error) {
	query := betViewSelect + `
		WHERE b.owner_account_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	views, err := r.queryViews(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets owned by account %d: %w", accountID, err)
	}
	return views, nil
}

// ListViewsByChallenger returns the bets the account currently holds the challenge on
func (r *BetRepository) ListViewsByChallenger(ctx context.Context, accountID int64) ([]*models.BetView, error) {
	query := betViewSelect + `
		WHERE b.challenger_account_id = $1
		ORDER BY b.created_at DESC, b.id DESC
	`

	views, err := r.queryViews(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets challenged by account %d: %w", accountID, err)
	}
	return views, nil
}

// ListViewsBookmarkedBy returns the bets the account bookmarked, most recent bookmark first
func (r *BetRepository) ListViewsBookmarkedBy(ctx context.Context, accountID int64) ([]*models.BetView, error) {
	query := betViewSelect + `
		JOIN bookmarks mine ON mine.bet_id = b.id AND mine.account_id = $1
		ORDER BY mine.created_at DESC, b.id DESC
	`

	views, err := r.queryViews(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets bookmarked by account %d: %w", accountID, err)
	}
	return views, nil
}
