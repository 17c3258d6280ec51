package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"betboard/database"
	"betboard/models"
	"betboard/service"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `id, handle, email, display_name, password_hash, balance, created_at, updated_at`

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

func scanAccount(row pgx.Row) (*models.Account, error) {
	var account models.Account
	err := row.Scan(
		&account.ID,
		&account.Handle,
		&account.Email,
		&account.DisplayName,
		&account.PasswordHash,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	return account, nil
}

// GetByHandle retrieves an account by handle
func (r *AccountRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE handle = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, handle))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by handle %q: %w", handle, err)
	}
	return account, nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return account, nil
}

// LockByIDs takes row locks on the accounts one at a time in ascending id
// order. Every writer locks in this order so two transactions touching the
// same accounts cannot deadlock. NO KEY UPDATE leaves the key-share locks
// taken by foreign key checks on likes and bookmarks unblocked.
func (r *AccountRepository) LockByIDs(ctx context.Context, ids ...int64) (map[int64]*models.Account, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR NO KEY UPDATE`

	locked := make(map[int64]*models.Account, len(sorted))
	for _, id := range sorted {
		account, err := scanAccount(r.q.QueryRow(ctx, query, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", service.ErrAccountNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock account %d: %w", id, err)
		}
		locked[id] = account
	}

	return locked, nil
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (handle, email, display_name, password_hash, balance)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.Handle,
		account.Email,
		account.DisplayName,
		account.PasswordHash,
		account.Balance,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)

	if pgErrorCode(err) == pgUniqueViolation {
		return fmt.Errorf("%w: %s", service.ErrDuplicateAccount, account.Handle)
	}
	if err != nil {
		return fmt.Errorf("failed to create account %q: %w", account.Handle, err)
	}

	return nil
}

// Debit subtracts amount from the balance only if enough is available
func (r *AccountRepository) Debit(ctx context.Context, id int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE accounts
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1 AND balance >= $2
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the account is gone or the guard rejected the debit
		current, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return 0, getErr
		}
		if current == nil {
			return 0, fmt.Errorf("%w: %d", service.ErrAccountNotFound, id)
		}
		return 0, &service.InsufficientFundsError{Available: current.Balance, Required: amount}
	}
	if pgErrorCode(err) == pgCheckViolation {
		return 0, &service.InsufficientFundsError{Required: amount}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit account %d: %w", id, err)
	}

	return balance, nil
}

// Credit adds amount to the balance
func (r *AccountRepository) Credit(ctx context.Context, id int64, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING balance
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, id, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: %d", service.ErrAccountNotFound, id)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to credit account %d: %w", id, err)
	}

	return balance, nil
}
