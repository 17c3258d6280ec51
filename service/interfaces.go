package service

import (
	"context"

	"betboard/events"
	"betboard/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by ID, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*models.Account, error)

	// GetByHandle retrieves an account by handle, returning nil if it does not exist
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)

	// GetByEmail retrieves an account by email, returning nil if it does not exist
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// LockByIDs locks the given account rows for the rest of the transaction,
	// in ascending id order, and returns them keyed by id
	LockByIDs(ctx context.Context, ids ...int64) (map[int64]*models.Account, error)

	// Create inserts a new account and fills in its ID and timestamps
	Create(ctx context.Context, account *models.Account) error

	// Debit subtracts amount from the balance, failing with ErrInsufficientFunds
	// instead of going negative. Returns the new balance.
	Debit(ctx context.Context, id int64, amount int64) (int64, error)

	// Credit adds amount to the balance. Returns the new balance.
	Credit(ctx context.Context, id int64, amount int64) (int64, error)
}

// BetRepository defines the interface for bet data access
type BetRepository interface {
	// Create inserts an open bet and fills in its ID and timestamps
	Create(ctx context.Context, bet *models.Bet) error

	// GetByID retrieves a bet by ID, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*models.Bet, error)

	// GetByIDForUpdate retrieves and locks a bet for the rest of the transaction
	GetByIDForUpdate(ctx context.Context, id int64) (*models.Bet, error)

	// UpdateChallenge persists the bet's status, challenger and challenge amount
	UpdateChallenge(ctx context.Context, bet *models.Bet) error

	// GetView returns a single bet projection, or nil
	GetView(ctx context.Context, id int64) (*models.BetView, error)

	// ListViews returns bet projections newest first
	ListViews(ctx context.Context, limit, offset int) ([]*models.BetView, error)

	// ListViewsByOwner returns the projections of bets owned by the account
	ListViewsByOwner(ctx context.Context, accountID int64) ([]*models.BetView, error)

	// ListViewsByChallenger returns the projections of bets the account currently challenges
	ListViewsByChallenger(ctx context.Context, accountID int64) ([]*models.BetView, error)

	// ListViewsBookmarkedBy returns the projections of bets bookmarked by the account,
	// most recently bookmarked first
	ListViewsBookmarkedBy(ctx context.Context, accountID int64) ([]*models.BetView, error)
}

// EngagementRepository defines the interface for like/bookmark relations
type EngagementRepository interface {
	// Add inserts the relation if absent. Reports whether a row was inserted.
	Add(ctx context.Context, kind models.EngagementKind, accountID, betID int64) (bool, error)

	// Remove deletes the relation if present. Reports whether a row was deleted.
	Remove(ctx context.Context, kind models.EngagementKind, accountID, betID int64) (bool, error)

	// Count returns the number of relations of the kind on the bet
	Count(ctx context.Context, kind models.EngagementKind, betID int64) (int64, error)
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry
	Record(ctx context.Context, history *models.BalanceHistory) error

	// GetByAccount returns the most recent entries for an account
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// AccountService handles registration and credential checks
type AccountService interface {
	// CreateAccount registers an account with the starting balance
	CreateAccount(ctx context.Context, req CreateAccountRequest) (*models.Account, error)

	// VerifyCredentials returns the account matching the email and password
	VerifyCredentials(ctx context.Context, email, password string) (*models.Account, error)
}

// BetService owns the bet lifecycle and its escrow
type BetService interface {
	// CreateBet opens a bet and escrows the owner's wager
	CreateBet(ctx context.Context, req CreateBetRequest) (*models.BetView, error)

	// ChallengeBet places or replaces the challenge on a bet, escrowing the offer
	ChallengeBet(ctx context.Context, req ChallengeBetRequest) (*models.BetView, error)
}

// EngagementService toggles likes and bookmarks
type EngagementService interface {
	// SetLike turns the actor's like on the bet on or off
	SetLike(ctx context.Context, actorHandle string, betID int64, on bool) (*models.EngagementResult, error)

	// SetBookmark turns the actor's bookmark on the bet on or off
	SetBookmark(ctx context.Context, actorHandle string, betID int64, on bool) (*models.EngagementResult, error)
}

// QueryService serves read projections
type QueryService interface {
	// ListBets returns the feed, newest first
	ListBets(ctx context.Context, limit, offset int) ([]*models.BetView, error)

	// GetBet returns a single bet projection
	GetBet(ctx context.Context, betID int64) (*models.BetView, error)

	// GetProfile returns an account with its owned, bookmarked and challenged bets
	GetProfile(ctx context.Context, handle string) (*models.Profile, error)

	// GetBalanceHistory returns the most recent balance changes of an account
	GetBalanceHistory(ctx context.Context, handle string, limit int) ([]*models.BalanceHistory, error)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// BeginReadOnly starts a read-only transaction with a single snapshot
	BeginReadOnly(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction and discards pending events.
	// It is a no-op after Commit.
	Rollback() error

	// Repository getters
	AccountRepository() AccountRepository
	BetRepository() BetRepository
	EngagementRepository() EngagementRepository
	BalanceHistoryRepository() BalanceHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
