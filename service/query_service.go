package service

import (
	"context"
	"fmt"
	"strings"

	"betboard/models"
)

const (
	DefaultFeedLimit    = 50
	MaxFeedLimit        = 200
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

type queryService struct {
	uowFactory UnitOfWorkFactory
}

// NewQueryService creates a new query service
func NewQueryService(uowFactory UnitOfWorkFactory) QueryService {
	return &queryService{
		uowFactory: uowFactory,
	}
}

// ListBets returns a page of the feed, newest first
func (s *queryService) ListBets(ctx context.Context, limit, offset int) ([]*models.BetView, error) {
	if offset < 0 {
		return nil, invalidInput("offset must not be negative, got %d", offset)
	}
	limit = clampLimit(limit, DefaultFeedLimit, MaxFeedLimit)

	uow := s.uowFactory.Create()
	if err := uow.BeginReadOnly(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	views, err := uow.BetRepository().ListViews(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return views, nil
}

// GetBet returns one bet with its engagement counts
func (s *queryService) GetBet(ctx context.Context, betID int64) (*models.BetView, error) {
	if betID <= 0 {
		return nil, invalidInput("bet id must be positive, got %d", betID)
	}

	uow := s.uowFactory.Create()
	if err := uow.BeginReadOnly(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	view, err := uow.BetRepository().GetView(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	if view == nil {
		return nil, fmt.Errorf("%w: %d", ErrBetNotFound, betID)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return view, nil
}

// GetProfile returns the account and the bets it owns, bookmarked and
// currently challenges. All three lists come from one snapshot.
func (s *queryService) GetProfile(ctx context.Context, handle string) (*models.Profile, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, invalidInput("handle is required")
	}

	uow := s.uowFactory.Create()
	if err := uow.BeginReadOnly(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, handle)
	}

	owned, err := uow.BetRepository().ListViewsByOwner(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned bets: %w", err)
	}
	bookmarked, err := uow.BetRepository().ListViewsBookmarkedBy(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarked bets: %w", err)
	}
	challenged, err := uow.BetRepository().ListViewsByChallenger(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenged bets: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.Profile{
		Account:    account.Summary(),
		Balance:    account.Balance,
		Owned:      nonNil(owned),
		Bookmarked: nonNil(bookmarked),
		Challenged: nonNil(challenged),
	}, nil
}

// GetBalanceHistory returns the account's most recent balance changes, newest first
func (s *queryService) GetBalanceHistory(ctx context.Context, handle string, limit int) ([]*models.BalanceHistory, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, invalidInput("handle is required")
	}
	limit = clampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit)

	uow := s.uowFactory.Create()
	if err := uow.BeginReadOnly(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.AccountRepository().GetByHandle(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, handle)
	}

	history, err := uow.BalanceHistoryRepository().GetByAccount(ctx, account.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if history == nil {
		history = []*models.BalanceHistory{}
	}
	return history, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func nonNil(views []*models.BetView) []*models.BetView {
	if views == nil {
		return []*models.BetView{}
	}
	return views
}
