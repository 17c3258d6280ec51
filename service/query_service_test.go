package service

import (
	"context"
	"errors"
	"testing"

	"betboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQueryService_ListBets_Limits(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		expectedLimit int
	}{
		{"default", 0, DefaultFeedLimit},
		{"explicit", 10, 10},
		{"clamped", 5000, MaxFeedLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			m := newReadOnlyMocks()
			m.expectCommit()
			service := NewQueryService(m.factory)

			feed := []*models.BetView{{Bet: models.Bet{ID: 2}}, {Bet: models.Bet{ID: 1}}}
			m.bets.On("ListViews", ctx, tt.expectedLimit, 20).Return(feed, nil)

			got, err := service.ListBets(ctx, tt.limit, 20)

			require.NoError(t, err)
			assert.Equal(t, feed, got)
			m.assertExpectations(t)
		})
	}
}

func TestQueryService_ListBets_NegativeOffset(t *testing.T) {
	m := newReadOnlyMocks()
	service := NewQueryService(m.factory)

	_, err := service.ListBets(context.Background(), 10, -1)

	assert.True(t, errors.Is(err, ErrInvalidInput))
	m.factory.AssertNotCalled(t, "Create")
}

func TestQueryService_GetBet(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		m := newReadOnlyMocks()
		m.expectCommit()
		service := NewQueryService(m.factory)

		view := &models.BetView{Bet: *openBet(), LikeCount: 3}
		m.bets.On("GetView", ctx, int64(7)).Return(view, nil)

		got, err := service.GetBet(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, int64(3), got.LikeCount)
		m.assertExpectations(t)
	})

	t.Run("missing", func(t *testing.T) {
		m := newReadOnlyMocks()
		service := NewQueryService(m.factory)

		m.bets.On("GetView", ctx, int64(8)).Return(nil, nil)

		_, err := service.GetBet(ctx, 8)

		assert.True(t, errors.Is(err, ErrBetNotFound))
		m.uow.AssertNotCalled(t, "Commit")
	})
}

func TestQueryService_GetProfile_PartitionsBets(t *testing.T) {
	ctx := context.Background()
	m := newReadOnlyMocks()
	m.expectCommit()

	service := NewQueryService(m.factory)

	bob := &models.Account{ID: 2, Handle: "bob", DisplayName: "Bob", Balance: 95, PasswordHash: "secret"}
	owned := []*models.BetView{{Bet: models.Bet{ID: 11, OwnerAccountID: 2}}}
	challenged := []*models.BetView{{Bet: *challengedBet(2, 5)}}

	m.accounts.On("GetByHandle", ctx, "bob").Return(bob, nil)
	m.bets.On("ListViewsByOwner", ctx, int64(2)).Return(owned, nil)
	m.bets.On("ListViewsBookmarkedBy", ctx, int64(2)).Return(nil, nil)
	m.bets.On("ListViewsByChallenger", ctx, int64(2)).Return(challenged, nil)

	profile, err := service.GetProfile(ctx, "bob")

	require.NoError(t, err)
	assert.Equal(t, models.AccountSummary{ID: 2, Handle: "bob", DisplayName: "Bob"}, profile.Account)
	assert.Equal(t, int64(95), profile.Balance)
	assert.Equal(t, owned, profile.Owned)
	assert.NotNil(t, profile.Bookmarked)
	assert.Empty(t, profile.Bookmarked)
	assert.Equal(t, challenged, profile.Challenged)
	m.uow.AssertNotCalled(t, "Begin", mock.Anything)
	m.assertExpectations(t)
}

func TestQueryService_GetProfile_UnknownHandle(t *testing.T) {
	ctx := context.Background()
	m := newReadOnlyMocks()
	service := NewQueryService(m.factory)

	m.accounts.On("GetByHandle", ctx, "ghost").Return(nil, nil)

	_, err := service.GetProfile(ctx, "ghost")

	assert.True(t, errors.Is(err, ErrAccountNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestQueryService_GetBalanceHistory(t *testing.T) {
	ctx := context.Background()
	m := newReadOnlyMocks()
	m.expectCommit()
	service := NewQueryService(m.factory)

	entries := []*models.BalanceHistory{
		{AccountID: 2, ChangeAmount: -5, TransactionType: models.TransactionTypeChallengeEscrow},
		{AccountID: 2, ChangeAmount: 100, TransactionType: models.TransactionTypeInitial},
	}
	m.accounts.On("GetByHandle", ctx, "bob").Return(&models.Account{ID: 2, Handle: "bob"}, nil)
	m.history.On("GetByAccount", ctx, int64(2), MaxHistoryLimit).Return(entries, nil)

	got, err := service.GetBalanceHistory(ctx, "bob", 1000)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	m.assertExpectations(t)
}
