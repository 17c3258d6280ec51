package service

import (
	"context"
	"errors"
	"testing"

	"betboard/events"
	"betboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func openBet() *models.Bet {
	return &models.Bet{
		ID:             7,
		OwnerAccountID: 1,
		Title:          "Rain tomorrow",
		Body:           "It will rain in Lisbon tomorrow",
		Evidence:       "forecast",
		Wager:          5,
		Status:         models.BetStatusOpen,
	}
}

func challengedBet(challengerID, amount int64) *models.Bet {
	bet := openBet()
	bet.Status = models.BetStatusChallenged
	bet.ChallengerAccountID = int64Ptr(challengerID)
	bet.ChallengeAmount = int64Ptr(amount)
	return bet
}

func TestBetService_CreateBet_EscrowsWager(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	m.expectCommit()

	service := NewBetService(m.factory, 1)

	alice := &models.Account{ID: 1, Handle: "alice", Balance: 100}
	m.accounts.On("GetByHandle", ctx, "alice").Return(alice, nil)
	m.accounts.On("LockByIDs", ctx, []int64{1}).Return(map[int64]*models.Account{
		1: {ID: 1, Handle: "alice", Balance: 100},
	}, nil)

	m.bets.On("Create", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.OwnerAccountID == 1 && b.Wager == 10 && b.Status == models.BetStatusOpen && b.ChallengerAccountID == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Bet).ID = 7
	}).Return(nil)
	m.accounts.On("Debit", ctx, int64(1), int64(10)).Return(int64(90), nil)

	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 1 &&
			h.BalanceBefore == 100 &&
			h.BalanceAfter == 90 &&
			h.ChangeAmount == -10 &&
			h.TransactionType == models.TransactionTypeBetEscrow &&
			h.RelatedBetID != nil && *h.RelatedBetID == 7
	})).Return(nil)

	m.events.On("Publish", events.BalanceChangeEvent{
		AccountID:       1,
		OldBalance:      100,
		NewBalance:      90,
		ChangeAmount:    -10,
		TransactionType: models.TransactionTypeBetEscrow,
		BetID:           int64Ptr(7),
	})
	m.events.On("Publish", events.BetCreatedEvent{BetID: 7, OwnerAccountID: 1, Wager: 10})

	view := &models.BetView{Bet: models.Bet{ID: 7, Wager: 10}, Owner: alice.Summary()}
	m.bets.On("GetView", ctx, int64(7)).Return(view, nil)

	got, err := service.CreateBet(ctx, CreateBetRequest{
		OwnerHandle: "alice",
		Title:       "Rain tomorrow",
		Body:        "It will rain in Lisbon tomorrow",
		Evidence:    "forecast",
		Wager:       10,
	})

	require.NoError(t, err)
	assert.Equal(t, view, got)
	m.assertExpectations(t)
}

func TestBetService_CreateBet_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	m.accounts.On("GetByHandle", ctx, "alice").Return(&models.Account{ID: 1, Handle: "alice", Balance: 5}, nil)
	m.accounts.On("LockByIDs", ctx, []int64{1}).Return(map[int64]*models.Account{
		1: {ID: 1, Handle: "alice", Balance: 5},
	}, nil)

	_, err := service.CreateBet(ctx, CreateBetRequest{
		OwnerHandle: "alice",
		Title:       "t",
		Body:        "b",
		Evidence:    "e",
		Wager:       10,
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))
	var fundsErr *InsufficientFundsError
	require.True(t, errors.As(err, &fundsErr))
	assert.Equal(t, int64(5), fundsErr.Available)
	assert.Equal(t, int64(10), fundsErr.Required)
	assert.Equal(t, KindBusinessRuleViolation, KindOf(err))

	m.bets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.accounts.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestBetService_CreateBet_UnknownOwner(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	m.accounts.On("GetByHandle", ctx, "ghost").Return(nil, nil)

	_, err := service.CreateBet(ctx, CreateBetRequest{
		OwnerHandle: "ghost",
		Title:       "t",
		Body:        "b",
		Evidence:    "e",
		Wager:       10,
	})

	assert.True(t, errors.Is(err, ErrAccountNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestBetService_CreateBet_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  CreateBetRequest
	}{
		{"missing title", CreateBetRequest{OwnerHandle: "alice", Body: "b", Evidence: "e", Wager: 1}},
		{"missing evidence", CreateBetRequest{OwnerHandle: "alice", Title: "t", Body: "b", Wager: 1}},
		{"zero wager", CreateBetRequest{OwnerHandle: "alice", Title: "t", Body: "b", Evidence: "e"}},
		{"negative wager", CreateBetRequest{OwnerHandle: "alice", Title: "t", Body: "b", Evidence: "e", Wager: -3}},
		{"blank owner", CreateBetRequest{OwnerHandle: "  ", Title: "t", Body: "b", Evidence: "e", Wager: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newServiceMocks()
			service := NewBetService(m.factory, 1)

			_, err := service.CreateBet(context.Background(), tt.req)

			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Equal(t, KindInvalidInput, KindOf(err))
			m.factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestBetService_ChallengeBet_MatchesOpenBet(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	m.expectCommit()

	service := NewBetService(m.factory, 1)

	bob := &models.Account{ID: 2, Handle: "bob", Balance: 100}
	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(openBet(), nil)
	m.accounts.On("GetByHandle", ctx, "bob").Return(bob, nil)
	m.accounts.On("LockByIDs", ctx, []int64{2}).Return(map[int64]*models.Account{2: bob}, nil)
	m.accounts.On("Debit", ctx, int64(2), int64(5)).Return(int64(95), nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 2 &&
			h.BalanceBefore == 100 &&
			h.BalanceAfter == 95 &&
			h.ChangeAmount == -5 &&
			h.TransactionType == models.TransactionTypeChallengeEscrow
	})).Return(nil)
	m.bets.On("UpdateChallenge", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return b.ID == 7 &&
			b.Status == models.BetStatusChallenged &&
			*b.ChallengerAccountID == 2 &&
			*b.ChallengeAmount == 5
	})).Return(nil)
	m.events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent"))
	m.events.On("Publish", events.BetChallengedEvent{BetID: 7, ChallengerAccountID: 2, ChallengeAmount: 5})

	view := &models.BetView{Bet: *challengedBet(2, 5)}
	m.bets.On("GetView", ctx, int64(7)).Return(view, nil)

	got, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "bob", Wager: 5})

	require.NoError(t, err)
	assert.Equal(t, view, got)
	m.accounts.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_BelowWager(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(openBet(), nil)
	m.accounts.On("GetByHandle", ctx, "bob").Return(&models.Account{ID: 2, Handle: "bob", Balance: 100}, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "bob", Wager: 4})

	require.Error(t, err)
	var tooLow *WagerTooLowError
	require.True(t, errors.As(err, &tooLow))
	assert.Equal(t, int64(4), tooLow.Offered)
	assert.Equal(t, int64(5), tooLow.MinAllowed)
	assert.True(t, errors.Is(err, ErrWagerTooLow))
	assert.Equal(t, KindBusinessRuleViolation, KindOf(err))

	m.accounts.AssertNotCalled(t, "LockByIDs", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_SelfChallengeCheckedBeforeFunds(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(openBet(), nil)
	m.accounts.On("GetByHandle", ctx, "alice").Return(&models.Account{ID: 1, Handle: "alice", Balance: 0}, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "alice", Wager: 1000})

	assert.True(t, errors.Is(err, ErrSelfChallengeForbidden))
	assert.Equal(t, KindForbidden, KindOf(err))
	m.accounts.AssertNotCalled(t, "LockByIDs", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_ReplacesAndRefundsPreviousChallenger(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	m.expectCommit()

	service := NewBetService(m.factory, 1)

	carol := &models.Account{ID: 3, Handle: "carol", Balance: 100}
	bob := &models.Account{ID: 2, Handle: "bob", Balance: 95}

	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(challengedBet(2, 5), nil)
	m.accounts.On("GetByHandle", ctx, "carol").Return(carol, nil)
	m.accounts.On("LockByIDs", ctx, []int64{3, 2}).Return(map[int64]*models.Account{3: carol, 2: bob}, nil)

	m.accounts.On("Credit", ctx, int64(2), int64(5)).Return(int64(100), nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 2 &&
			h.BalanceBefore == 95 &&
			h.BalanceAfter == 100 &&
			h.ChangeAmount == 5 &&
			h.TransactionType == models.TransactionTypeChallengeRefund
	})).Return(nil)

	m.accounts.On("Debit", ctx, int64(3), int64(6)).Return(int64(94), nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.AccountID == 3 &&
			h.BalanceBefore == 100 &&
			h.BalanceAfter == 94 &&
			h.ChangeAmount == -6 &&
			h.TransactionType == models.TransactionTypeChallengeEscrow
	})).Return(nil)

	m.bets.On("UpdateChallenge", ctx, mock.MatchedBy(func(b *models.Bet) bool {
		return *b.ChallengerAccountID == 3 && *b.ChallengeAmount == 6 && b.Status == models.BetStatusChallenged
	})).Return(nil)
	m.events.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Twice()
	m.events.On("Publish", events.BetChallengedEvent{
		BetID:                   7,
		ChallengerAccountID:     3,
		ChallengeAmount:         6,
		ReplacedChallengerID:    int64Ptr(2),
		RefundedChallengeAmount: 5,
	})
	m.bets.On("GetView", ctx, int64(7)).Return(&models.BetView{Bet: *challengedBet(3, 6)}, nil)

	got, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "carol", Wager: 6})

	require.NoError(t, err)
	assert.Equal(t, int64(6), *got.ChallengeAmount)
	assert.Equal(t, int64(3), *got.ChallengerAccountID)
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_EqualOfferDoesNotReplace(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(challengedBet(2, 5), nil)
	m.accounts.On("GetByHandle", ctx, "carol").Return(&models.Account{ID: 3, Handle: "carol", Balance: 100}, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "carol", Wager: 5})

	var tooLow *WagerTooLowError
	require.True(t, errors.As(err, &tooLow))
	assert.Equal(t, int64(6), tooLow.MinAllowed)
	m.accounts.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_EqualOfferAllowedWithoutMinRaise(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	m.expectCommit()

	service := NewBetService(m.factory, 0)

	carol := &models.Account{ID: 3, Handle: "carol", Balance: 100}
	bob := &models.Account{ID: 2, Handle: "bob", Balance: 95}

	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(challengedBet(2, 5), nil)
	m.accounts.On("GetByHandle", ctx, "carol").Return(carol, nil)
	m.accounts.On("LockByIDs", ctx, []int64{3, 2}).Return(map[int64]*models.Account{3: carol, 2: bob}, nil)
	m.accounts.On("Credit", ctx, int64(2), int64(5)).Return(int64(100), nil)
	m.accounts.On("Debit", ctx, int64(3), int64(5)).Return(int64(95), nil)
	m.history.On("Record", ctx, mock.Anything).Return(nil).Twice()
	m.bets.On("UpdateChallenge", ctx, mock.Anything).Return(nil)
	m.events.On("Publish", mock.Anything).Times(3)
	m.bets.On("GetView", ctx, int64(7)).Return(&models.BetView{Bet: *challengedBet(3, 5)}, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "carol", Wager: 5})

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_RaiseOwnChallengeCountsEscrow(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	m.expectCommit()

	service := NewBetService(m.factory, 1)

	// Bob has 2 points left plus 5 already escrowed on this bet
	bob := &models.Account{ID: 2, Handle: "bob", Balance: 2}

	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(challengedBet(2, 5), nil)
	m.accounts.On("GetByHandle", ctx, "bob").Return(bob, nil)
	m.accounts.On("LockByIDs", ctx, []int64{2}).Return(map[int64]*models.Account{2: bob}, nil)
	m.accounts.On("Credit", ctx, int64(2), int64(5)).Return(int64(7), nil)
	m.accounts.On("Debit", ctx, int64(2), int64(7)).Return(int64(0), nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeChallengeRefund && h.BalanceBefore == 2 && h.BalanceAfter == 7
	})).Return(nil)
	m.history.On("Record", ctx, mock.MatchedBy(func(h *models.BalanceHistory) bool {
		return h.TransactionType == models.TransactionTypeChallengeEscrow && h.BalanceBefore == 7 && h.BalanceAfter == 0
	})).Return(nil)
	m.bets.On("UpdateChallenge", ctx, mock.Anything).Return(nil)
	m.events.On("Publish", mock.Anything).Times(3)
	m.bets.On("GetView", ctx, int64(7)).Return(&models.BetView{Bet: *challengedBet(2, 7)}, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "bob", Wager: 7})

	require.NoError(t, err)
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_InsufficientFunds(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	carol := &models.Account{ID: 3, Handle: "carol", Balance: 3}
	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(challengedBet(2, 5), nil)
	m.accounts.On("GetByHandle", ctx, "carol").Return(carol, nil)
	m.accounts.On("LockByIDs", ctx, []int64{3, 2}).Return(map[int64]*models.Account{
		3: carol,
		2: {ID: 2, Handle: "bob", Balance: 95},
	}, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "carol", Wager: 6})

	var fundsErr *InsufficientFundsError
	require.True(t, errors.As(err, &fundsErr))
	assert.Equal(t, int64(3), fundsErr.Available)
	assert.Equal(t, int64(6), fundsErr.Required)
	m.accounts.AssertNotCalled(t, "Credit", mock.Anything, mock.Anything, mock.Anything)
	m.accounts.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_BetNotFound(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	m.bets.On("GetByIDForUpdate", ctx, int64(99)).Return(nil, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 99, ChallengerHandle: "ghost", Wager: 5})

	assert.True(t, errors.Is(err, ErrBetNotFound))
	assert.Equal(t, KindNotFound, KindOf(err))
	m.accounts.AssertNotCalled(t, "GetByHandle", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_ResolvedBet(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	bet := challengedBet(2, 5)
	bet.Status = models.BetStatusResolved
	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(bet, nil)
	m.accounts.On("GetByHandle", ctx, "carol").Return(&models.Account{ID: 3, Handle: "carol", Balance: 100}, nil)

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "carol", Wager: 50})

	assert.True(t, errors.Is(err, ErrBetNotChallengeable))
	assert.Equal(t, KindBusinessRuleViolation, KindOf(err))
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestBetService_ChallengeBet_DebitFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()

	service := NewBetService(m.factory, 1)

	bob := &models.Account{ID: 2, Handle: "bob", Balance: 100}
	m.bets.On("GetByIDForUpdate", ctx, int64(7)).Return(openBet(), nil)
	m.accounts.On("GetByHandle", ctx, "bob").Return(bob, nil)
	m.accounts.On("LockByIDs", ctx, []int64{2}).Return(map[int64]*models.Account{2: bob}, nil)
	m.accounts.On("Debit", ctx, int64(2), int64(5)).Return(int64(0), errors.New("connection reset"))

	_, err := service.ChallengeBet(ctx, ChallengeBetRequest{BetID: 7, ChallengerHandle: "bob", Wager: 5})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to escrow challenge")
	assert.Equal(t, KindInternal, KindOf(err))
	m.bets.AssertNotCalled(t, "UpdateChallenge", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}
