package api

import (
	"context"

	"betboard/models"
	"betboard/service"

	"github.com/stretchr/testify/mock"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) CreateAccount(ctx context.Context, req service.CreateAccountRequest) (*models.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *mockAccountService) VerifyCredentials(ctx context.Context, email, password string) (*models.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

type mockBetService struct {
	mock.Mock
}

func (m *mockBetService) CreateBet(ctx context.Context, req service.CreateBetRequest) (*models.BetView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetView), args.Error(1)
}

func (m *mockBetService) ChallengeBet(ctx context.Context, req service.ChallengeBetRequest) (*models.BetView, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetView), args.Error(1)
}

type mockEngagementService struct {
	mock.Mock
}

func (m *mockEngagementService) SetLike(ctx context.Context, actorHandle string, betID int64, on bool) (*models.EngagementResult, error) {
	args := m.Called(ctx, actorHandle, betID, on)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EngagementResult), args.Error(1)
}

func (m *mockEngagementService) SetBookmark(ctx context.Context, actorHandle string, betID int64, on bool) (*models.EngagementResult, error) {
	args := m.Called(ctx, actorHandle, betID, on)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EngagementResult), args.Error(1)
}

type mockQueryService struct {
	mock.Mock
}

func (m *mockQueryService) ListBets(ctx context.Context, limit, offset int) ([]*models.BetView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetView), args.Error(1)
}

func (m *mockQueryService) GetBet(ctx context.Context, betID int64) (*models.BetView, error) {
	args := m.Called(ctx, betID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetView), args.Error(1)
}

func (m *mockQueryService) GetProfile(ctx context.Context, handle string) (*models.Profile, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *mockQueryService) GetBalanceHistory(ctx context.Context, handle string, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, handle, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}
