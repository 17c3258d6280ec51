package service

import (
	"context"

	"betboard/events"
	"betboard/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByHandle(ctx context.Context, handle string) (*models.Account, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountRepository) LockByIDs(ctx context.Context, ids ...int64) (map[int64]*models.Account, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*models.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) Debit(ctx context.Context, id int64, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Credit(ctx context.Context, id int64, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bet), args.Error(1)
}

func (m *MockBetRepository) UpdateChallenge(ctx context.Context, bet *models.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetView(ctx context.Context, id int64) (*models.BetView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetView), args.Error(1)
}

func (m *MockBetRepository) ListViews(ctx context.Context, limit, offset int) ([]*models.BetView, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetView), args.Error(1)
}

func (m *MockBetRepository) ListViewsByOwner(ctx context.Context, accountID int64) ([]*models.BetView, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetView), args.Error(1)
}

func (m *MockBetRepository) ListViewsByChallenger(ctx context.Context, accountID int64) ([]*models.BetView, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetView), args.Error(1)
}

func (m *MockBetRepository) ListViewsBookmarkedBy(ctx context.Context, accountID int64) ([]*models.BetView, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetView), args.Error(1)
}

// MockEngagementRepository is a mock implementation of EngagementRepository
type MockEngagementRepository struct {
	mock.Mock
}

func (m *MockEngagementRepository) Add(ctx context.Context, kind models.EngagementKind, accountID, betID int64) (bool, error) {
	args := m.Called(ctx, kind, accountID, betID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) Remove(ctx context.Context, kind models.EngagementKind, accountID, betID int64) (bool, error) {
	args := m.Called(ctx, kind, accountID, betID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEngagementRepository) Count(ctx context.Context, kind models.EngagementKind, betID int64) (int64, error) {
	args := m.Called(ctx, kind, betID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBalanceHistoryRepository is a mock implementation of BalanceHistoryRepository
type MockBalanceHistoryRepository struct {
	mock.Mock
}

func (m *MockBalanceHistoryRepository) Record(ctx context.Context, history *models.BalanceHistory) error {
	args := m.Called(ctx, history)
	return args.Error(0)
}

func (m *MockBalanceHistoryRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*models.BalanceHistory, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BalanceHistory), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo        AccountRepository
	betRepo            BetRepository
	engagementRepo     EngagementRepository
	balanceHistoryRepo BalanceHistoryRepository
	eventBus           EventPublisher
}

// SetRepositories wires the repositories and publisher handed out by the unit of work
func (m *MockUnitOfWork) SetRepositories(
	accountRepo AccountRepository,
	betRepo BetRepository,
	engagementRepo EngagementRepository,
	balanceHistoryRepo BalanceHistoryRepository,
	eventBus EventPublisher,
) {
	m.accountRepo = accountRepo
	m.betRepo = betRepo
	m.engagementRepo = engagementRepo
	m.balanceHistoryRepo = balanceHistoryRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) BeginReadOnly(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) BetRepository() BetRepository {
	return m.betRepo
}

func (m *MockUnitOfWork) EngagementRepository() EngagementRepository {
	return m.engagementRepo
}

func (m *MockUnitOfWork) BalanceHistoryRepository() BalanceHistoryRepository {
	return m.balanceHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
