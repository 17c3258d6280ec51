package service

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

type serviceMocks struct {
	factory     *MockUnitOfWorkFactory
	uow         *MockUnitOfWork
	accounts    *MockAccountRepository
	bets        *MockBetRepository
	engagements *MockEngagementRepository
	history     *MockBalanceHistoryRepository
	events      *MockEventPublisher
}

// newServiceMocks returns a unit of work that always begins and rolls back.
// Tests add Commit themselves when they expect one.
func newServiceMocks() *serviceMocks {
	return newMocks("Begin")
}

// newReadOnlyMocks is newServiceMocks for services that only read
func newReadOnlyMocks() *serviceMocks {
	return newMocks("BeginReadOnly")
}

func newMocks(beginMethod string) *serviceMocks {
	m := &serviceMocks{
		factory:     new(MockUnitOfWorkFactory),
		uow:         new(MockUnitOfWork),
		accounts:    new(MockAccountRepository),
		bets:        new(MockBetRepository),
		engagements: new(MockEngagementRepository),
		history:     new(MockBalanceHistoryRepository),
		events:      new(MockEventPublisher),
	}
	m.uow.SetRepositories(m.accounts, m.bets, m.engagements, m.history, m.events)

	m.factory.On("Create").Return(m.uow)
	m.uow.On(beginMethod, mock.Anything).Return(nil)
	m.uow.On("Rollback").Return(nil)
	return m
}

func (m *serviceMocks) expectCommit() {
	m.uow.On("Commit").Return(nil)
}

func (m *serviceMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.accounts.AssertExpectations(t)
	m.bets.AssertExpectations(t)
	m.engagements.AssertExpectations(t)
	m.history.AssertExpectations(t)
	m.events.AssertExpectations(t)
}
