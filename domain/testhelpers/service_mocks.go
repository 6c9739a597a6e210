package testhelpers

import (
	"context"

	"dotabet/domain/entities"
	"dotabet/domain/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock implementation of UnitOfWork. Its repository
// getters return the embedded mocks so tests can set expectations on them
// directly.
type MockUnitOfWork struct {
	mock.Mock

	Users     *MockUserRepository
	InPlay    *MockInPlayRepository
	Completed *MockCompletedBetRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		Users:     new(MockUserRepository),
		InPlay:    new(MockInPlayRepository),
		Completed: new(MockCompletedBetRepository),
	}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
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

func (m *MockUnitOfWork) UserRepository() interfaces.UserRepository {
	return m.Users
}

func (m *MockUnitOfWork) InPlayRepository() interfaces.InPlayRepository {
	return m.InPlay
}

func (m *MockUnitOfWork) CompletedBetRepository() interfaces.CompletedBetRepository {
	return m.Completed
}

// ExpectTransaction sets up the usual Begin/Commit/Rollback expectations for
// a transaction that is expected to commit.
func (m *MockUnitOfWork) ExpectTransaction() {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Commit").Return(nil)
	m.On("Rollback").Return(nil).Maybe()
}

// ExpectRollback sets up expectations for a transaction that never commits.
func (m *MockUnitOfWork) ExpectRollback() {
	m.On("Begin", mock.Anything).Return(nil)
	m.On("Rollback").Return(nil)
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory.
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	args := m.Called()
	return args.Get(0).(interfaces.UnitOfWork)
}

// MockSettler is a mock implementation of Settler
type MockSettler struct {
	mock.Mock
}

func (m *MockSettler) Reserve(ctx context.Context, req *entities.BetRequest) (*entities.InPlayRecord, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.InPlayRecord), args.Error(1)
}

func (m *MockSettler) Refund(ctx context.Context, record *entities.InPlayRecord) (int64, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSettler) Settle(ctx context.Context, record *entities.InPlayRecord, priced *entities.PricedBet) (*entities.CompletedBet, error) {
	args := m.Called(ctx, record, priced)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CompletedBet), args.Error(1)
}

// MockMatchSource is a mock implementation of MatchSource
type MockMatchSource struct {
	mock.Mock
}

func (m *MockMatchSource) WaitForNewMatch(ctx context.Context, kind entities.SubjectKind, subjectRef int64) (int64, error) {
	args := m.Called(ctx, kind, subjectRef)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMatchSource) EnsureParsedAndFetch(ctx context.Context, matchID int64) (*entities.MatchSnapshot, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MatchSnapshot), args.Error(1)
}

// MockPricer is a mock implementation of Pricer
type MockPricer struct {
	mock.Mock
}

func (m *MockPricer) Price(ctx context.Context, snapshot *entities.MatchSnapshot, req *entities.BetRequest) (*entities.PricedBet, error) {
	args := m.Called(ctx, snapshot, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.PricedBet), args.Error(1)
}

// MockEstimator is a mock implementation of Estimator
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Estimate(ctx context.Context, snapshot *entities.MatchSnapshot, minute int) (float64, error) {
	args := m.Called(ctx, snapshot, minute)
	return args.Get(0).(float64), args.Error(1)
}

// MockOutcomeSink is a mock implementation of OutcomeSink
type MockOutcomeSink struct {
	mock.Mock
}

func (m *MockOutcomeSink) Enqueue(ctx context.Context, outcome entities.Outcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}
