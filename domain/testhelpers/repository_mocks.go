package testhelpers

import (
	"context"

	"dotabet/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.User, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, discordID int64, username string, initialBalance int64) (*entities.User, error) {
	args := m.Called(ctx, discordID, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) SetSteamID(ctx context.Context, discordID int64, steamID int64) error {
	args := m.Called(ctx, discordID, steamID)
	return args.Error(0)
}

func (m *MockUserRepository) AdjustBalance(ctx context.Context, discordID int64, delta int64) (int64, error) {
	args := m.Called(ctx, discordID, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetBalance(ctx context.Context, discordID int64, balance int64) error {
	args := m.Called(ctx, discordID, balance)
	return args.Error(0)
}

// MockInPlayRepository is a mock implementation of InPlayRepository
type MockInPlayRepository struct {
	mock.Mock
}

func (m *MockInPlayRepository) Put(ctx context.Context, record *entities.InPlayRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockInPlayRepository) Delete(ctx context.Context, betID uuid.UUID) (bool, error) {
	args := m.Called(ctx, betID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInPlayRepository) ScanAll(ctx context.Context) ([]*entities.InPlayRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.InPlayRecord), args.Error(1)
}

// MockCompletedBetRepository is a mock implementation of CompletedBetRepository
type MockCompletedBetRepository struct {
	mock.Mock
}

func (m *MockCompletedBetRepository) Create(ctx context.Context, bet *entities.CompletedBet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockCompletedBetRepository) Exists(ctx context.Context, betID uuid.UUID) (bool, error) {
	args := m.Called(ctx, betID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCompletedBetRepository) GetByUser(ctx context.Context, discordID int64, limit int) ([]*entities.CompletedBet, error) {
	args := m.Called(ctx, discordID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CompletedBet), args.Error(1)
}
