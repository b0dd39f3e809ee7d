package service

import (
	"context"

	"casinobot/events"
	"casinobot/models"

	"github.com/stretchr/testify/mock"
)

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Lock(ctx context.Context, account models.AccountID) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockLedgerRepository) Latest(ctx context.Context, account models.AccountID) (*models.LedgerEntry, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, account, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockStockRepository is a mock implementation of StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) Insert(ctx context.Context, position *models.StockPosition) error {
	args := m.Called(ctx, position)
	return args.Error(0)
}

func (m *MockStockRepository) Holding(ctx context.Context, account models.AccountID, symbol string) (*models.Holding, error) {
	args := m.Called(ctx, account, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Holding), args.Error(1)
}

func (m *MockStockRepository) Holdings(ctx context.Context, account models.AccountID) ([]*models.Holding, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Holding), args.Error(1)
}

func (m *MockStockRepository) History(ctx context.Context, account models.AccountID, limit int) ([]*models.StockPosition, error) {
	args := m.Called(ctx, account, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StockPosition), args.Error(1)
}

func (m *MockStockRepository) MarketHoldings(ctx context.Context) ([]*models.Holding, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Holding), args.Error(1)
}

// MockGameResultRepository is a mock implementation of GameResultRepository
type MockGameResultRepository struct {
	mock.Mock
}

func (m *MockGameResultRepository) Save(ctx context.Context, result *models.GameResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockGameResultRepository) Recent(ctx context.Context, kind models.GameKind, limit int) ([]*models.GameResult, error) {
	args := m.Called(ctx, kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GameResult), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories rather than stubbed per call.
type MockUnitOfWork struct {
	mock.Mock
	ledgerRepo     LedgerRepository
	stockRepo      StockRepository
	gameResultRepo GameResultRepository
	eventBus       EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(ledger LedgerRepository, stock StockRepository, results GameResultRepository) {
	m.ledgerRepo = ledger
	m.stockRepo = stock
	m.gameResultRepo = results
}

// SetEventBus wires the publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
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

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) StockRepository() StockRepository {
	return m.stockRepo
}

func (m *MockUnitOfWork) GameResultRepository() GameResultRepository {
	return m.gameResultRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventBus == nil {
		return events.NewTransactionalBus(nil)
	}
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
