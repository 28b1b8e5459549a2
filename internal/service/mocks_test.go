// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/rates"
	"payflow-wallet/internal/repository"
	"payflow-wallet/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController. It embeds
// MockDBExecutor so the services' type assertion to repository.DBExecutor
// succeeds on it.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// testTxFuncs wires a MockTxController into the injected transaction control
// functions every service takes.
func testTxFuncs(mockTx *MockTxController) (db.BeginTxFunc, db.CommitTxFunc, db.RollbackTxFunc) {
	return func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			return mockTx, nil
		},
		func(tx db.TxController) error {
			return mockTx.Commit()
		},
		func(tx db.TxController) {
			_ = mockTx.Rollback()
		}
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockBalanceRepository is a mock implementation of repository.BalanceRepository.
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) CreateBalance(ctx context.Context, q repository.DBExecutor, balance *domain.Balance) error {
	args := m.Called(ctx, q, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetBalanceByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) GetBalanceForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Balance, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Balance), args.Error(1)
}

func (m *MockBalanceRepository) AddToBalance(ctx context.Context, q repository.DBExecutor, userID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, userID, delta)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionByIdempotencyKey(ctx context.Context, q repository.DBExecutor, key string) (*domain.Transaction, error) {
	args := m.Called(ctx, q, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetTransactionsByUserID(ctx context.Context, q repository.DBExecutor, userID int64, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, q, userID, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

// MockWithdrawalRepository is a mock implementation of repository.WithdrawalRepository.
type MockWithdrawalRepository struct {
	mock.Mock
}

func (m *MockWithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, w *domain.WithdrawalRequest) error {
	args := m.Called(ctx, q, w)
	return args.Error(0)
}

func (m *MockWithdrawalRepository) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) GetWithdrawalForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WithdrawalRequest, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.WithdrawalRequest, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) ListWithdrawalsByStatus(ctx context.Context, q repository.DBExecutor, status domain.WithdrawalStatus) ([]domain.WithdrawalRequest, error) {
	args := m.Called(ctx, q, status)
	return args.Get(0).([]domain.WithdrawalRequest), args.Error(1)
}

func (m *MockWithdrawalRepository) SettleWithdrawal(ctx context.Context, q repository.DBExecutor, id int64, status domain.WithdrawalStatus, notes *string, processedAt time.Time) (int64, error) {
	args := m.Called(ctx, q, id, status, notes, processedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockCardRepository is a mock implementation of repository.CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) CreateCard(ctx context.Context, q repository.DBExecutor, card *domain.UserCard) error {
	args := m.Called(ctx, q, card)
	return args.Error(0)
}

func (m *MockCardRepository) GetCardByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.UserCard, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCard), args.Error(1)
}

func (m *MockCardRepository) GetCardForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.UserCard, error) {
	args := m.Called(ctx, q, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserCard), args.Error(1)
}

func (m *MockCardRepository) AddToCardBalance(ctx context.Context, q repository.DBExecutor, cardID int64, delta decimal.Decimal) error {
	args := m.Called(ctx, q, cardID, delta)
	return args.Error(0)
}

func (m *MockCardRepository) CreateCardTransaction(ctx context.Context, q repository.DBExecutor, tx *domain.CardTransaction) error {
	args := m.Called(ctx, q, tx)
	return args.Error(0)
}

func (m *MockCardRepository) ListCardTransactions(ctx context.Context, q repository.DBExecutor, cardID int64, limit, offset int) ([]domain.CardTransaction, error) {
	args := m.Called(ctx, q, cardID, limit, offset)
	return args.Get(0).([]domain.CardTransaction), args.Error(1)
}

// MockLinkedCardRepository is a mock implementation of repository.LinkedCardRepository.
type MockLinkedCardRepository struct {
	mock.Mock
}

func (m *MockLinkedCardRepository) CreateLinkedCard(ctx context.Context, q repository.DBExecutor, card *domain.LinkedCard) error {
	args := m.Called(ctx, q, card)
	return args.Error(0)
}

func (m *MockLinkedCardRepository) ListLinkedCardsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.LinkedCard, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.LinkedCard), args.Error(1)
}

func (m *MockLinkedCardRepository) DeleteLinkedCard(ctx context.Context, q repository.DBExecutor, id, userID int64) error {
	args := m.Called(ctx, q, id, userID)
	return args.Error(0)
}

// MockPhysicalCardRepository is a mock implementation of repository.PhysicalCardRepository.
type MockPhysicalCardRepository struct {
	mock.Mock
}

func (m *MockPhysicalCardRepository) CreatePhysicalCardRequest(ctx context.Context, q repository.DBExecutor, req *domain.PhysicalCardRequest) error {
	args := m.Called(ctx, q, req)
	return args.Error(0)
}

func (m *MockPhysicalCardRepository) GetPhysicalCardRequestByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PhysicalCardRequest, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhysicalCardRequest), args.Error(1)
}

func (m *MockPhysicalCardRepository) GetPhysicalCardRequestForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PhysicalCardRequest, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PhysicalCardRequest), args.Error(1)
}

func (m *MockPhysicalCardRepository) ListPhysicalCardRequestsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.PhysicalCardRequest, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.PhysicalCardRequest), args.Error(1)
}

func (m *MockPhysicalCardRepository) UpdatePhysicalCardRequest(ctx context.Context, q repository.DBExecutor, req *domain.PhysicalCardRequest) error {
	args := m.Called(ctx, q, req)
	return args.Error(0)
}

// MockConverter is a mock implementation of rates.Converter.
type MockConverter struct {
	mock.Mock
}

func (m *MockConverter) Convert(ctx context.Context, from, to string, amount decimal.Decimal) (rates.Quote, error) {
	args := m.Called(ctx, from, to, amount)
	return args.Get(0).(rates.Quote), args.Error(1)
}
