// internal/service/card_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"

	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/util"
	"payflow-wallet/pkg/db"
)

const (
	cardNumberAlphabet = "0123456789"
	cardNumberLength   = 16
	cardCVVLength      = 3
	cardValidYears     = 4
)

// LinkCardInput is the funding-source metadata supplied by the user. Only the
// brand and last four digits of the number are persisted.
type LinkCardInput struct {
	CardNumber string
	ExpiryDate string
	HolderName string
}

// CardService owns the virtual card, its sub-balance movements, linked
// funding sources, and physical card fulfillment.
type CardService interface {
	CreateCard(ctx context.Context, userID int64) (*domain.UserCard, error)
	GetCard(ctx context.Context, userID int64) (*domain.UserCard, error)
	// AddCash moves amount from the main balance onto the card.
	AddCash(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.UserCard, error)
	// CashOut moves amount from the card back to the main balance.
	CashOut(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.UserCard, error)
	ListCardTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.CardTransaction, error)

	LinkCard(ctx context.Context, userID int64, input LinkCardInput) (*domain.LinkedCard, error)
	ListLinkedCards(ctx context.Context, userID int64) ([]domain.LinkedCard, error)
	UnlinkCard(ctx context.Context, userID, cardID int64) error

	RequestPhysicalCard(ctx context.Context, userID int64, shippingAddress string) (*domain.PhysicalCardRequest, error)
	ListPhysicalCardRequests(ctx context.Context, userID int64) ([]domain.PhysicalCardRequest, error)
	// UpdatePhysicalCardStatus drives the fulfillment workflow (admin only).
	UpdatePhysicalCardStatus(ctx context.Context, requestID int64, status domain.PhysicalCardStatus) (*domain.PhysicalCardRequest, error)
}

type cardService struct {
	dbBeginner     db.DBTxBeginner
	dbExecutor     repository.DBExecutor
	balanceRepo    repository.BalanceRepository
	cardRepo       repository.CardRepository
	linkedCardRepo repository.LinkedCardRepository
	physicalRepo   repository.PhysicalCardRepository
	beginTx        db.BeginTxFunc
	commitTx       db.CommitTxFunc
	rollbackTx     db.RollbackTxFunc
}

// NewCardService creates a new instance of CardService.
func NewCardService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	balanceRepo repository.BalanceRepository,
	cardRepo repository.CardRepository,
	linkedCardRepo repository.LinkedCardRepository,
	physicalRepo repository.PhysicalCardRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
) CardService {
	return &cardService{
		dbBeginner:     dbBeginner,
		dbExecutor:     dbExecutor,
		balanceRepo:    balanceRepo,
		cardRepo:       cardRepo,
		linkedCardRepo: linkedCardRepo,
		physicalRepo:   physicalRepo,
		beginTx:        beginTx,
		commitTx:       commitTx,
		rollbackTx:     rollbackTx,
	}
}

// CreateCard issues the user's virtual card with a zero sub-balance in the
// currency of their main balance. One card per user.
func (s *cardService) CreateCard(ctx context.Context, userID int64) (*domain.UserCard, error) {
	balance, err := s.balanceRepo.GetBalanceByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("create card: failed to get balance: %w", err)
	}

	number, err := gonanoid.Generate(cardNumberAlphabet, cardNumberLength)
	if err != nil {
		return nil, fmt.Errorf("create card: failed to generate card number: %w", err)
	}
	cvv, err := gonanoid.Generate(cardNumberAlphabet, cardCVVLength)
	if err != nil {
		return nil, fmt.Errorf("create card: failed to generate cvv: %w", err)
	}

	now := time.Now().UTC()
	card := &domain.UserCard{
		UserID:     userID,
		CardNumber: number,
		ExpiryDate: now.AddDate(cardValidYears, 0, 0).Format("01/06"),
		CVV:        cvv,
		Balance:    decimal.Zero,
		Currency:   balance.Currency,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.cardRepo.CreateCard(ctx, s.dbExecutor, card); err != nil {
		return nil, err
	}
	return card, nil
}

// GetCard retrieves the user's virtual card.
func (s *cardService) GetCard(ctx context.Context, userID int64) (*domain.UserCard, error) {
	return s.cardRepo.GetCardByUserID(ctx, s.dbExecutor, userID)
}

// AddCash moves funds from the main balance onto the card. Source checked and
// decremented, destination incremented, audit row written, all in one
// database transaction; main + card total is conserved.
func (s *cardService) AddCash(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.UserCard, error) {
	return s.moveCash(ctx, userID, amount, domain.CardTransactionAddCash)
}

// CashOut moves funds from the card back to the main balance.
func (s *cardService) CashOut(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.UserCard, error) {
	return s.moveCash(ctx, userID, amount, domain.CardTransactionCashOut)
}

// moveCash is the shared atomic procedure behind AddCash and CashOut. The
// balance row is always locked before the card row, so the two directions
// cannot deadlock each other for the same user.
func (s *cardService) moveCash(ctx context.Context, userID int64, amount decimal.Decimal, direction domain.CardTransactionType) (*domain.UserCard, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, util.ErrInvalidInput
	}

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("card cash move: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("card cash move: transaction controller does not implement DBExecutor")
	}

	balance, err := s.balanceRepo.GetBalanceForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("card cash move: failed to lock balance: %w", err)
	}
	card, err := s.cardRepo.GetCardForUpdate(ctx, txExecutor, userID)
	if err != nil {
		return nil, fmt.Errorf("card cash move: failed to lock card: %w", err)
	}

	// Authoritative source check, under the locks.
	switch direction {
	case domain.CardTransactionAddCash:
		if balance.Amount.LessThan(amount) {
			return nil, util.ErrInsufficientFunds
		}
	case domain.CardTransactionCashOut:
		if card.Balance.LessThan(amount) {
			return nil, util.ErrInsufficientFunds
		}
	default:
		return nil, util.ErrInvalidInput
	}

	balanceDelta, cardDelta := amount.Neg(), amount
	if direction == domain.CardTransactionCashOut {
		balanceDelta, cardDelta = amount, amount.Neg()
	}

	if err := s.balanceRepo.AddToBalance(ctx, txExecutor, userID, balanceDelta); err != nil {
		return nil, fmt.Errorf("card cash move: failed to update balance: %w", err)
	}
	if err := s.cardRepo.AddToCardBalance(ctx, txExecutor, card.ID, cardDelta); err != nil {
		return nil, fmt.Errorf("card cash move: failed to update card balance: %w", err)
	}

	audit := &domain.CardTransaction{
		CardID:    card.ID,
		UserID:    userID,
		Amount:    amount,
		Type:      direction,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.cardRepo.CreateCardTransaction(ctx, txExecutor, audit); err != nil {
		return nil, fmt.Errorf("card cash move: failed to record audit row: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("card cash move: failed to commit transaction: %w", err)
	}

	card.Balance = card.Balance.Add(cardDelta)
	return card, nil
}

// ListCardTransactions retrieves the audit trail for the user's card.
func (s *cardService) ListCardTransactions(ctx context.Context, userID int64, limit, offset int) ([]domain.CardTransaction, error) {
	card, err := s.cardRepo.GetCardByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, err
	}
	return s.cardRepo.ListCardTransactions(ctx, s.dbExecutor, card.ID, limit, offset)
}

// LinkCard stores funding-source metadata. The full number is reduced to
// brand + last four before it touches the database.
func (s *cardService) LinkCard(ctx context.Context, userID int64, input LinkCardInput) (*domain.LinkedCard, error) {
	digits := strings.ReplaceAll(strings.TrimSpace(input.CardNumber), " ", "")
	if len(digits) < 12 || len(digits) > 19 {
		return nil, util.ErrInvalidInput
	}
	if input.ExpiryDate == "" || input.HolderName == "" {
		return nil, util.ErrInvalidInput
	}

	card := &domain.LinkedCard{
		UserID:     userID,
		Brand:      cardBrand(digits),
		LastFour:   digits[len(digits)-4:],
		ExpiryDate: input.ExpiryDate,
		HolderName: input.HolderName,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.linkedCardRepo.CreateLinkedCard(ctx, s.dbExecutor, card); err != nil {
		return nil, err
	}
	return card, nil
}

// ListLinkedCards retrieves the user's linked funding sources.
func (s *cardService) ListLinkedCards(ctx context.Context, userID int64) ([]domain.LinkedCard, error) {
	return s.linkedCardRepo.ListLinkedCardsByUserID(ctx, s.dbExecutor, userID)
}

// UnlinkCard removes a linked funding source owned by the user.
func (s *cardService) UnlinkCard(ctx context.Context, userID, cardID int64) error {
	return s.linkedCardRepo.DeleteLinkedCard(ctx, s.dbExecutor, cardID, userID)
}

// RequestPhysicalCard starts the fulfillment workflow for the user's virtual card.
func (s *cardService) RequestPhysicalCard(ctx context.Context, userID int64, shippingAddress string) (*domain.PhysicalCardRequest, error) {
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, util.ErrInvalidInput
	}
	card, err := s.cardRepo.GetCardByUserID(ctx, s.dbExecutor, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	req := &domain.PhysicalCardRequest{
		UserID:          userID,
		CardID:          card.ID,
		ShippingAddress: shippingAddress,
		Status:          domain.PhysicalCardStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.physicalRepo.CreatePhysicalCardRequest(ctx, s.dbExecutor, req); err != nil {
		return nil, err
	}
	return req, nil
}

// ListPhysicalCardRequests retrieves the user's fulfillment requests.
func (s *cardService) ListPhysicalCardRequests(ctx context.Context, userID int64) ([]domain.PhysicalCardRequest, error) {
	return s.physicalRepo.ListPhysicalCardRequestsByUserID(ctx, s.dbExecutor, userID)
}

// UpdatePhysicalCardStatus moves a request forward through the fulfillment
// workflow. Shipped and delivered timestamps are set the first time the
// matching stage is reached and are never cleared afterwards.
func (s *cardService) UpdatePhysicalCardStatus(ctx context.Context, requestID int64, status domain.PhysicalCardStatus) (*domain.PhysicalCardRequest, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("update physical card: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("update physical card: transaction controller does not implement DBExecutor")
	}

	req, err := s.physicalRepo.GetPhysicalCardRequestForUpdate(ctx, txExecutor, requestID)
	if err != nil {
		return nil, fmt.Errorf("update physical card: failed to lock request %d: %w", requestID, err)
	}

	if !req.Status.CanTransitionTo(status) {
		return nil, util.ErrInvalidTransition
	}

	now := time.Now().UTC()
	req.Status = status
	req.UpdatedAt = now
	if (status == domain.PhysicalCardStatusShipped || status == domain.PhysicalCardStatusDelivered) && req.ShippedAt == nil {
		req.ShippedAt = &now
	}
	if status == domain.PhysicalCardStatusDelivered && req.DeliveredAt == nil {
		req.DeliveredAt = &now
	}

	if err := s.physicalRepo.UpdatePhysicalCardRequest(ctx, txExecutor, req); err != nil {
		return nil, fmt.Errorf("update physical card: failed to update request %d: %w", requestID, err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("update physical card: failed to commit transaction: %w", err)
	}
	return req, nil
}

// cardBrand infers the network from the leading digit, the way the original
// client displayed linked cards.
func cardBrand(digits string) string {
	switch digits[0] {
	case '4':
		return "Visa"
	case '5':
		return "Mastercard"
	case '3':
		return "American Express"
	case '6':
		return "Discover"
	default:
		return "Card"
	}
}
