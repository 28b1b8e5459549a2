// internal/api/handler/transfer.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"payflow-wallet/internal/api/middlewares"
	"payflow-wallet/internal/api/types"
	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/service"
	"payflow-wallet/internal/util"
)

// TransferHandler handles peer-to-peer transfers, balance and history reads.
type TransferHandler struct {
	service service.TransferService
	logger  *slog.Logger
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(svc service.TransferService, logger *slog.Logger) *TransferHandler {
	return &TransferHandler{service: svc, logger: logger}
}

// TransferRequest represents the request body for a transfer with conversion.
// SenderCurrency and RecipientCurrency are accepted for wire compatibility
// with the original client but the persisted balance currencies win.
type TransferRequest struct {
	RecipientID       int64           `json:"recipientId" validate:"required"`
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	Description       *string         `json:"description"`
	SenderCurrency    string          `json:"senderCurrency" validate:"omitempty,len=3"`
	RecipientCurrency string          `json:"recipientCurrency" validate:"omitempty,len=3"`
	IdempotencyKey    *string         `json:"idempotencyKey"`
}

// Transfer handles the transfer-with-conversion request.
// POST /transfer-with-conversion
func (h *TransferHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req TransferRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	result, err := h.service.Transfer(r.Context(), user.ID, service.TransferInput{
		RecipientID:    req.RecipientID,
		Amount:         req.Amount,
		Description:    req.Description,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"transactionId":   result.Transaction.Reference,
		"convertedAmount": result.ConvertedAmount,
		"rate":            result.Rate,
	})
}

// GetBalance handles the balance read for the authenticated user.
// GET /api/balance
func (h *TransferHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	balance, err := h.service.GetBalance(r.Context(), user.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"user_id":  balance.UserID,
		"amount":   balance.Amount,
		"currency": balance.Currency,
	})
}

// GetTransactionHistory handles the paginated history read.
// GET /api/transactions
func (h *TransferHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	limit, offset := parsePagination(r)
	transactions, totalCount, err := h.service.GetTransactionHistory(r.Context(), user.ID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, types.PaginatedResponse[domain.Transaction]{
		Data:       transactions,
		Limit:      limit,
		Offset:     offset,
		TotalCount: totalCount,
	})
}
