// internal/api/handler/withdrawal.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"payflow-wallet/internal/api/middlewares"
	"payflow-wallet/internal/domain"
	"payflow-wallet/internal/service"
	"payflow-wallet/internal/util"
)

// WithdrawalHandler handles user withdrawal requests and the admin settlement flow.
type WithdrawalHandler struct {
	service service.WithdrawalService
	logger  *slog.Logger
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(svc service.WithdrawalService, logger *slog.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{service: svc, logger: logger}
}

// CreateWithdrawalRequest represents the request body for a withdrawal.
type CreateWithdrawalRequest struct {
	Amount            decimal.Decimal `json:"amount" validate:"required"`
	BankName          string          `json:"bank_name" validate:"required"`
	AccountNumber     string          `json:"account_number" validate:"required"`
	RoutingNumber     string          `json:"routing_number" validate:"required"`
	AccountHolderName string          `json:"account_holder_name" validate:"required"`
}

// Create handles a new withdrawal request.
// POST /api/withdrawals
func (h *WithdrawalHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req CreateWithdrawalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	withdrawal, err := h.service.RequestWithdrawal(r.Context(), user.ID, service.WithdrawalInput{
		Amount:            req.Amount,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		RoutingNumber:     req.RoutingNumber,
		AccountHolderName: req.AccountHolderName,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusCreated, withdrawal)
}

// ListMine handles the user's withdrawal history read.
// GET /api/withdrawals
func (h *WithdrawalHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	withdrawals, err := h.service.ListUserWithdrawals(r.Context(), user.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": withdrawals})
}

// ListPending handles the admin work queue read.
// GET /api/admin/withdrawals
func (h *WithdrawalHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	withdrawals, err := h.service.ListPendingWithdrawals(r.Context())
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": withdrawals})
}

// ProcessWithdrawalRequest represents the admin settlement body.
type ProcessWithdrawalRequest struct {
	Status     string  `json:"status" validate:"required,oneof=successful declined failed"`
	AdminNotes *string `json:"admin_notes"`
}

// Process handles the admin settlement of a pending withdrawal.
// POST /api/admin/withdrawals/{withdrawalID}/process
func (h *WithdrawalHandler) Process(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "withdrawalID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	var req ProcessWithdrawalRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	withdrawal, err := h.service.ProcessWithdrawal(r.Context(), id, domain.WithdrawalStatus(req.Status), req.AdminNotes)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, withdrawal)
}
