// internal/api/handler/card.go
package handler

import (
	"context"
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

// CardHandler handles the virtual card, its sub-balance, linked funding
// sources, and physical card fulfillment.
type CardHandler struct {
	service service.CardService
	logger  *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(svc service.CardService, logger *slog.Logger) *CardHandler {
	return &CardHandler{service: svc, logger: logger}
}

// Create issues the user's virtual card.
// POST /api/cards
func (h *CardHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	card, err := h.service.CreateCard(r.Context(), user.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, card)
}

// Get retrieves the user's virtual card.
// GET /api/cards
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	card, err := h.service.GetCard(r.Context(), user.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, card)
}

// CardCashRequest represents the request body for moving funds between the
// main balance and the card.
type CardCashRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// AddCash moves funds from the main balance onto the card.
// POST /api/cards/add-cash
func (h *CardHandler) AddCash(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.service.AddCash)
}

// CashOut moves funds from the card back to the main balance.
// POST /api/cards/cash-out
func (h *CardHandler) CashOut(w http.ResponseWriter, r *http.Request) {
	h.moveCash(w, r, h.service.CashOut)
}

// moveCash is the shared request plumbing behind AddCash and CashOut.
func (h *CardHandler) moveCash(w http.ResponseWriter, r *http.Request,
	move func(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.UserCard, error)) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req CardCashRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	card, err := move(r.Context(), user.ID, req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, card)
}

// ListTransactions retrieves the card's audit trail.
// GET /api/cards/transactions
func (h *CardHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	limit, offset := parsePagination(r)
	transactions, err := h.service.ListCardTransactions(r.Context(), user.ID, limit, offset)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": transactions})
}

// LinkCardRequest represents the request body for linking a funding source.
type LinkCardRequest struct {
	CardNumber string `json:"card_number" validate:"required"`
	ExpiryDate string `json:"expiry_date" validate:"required"`
	HolderName string `json:"holder_name" validate:"required"`
}

// Link stores an external funding source for the user.
// POST /api/cards/linked
func (h *CardHandler) Link(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req LinkCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	card, err := h.service.LinkCard(r.Context(), user.ID, service.LinkCardInput{
		CardNumber: req.CardNumber,
		ExpiryDate: req.ExpiryDate,
		HolderName: req.HolderName,
	})
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, card)
}

// ListLinked retrieves the user's linked funding sources.
// GET /api/cards/linked
func (h *CardHandler) ListLinked(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	cards, err := h.service.ListLinkedCards(r.Context(), user.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": cards})
}

// Unlink removes a linked funding source owned by the user.
// DELETE /api/cards/linked/{cardID}
func (h *CardHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	cardID, err := strconv.ParseInt(chi.URLParam(r, "cardID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	if err := h.service.UnlinkCard(r.Context(), user.ID, cardID); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PhysicalCardRequestBody represents the request body for ordering a physical card.
type PhysicalCardRequestBody struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// RequestPhysical starts the physical card fulfillment workflow.
// POST /api/cards/physical
func (h *CardHandler) RequestPhysical(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	var req PhysicalCardRequestBody
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	request, err := h.service.RequestPhysicalCard(r.Context(), user.ID, req.ShippingAddress)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusCreated, request)
}

// ListPhysical retrieves the user's physical card requests.
// GET /api/cards/physical
func (h *CardHandler) ListPhysical(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		respondWithError(h.logger, w, util.ErrUnauthorized)
		return
	}

	requests, err := h.service.ListPhysicalCardRequests(r.Context(), user.ID)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{"data": requests})
}

// UpdatePhysicalStatusRequest represents the admin fulfillment update body.
type UpdatePhysicalStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=processing shipped delivered"`
}

// UpdatePhysicalStatus moves a fulfillment request forward (admin only).
// PATCH /api/admin/physical-cards/{requestID}
func (h *CardHandler) UpdatePhysicalStatus(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	var req UpdatePhysicalStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	request, err := h.service.UpdatePhysicalCardStatus(r.Context(), requestID, domain.PhysicalCardStatus(req.Status))
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	respondWithJSON(h.logger, w, http.StatusOK, request)
}
