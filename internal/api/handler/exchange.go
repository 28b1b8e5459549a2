// internal/api/handler/exchange.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"payflow-wallet/internal/rates"
	"payflow-wallet/internal/util"
)

// ExchangeHandler exposes the exchange rate gateway.
type ExchangeHandler struct {
	converter rates.Converter
	logger    *slog.Logger
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(converter rates.Converter, logger *slog.Logger) *ExchangeHandler {
	return &ExchangeHandler{converter: converter, logger: logger}
}

// ExchangeRateRequest represents the request body for a conversion quote.
type ExchangeRateRequest struct {
	From   string          `json:"from" validate:"required,len=3"`
	To     string          `json:"to" validate:"required,len=3"`
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

// GetExchangeRate handles the conversion quote request.
// POST /get-exchange-rate
func (h *ExchangeHandler) GetExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req ExchangeRateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondWithError(h.logger, w, util.ErrInvalidInput)
		return
	}

	quote, err := h.converter.Convert(r.Context(), req.From, req.To, req.Amount)
	if err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"convertedAmount": quote.ConvertedAmount,
		"rate":            quote.Rate,
	})
}
