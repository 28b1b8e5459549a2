// internal/api/handler/email.go
package handler

import (
	"log/slog"
	"net/http"

	"payflow-wallet/internal/notification"
)

// EmailHandler exposes transaction receipt delivery.
type EmailHandler struct {
	sender notification.Sender
	logger *slog.Logger
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(sender notification.Sender, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{sender: sender, logger: logger}
}

// SendTransactionEmail delivers one transfer receipt.
// POST /send-transaction-email
func (h *EmailHandler) SendTransactionEmail(w http.ResponseWriter, r *http.Request) {
	var req notification.TransactionEmail
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(h.logger, w, err)
		return
	}

	if err := h.sender.SendTransactionEmail(r.Context(), req); err != nil {
		h.logger.Error("Failed to send transaction email", "error", err, "to", req.ToEmail)
		respondWithJSON(h.logger, w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Failed to send email",
		})
		return
	}

	respondWithJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    map[string]string{"message": "Email sent"},
	})
}
