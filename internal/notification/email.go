// internal/notification/email.go
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// TransactionEmail is everything needed to render a transfer receipt.
type TransactionEmail struct {
	ToEmail       string `json:"to_email" validate:"required,email"`
	Amount        string `json:"amount" validate:"required"`
	SenderName    string `json:"sender_name" validate:"required"`
	SenderEmail   string `json:"sender_email" validate:"required,email"`
	ReceiverName  string `json:"receiver_name" validate:"required"`
	ReceiverEmail string `json:"receiver_email" validate:"required,email"`
	TransactionID string `json:"transaction_id" validate:"required"`
	DateTime      string `json:"date_time" validate:"required"`
	ReceiptURL    string `json:"receipt_url"`
	IsSender      bool   `json:"is_sender"`
}

// Sender delivers transaction receipt emails.
type Sender interface {
	SendTransactionEmail(ctx context.Context, email TransactionEmail) error
}

// EmailSender sends receipts through SendGrid. All credentials and sender
// identity are injected at construction, never embedded as literals.
type EmailSender struct {
	client   *sendgrid.Client
	from     *mail.Email
	logger   *slog.Logger
	disabled bool
}

// NewEmailSender creates a sender with the given API key and from-identity.
// An empty API key disables delivery (emails are logged and dropped), which
// keeps local development working without credentials.
func NewEmailSender(apiKey, fromEmail, fromName string, logger *slog.Logger) *EmailSender {
	return &EmailSender{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromEmail),
		logger:   logger,
		disabled: apiKey == "",
	}
}

// SendTransactionEmail renders and delivers one receipt.
func (s *EmailSender) SendTransactionEmail(ctx context.Context, email TransactionEmail) error {
	subject := fmt.Sprintf("You sent %s", email.Amount)
	if !email.IsSender {
		subject = fmt.Sprintf("You received %s", email.Amount)
	}

	to := mail.NewEmail("", email.ToEmail)
	plain := receiptText(email)
	html := receiptHTML(email)
	message := mail.NewSingleEmail(s.from, subject, to, plain, html)

	if s.disabled {
		s.logger.Info("Email delivery disabled, dropping receipt",
			"to", email.ToEmail, "transaction_id", email.TransactionID)
		return nil
	}

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send transaction email: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("transaction email rejected with status %d", resp.StatusCode)
	}

	s.logger.Info("Transaction email sent",
		"to", email.ToEmail, "transaction_id", email.TransactionID)
	return nil
}

func receiptText(e TransactionEmail) string {
	direction := fmt.Sprintf("You sent %s to %s (%s).", e.Amount, e.ReceiverName, e.ReceiverEmail)
	if !e.IsSender {
		direction = fmt.Sprintf("You received %s from %s (%s).", e.Amount, e.SenderName, e.SenderEmail)
	}
	return fmt.Sprintf("%s\nTransaction: %s\nDate: %s\nReceipt: %s\n",
		direction, e.TransactionID, e.DateTime, e.ReceiptURL)
}

func receiptHTML(e TransactionEmail) string {
	heading := "Payment sent"
	counterparty := fmt.Sprintf("To: <strong>%s</strong> (%s)", e.ReceiverName, e.ReceiverEmail)
	if !e.IsSender {
		heading = "Payment received"
		counterparty = fmt.Sprintf("From: <strong>%s</strong> (%s)", e.SenderName, e.SenderEmail)
	}

	return fmt.Sprintf(`
	<div style="max-width:600px;margin:0 auto;font-family:Helvetica,Arial,sans-serif;">
		<h2 style="color:#1a1f36;">%s</h2>
		<p style="font-size:28px;margin:8px 0;">%s</p>
		<p>%s</p>
		<table style="width:100%%;font-size:14px;color:#4f566b;">
			<tr><td>Transaction</td><td style="text-align:right;">%s</td></tr>
			<tr><td>Date</td><td style="text-align:right;">%s</td></tr>
		</table>
		<p><a href="%s" style="color:#2d68f0;">View receipt</a></p>
		<p style="font-size:12px;color:#8792a2;">Sent on %s</p>
	</div>`,
		heading, e.Amount, counterparty, e.TransactionID, e.DateTime, e.ReceiptURL,
		time.Now().UTC().Format("Jan 2, 2006"))
}
