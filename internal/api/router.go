// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"payflow-wallet/internal/api/handler"
	"payflow-wallet/internal/api/middlewares"
	"payflow-wallet/internal/service"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Auth       *handler.AuthHandler
	Exchange   *handler.ExchangeHandler
	Transfer   *handler.TransferHandler
	Withdrawal *handler.WithdrawalHandler
	Card       *handler.CardHandler
	Email      *handler.EmailHandler
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(h Handlers, jwtService *service.JWTService, authService service.AuthService, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public endpoints
	r.Post("/api/register", h.Auth.Register)
	r.Post("/api/login", h.Auth.Login)
	r.Post("/get-exchange-rate", h.Exchange.GetExchangeRate)
	r.Post("/send-transaction-email", h.Email.SendTransactionEmail)

	authenticate := middlewares.Authenticator(jwtService, authService)

	// Transfer is a separate top-level endpoint as it involves two balances
	r.With(authenticate).Post("/transfer-with-conversion", h.Transfer.Transfer)

	// Authenticated API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/balance", h.Transfer.GetBalance)
		r.Get("/transactions", h.Transfer.GetTransactionHistory)

		r.Route("/withdrawals", func(r chi.Router) {
			r.Post("/", h.Withdrawal.Create)
			r.Get("/", h.Withdrawal.ListMine)
		})

		r.Route("/cards", func(r chi.Router) {
			r.Post("/", h.Card.Create)
			r.Get("/", h.Card.Get)
			r.Post("/add-cash", h.Card.AddCash)
			r.Post("/cash-out", h.Card.CashOut)
			r.Get("/transactions", h.Card.ListTransactions)

			r.Route("/linked", func(r chi.Router) {
				r.Post("/", h.Card.Link)
				r.Get("/", h.Card.ListLinked)
				r.Delete("/{cardID}", h.Card.Unlink)
			})

			r.Route("/physical", func(r chi.Router) {
				r.Post("/", h.Card.RequestPhysical)
				r.Get("/", h.Card.ListPhysical)
			})
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Use(middlewares.RequireAdmin)

			r.Get("/withdrawals", h.Withdrawal.ListPending)
			r.Post("/withdrawals/{withdrawalID}/process", h.Withdrawal.Process)
			r.Patch("/physical-cards/{requestID}", h.Card.UpdatePhysicalStatus)
		})
	})

	return r
}
