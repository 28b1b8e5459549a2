// internal/app.go
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"

	router "payflow-wallet/internal/api"
	"payflow-wallet/internal/api/handler"
	"payflow-wallet/internal/config"
	"payflow-wallet/internal/notification"
	"payflow-wallet/internal/rates"
	"payflow-wallet/internal/repository"
	"payflow-wallet/internal/repository/postgres"
	"payflow-wallet/internal/service"
	"payflow-wallet/internal/util"
	"payflow-wallet/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger *slog.Logger
	DB     *sqlx.DB

	// Repositories
	UserRepository        repository.UserRepository
	BalanceRepository     repository.BalanceRepository
	TransactionRepository repository.TransactionRepository
	WithdrawalRepository  repository.WithdrawalRepository
	CardRepository        repository.CardRepository
	LinkedCardRepository  repository.LinkedCardRepository
	PhysicalRepository    repository.PhysicalCardRepository

	// Services
	JWTService        *service.JWTService
	AuthService       service.AuthService
	TransferService   service.TransferService
	WithdrawalService service.WithdrawalService
	CardService       service.CardService

	// External clients
	RateConverter rates.Converter
	EmailSender   notification.Sender

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{}
}

// Initialize initializes all application components.
func (app *Application) Initialize(ctx context.Context) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger()
	app.Logger = util.GetLogger()
	app.Logger.Info("Application configuration loaded successfully.")

	// 3. Connect to Database and apply migrations
	database, err := db.NewPostgresDB(app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info("Database connection established.")

	if err := db.RunMigrations(app.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.Logger.Info("Database migrations applied.")

	// 4. Initialize Repositories
	app.UserRepository = postgres.NewUserRepository()
	app.BalanceRepository = postgres.NewBalanceRepository()
	app.TransactionRepository = postgres.NewTransactionRepository()
	app.WithdrawalRepository = postgres.NewWithdrawalRepository()
	app.CardRepository = postgres.NewCardRepository()
	app.LinkedCardRepository = postgres.NewLinkedCardRepository()
	app.PhysicalRepository = postgres.NewPhysicalCardRepository()
	app.Logger.Info("Repositories initialized.")

	// 5. Initialize external clients
	app.RateConverter = rates.NewClient(app.Config.RateProviderURL)
	app.EmailSender = notification.NewEmailSender(
		app.Config.SendgridAPIKey, app.Config.EmailFrom, app.Config.EmailFromName, app.Logger)

	// 6. Initialize Services
	// Pass the concrete db.BeginTx, db.CommitTx, db.RollbackTx functions from pkg/db
	app.JWTService = service.NewJWTService(app.Config.JWTSecret)
	app.AuthService = service.NewAuthService(
		app.DB, // This is the DBTxBeginner
		app.DB, // This is the DBExecutor
		app.UserRepository,
		app.BalanceRepository,
		app.JWTService,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.TransferService = service.NewTransferService(
		app.DB,
		app.DB,
		app.BalanceRepository,
		app.TransactionRepository,
		app.RateConverter,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.WithdrawalService = service.NewWithdrawalService(
		app.DB,
		app.DB,
		app.BalanceRepository,
		app.WithdrawalRepository,
		app.TransactionRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.CardService = service.NewCardService(
		app.DB,
		app.DB,
		app.BalanceRepository,
		app.CardRepository,
		app.LinkedCardRepository,
		app.PhysicalRepository,
		db.BeginTx,
		db.CommitTx,
		db.RollbackTx,
	)
	app.Logger.Info("Services initialized.")

	// 7. Initialize HTTP Handlers and Router
	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(app.AuthService, app.Logger),
		Exchange:   handler.NewExchangeHandler(app.RateConverter, app.Logger),
		Transfer:   handler.NewTransferHandler(app.TransferService, app.Logger),
		Withdrawal: handler.NewWithdrawalHandler(app.WithdrawalService, app.Logger),
		Card:       handler.NewCardHandler(app.CardService, app.Logger),
		Email:      handler.NewEmailHandler(app.EmailSender, app.Logger),
	}
	app.HTTPHandler = router.NewRouter(handlers, app.JWTService, app.AuthService, app.Logger)
	app.Logger.Info("HTTP router and handlers initialized.")

	return nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info("Shutting down application...")
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Failed to close database connection", "error", err)
			return fmt.Errorf("failed to close database connection: %w", err)
		}
		app.Logger.Info("Database connection closed.")
	}
	app.Logger.Info("Application shut down gracefully.")
	return nil
}
