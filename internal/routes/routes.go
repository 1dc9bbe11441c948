package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/split-ledger/split_ledger/internal/account"
	"github.com/split-ledger/split_ledger/internal/config"
	"github.com/split-ledger/split_ledger/internal/ledger"
	"github.com/split-ledger/split_ledger/internal/middleware"
	"github.com/split-ledger/split_ledger/internal/query"
	"github.com/split-ledger/split_ledger/internal/settlement"
	"github.com/split-ledger/split_ledger/internal/transfer"
	"github.com/split-ledger/split_ledger/internal/withdraw"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares, initializes the ledger backend, and registers
// all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	RegisterHealthRoutes(app, d)

	validator := account.NewPrefixValidator(d.Cfg.AddressPrefix)

	var store ledger.Store
	if d.DB != nil {
		pg := ledger.NewPostgres(d.DB)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return fmt.Errorf("ensure ledger schema: %w", err)
		}
		store = pg
	} else {
		store = ledger.NewInMemory()
	}

	owner, err := validator.Validate(d.Cfg.OwnerAddress)
	if err != nil {
		return fmt.Errorf("OWNER_ADDRESS: %w", err)
	}
	if err := ledger.EnsureInitialized(context.Background(), store, ledger.InitInput{
		Config:     ledger.Config{Owner: owner, SendFee: d.Cfg.SendFee},
		AllowFunds: d.Cfg.InitAllowFunds,
	}); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}

	settler := settlement.NewLoggerSettler(d.Logger)
	transferSvc := transfer.NewService(store, validator, d.Cfg.Denom)
	withdrawSvc := withdraw.NewService(store, validator, settler, d.Cfg.Denom)
	querySvc := query.NewService(store, validator)

	transferHandler := transfer.NewHandler(transferSvc)
	withdrawHandler := withdraw.NewHandler(withdrawSvc)
	queryHandler := query.NewHandler(querySvc)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	rateLimiter := middleware.RateLimit(d.Cache, d.Cfg.RatePerMinute)
	RegisterTransferRoutes(api, transferHandler, rateLimiter)
	RegisterWithdrawRoutes(api, withdrawHandler, rateLimiter)
	RegisterQueryRoutes(api, queryHandler)

	return nil
}
