package main

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oladizz/storefront-backend/internal/cart"
	"github.com/oladizz/storefront-backend/internal/category"
	"github.com/oladizz/storefront-backend/internal/charge"
	"github.com/oladizz/storefront-backend/internal/checkout"
	"github.com/oladizz/storefront-backend/internal/config"
	"github.com/oladizz/storefront-backend/internal/currency"
	"github.com/oladizz/storefront-backend/internal/logger"
	"github.com/oladizz/storefront-backend/internal/order"
	"github.com/oladizz/storefront-backend/internal/product"
	"github.com/oladizz/storefront-backend/internal/user"
	"github.com/oladizz/storefront-backend/internal/webhook"
)

func main() {
	_ = godotenv.Load()
	logger.Init()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	db := mustOpenDB(cfg.DatabaseURL)
	defer db.Close()
	ensureSchema(db)

	// payment path: missing credentials disable the dependent endpoints
	// instead of crashing the storefront
	if !cfg.PaymentsEnabled() {
		logger.Warn("COINBASE_API_KEY is not set; checkout payment endpoints are disabled")
	}
	if !cfg.WebhookEnabled() {
		logger.Warn("COINBASE_WEBHOOK_SECRET is not set; incoming webhooks will be rejected")
	}

	chargeClient := charge.NewClient(cfg.CoinbaseAPIKey, cfg.CoinbaseAPIURL)
	chargeService := charge.NewService(chargeClient)

	userService := user.NewService(user.NewPostgresRepository(db))
	userHandler := user.NewHandler(userService, cfg.JWTSecret)

	productService := product.NewService(product.NewPostgresRepository(db))
	productHandler := product.NewHandler(productService)

	categoryHandler := category.NewHandler(category.NewService(category.NewPostgresRepository(db)))
	currencyHandler := currency.NewHandler()

	cartService := cart.NewService(cart.NewPostgresRepository(db))
	cartHandler := cart.NewHandler(cartService)

	orderService := order.NewService(order.NewPostgresRepository(db))
	orderHandler := order.NewHandler(orderService)

	checkoutService := checkout.NewService(chargeService, cartService, orderService, userService)
	checkoutHandler := checkout.NewHandler(checkoutService, cfg.PaymentsEnabled())

	webhookHandler := webhook.NewHandler(cfg.CoinbaseWebhookSecret, webhook.NewPostgresRepository(db))

	// public routes; the webhook authenticates via its signature, not JWT
	userHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	currencyHandler.RegisterPublicRoutes(app)
	webhookHandler.Register(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkoutHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	logger.Info("starting http", "addr", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Error("http server crashed", "err", err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-CC-Webhook-Signature",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	if dbURL == "" {
		panic("DATABASE_URL is not set")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}

	if err := db.Ping(); err != nil {
		panic(err)
	}

	return db
}

func ensureSchema(db *sql.DB) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			"userId" SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			name TEXT,
			cart jsonb NOT NULL DEFAULT '{}',
			"createdAt" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS product (
			product_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price numeric NOT NULL DEFAULT 0,
			category TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			details TEXT[] NOT NULL DEFAULT '{}',
			materials TEXT NOT NULL DEFAULT '',
			care_instructions TEXT NOT NULL DEFAULT '',
			dimensions TEXT NOT NULL DEFAULT '',
			created_at TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS category (
			category_id SERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			"userId" INT NOT NULL,
			"userName" TEXT NOT NULL DEFAULT '',
			items jsonb NOT NULL DEFAULT '[]',
			total numeric NOT NULL DEFAULT 0,
			currency TEXT NOT NULL DEFAULT 'USD',
			date timestamptz NOT NULL,
			status TEXT NOT NULL,
			"shippingAddress" jsonb NOT NULL DEFAULT '{}',
			"trackingNumber" TEXT NOT NULL DEFAULT '',
			"coinbaseChargeId" TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS payment_events (
			event_id TEXT PRIMARY KEY,
			charge_id TEXT NOT NULL,
			network TEXT NOT NULL DEFAULT '',
			crypto_amount TEXT NOT NULL DEFAULT '',
			crypto_currency TEXT NOT NULL DEFAULT '',
			received_at timestamptz NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			panic(err)
		}
	}
}
