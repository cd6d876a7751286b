package config

import "os"

// Config carries everything the process reads from the environment.
// Payment credentials are optional: when absent the dependent endpoints
// are disabled at startup instead of crashing the whole storefront.
type Config struct {
	Addr        string
	DatabaseURL string
	JWTSecret   string

	CoinbaseAPIKey        string
	CoinbaseWebhookSecret string
	CoinbaseAPIURL        string
}

func Load() Config {
	cfg := Config{
		Addr:                  os.Getenv("STOREFRONT_ADDR"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		JWTSecret:             os.Getenv("JWT_SECRET"),
		CoinbaseAPIKey:        os.Getenv("COINBASE_API_KEY"),
		CoinbaseWebhookSecret: os.Getenv("COINBASE_WEBHOOK_SECRET"),
		CoinbaseAPIURL:        os.Getenv("COINBASE_API_URL"),
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.CoinbaseAPIURL == "" {
		cfg.CoinbaseAPIURL = "https://api.commerce.coinbase.com"
	}

	return cfg
}

// PaymentsEnabled reports whether charge creation can work at all.
func (c Config) PaymentsEnabled() bool {
	return c.CoinbaseAPIKey != ""
}

// WebhookEnabled reports whether incoming webhook events can be verified.
func (c Config) WebhookEnabled() bool {
	return c.CoinbaseWebhookSecret != ""
}
