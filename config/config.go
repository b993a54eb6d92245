package config

import (
    "encoding/json"
    "log"
    "os"
    "strconv"

    "github.com/joho/godotenv"

    "donate-payment-api/database"
    "donate-payment-api/services/email"
    "donate-payment-api/services/payment"
)

type Config struct {
    Database   database.DatabaseConfig
    Braintree  payment.BraintreeConfig
    Currencies map[string]payment.CurrencyConfig
    SMTP       email.SMTPConfig
    Server     ServerConfig
    Session    SessionConfig
    Redis      RedisConfig
    JWT        JWTConfig
}

type ServerConfig struct {
    Port string
}

type SessionConfig struct {
    Secret string
    Domain string
    MaxAge int
}

type RedisConfig struct {
    URL               string
    WorkerConcurrency int
}

type JWTConfig struct {
    Secret string
    Issuer string
}

func Load() *Config {
    if err := godotenv.Load(); err != nil {
        log.Printf("Warning: Error loading .env file: %v", err)
    }

    workerConcurrency := 2
    if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            workerConcurrency = n
        }
    }

    sessionMaxAge := 3600
    if v := os.Getenv("SESSION_MAX_AGE"); v != "" {
        if n, err := strconv.Atoi(v); err == nil {
            sessionMaxAge = n
        }
    }

    cfg := &Config{
        Database: database.DatabaseConfig{
            Host:     os.Getenv("DB_HOST"),
            User:     os.Getenv("DB_USER"),
            Password: os.Getenv("DB_PASSWORD"),
            DBName:   os.Getenv("DB_NAME"),
        },
        Braintree: payment.BraintreeConfig{
            MerchantID:  os.Getenv("BRAINTREE_MERCHANT_ID"),
            PublicKey:   os.Getenv("BRAINTREE_PUBLIC_KEY"),
            PrivateKey:  os.Getenv("BRAINTREE_PRIVATE_KEY"),
            Environment: os.Getenv("BRAINTREE_ENVIRONMENT"),
        },
        Currencies: loadCurrencies(),
        SMTP: email.SMTPConfig{
            Host:     os.Getenv("SMTP_HOST"),
            Port:     os.Getenv("SMTP_PORT"),
            Username: os.Getenv("SMTP_USER"),
            Password: os.Getenv("SMTP_PASSWORD"),
        },
        Server: ServerConfig{
            Port: os.Getenv("SERVER_PORT"),
        },
        Session: SessionConfig{
            Secret: os.Getenv("SESSION_SECRET"),
            Domain: os.Getenv("SESSION_DOMAIN"),
            MaxAge: sessionMaxAge,
        },
        Redis: RedisConfig{
            URL:               os.Getenv("REDIS_URL"),
            WorkerConcurrency: workerConcurrency,
        },
        JWT: JWTConfig{
            Secret: os.Getenv("JWT_SECRET"),
            Issuer: "donate-payment-api",
        },
    }

    if cfg.Redis.URL == "" {
        cfg.Redis.URL = "redis://localhost:6379/0"
        log.Printf("Warning: REDIS_URL not set, using default: %s", cfg.Redis.URL)
    }

    if cfg.Server.Port == "" {
        cfg.Server.Port = "8080"
    }

    return cfg
}

// loadCurrencies reads the per-currency gateway wiring from the
// CURRENCIES env var (JSON map keyed by currency code) and falls back
// to a usd-only default.
func loadCurrencies() map[string]payment.CurrencyConfig {
    currencies := map[string]payment.CurrencyConfig{
        "usd": {
            Code:              "usd",
            MinimumAmount:     2,
            MerchantAccountID: "usd-ac",
            PlanID:            "usd-plan",
            PaypalPlanID:      "usd",
        },
    }

    raw := os.Getenv("CURRENCIES")
    if raw == "" {
        return currencies
    }

    var loaded map[string]payment.CurrencyConfig
    if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
        log.Printf("Warning: invalid CURRENCIES config, using defaults: %v", err)
        return currencies
    }

    for code, cfg := range loaded {
        cfg.Code = code
        currencies[code] = cfg
    }
    return currencies
}
