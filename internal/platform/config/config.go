package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	// Storage
	DataDir string

	// Trading
	BaseCurrency string

	// Rate sources
	FiatCurrencies     []string
	CryptoCurrencies   []string
	CryptoIDMap        map[string]string
	CoinGeckoURL       string
	ExchangeRateAPIURL string
	ExchangeRateAPIKey string
	HTTPTimeout        time.Duration
	// SourceRateLimit is an outbound request quota per source, in
	// ulule/limiter formatted notation (e.g. "10-M" for 10 per minute).
	SourceRateLimit string

	// Sessions
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
}

// defaultCryptoIDMap maps currency codes to CoinGecko coin ids.
var defaultCryptoIDMap = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"XRP": "ripple",
	"BNB": "binancecoin",
	"SOL": "solana",
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("BASE_CURRENCY", "USD")
	viper.SetDefault("FIAT_CURRENCIES", []string{"EUR", "GBP", "JPY", "RUB"})
	viper.SetDefault("CRYPTO_CURRENCIES", []string{"BTC", "ETH", "XRP", "BNB", "SOL"})
	viper.SetDefault("COINGECKO_URL", "https://api.coingecko.com/api/v3/simple/price")
	viper.SetDefault("EXCHANGERATE_API_KEY", "")
	viper.SetDefault("HTTP_TIMEOUT", "10s")
	viper.SetDefault("SOURCE_RATE_LIMIT", "10-M")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "valutatrade-hub")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DataDir = viper.GetString("DATA_DIR")
	cfg.BaseCurrency = viper.GetString("BASE_CURRENCY")
	cfg.FiatCurrencies = viper.GetStringSlice("FIAT_CURRENCIES")
	cfg.CryptoCurrencies = viper.GetStringSlice("CRYPTO_CURRENCIES")
	cfg.CryptoIDMap = defaultCryptoIDMap
	cfg.CoinGeckoURL = viper.GetString("COINGECKO_URL")
	cfg.SourceRateLimit = viper.GetString("SOURCE_RATE_LIMIT")

	// The keyed v6 endpoint is used when an API key is configured; the open
	// endpoint needs no key but serves the same envelope.
	cfg.ExchangeRateAPIKey = viper.GetString("EXCHANGERATE_API_KEY")
	if url := viper.GetString("EXCHANGERATE_API_URL"); url != "" {
		cfg.ExchangeRateAPIURL = url
	} else if cfg.ExchangeRateAPIKey != "" {
		cfg.ExchangeRateAPIURL = "https://v6.exchangerate-api.com/v6/" + cfg.ExchangeRateAPIKey + "/latest/"
	} else {
		cfg.ExchangeRateAPIURL = "https://open.er-api.com/v6/latest/"
	}

	timeoutStr := viper.GetString("HTTP_TIMEOUT")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		timeout = 10 * time.Second
		log.Printf("Warning: Invalid value for HTTP_TIMEOUT (%q). Defaulting to %s.\n", timeoutStr, timeout)
	}
	cfg.HTTPTimeout = timeout

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION (%q). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	return cfg, nil
}
