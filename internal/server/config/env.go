package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from the process environment. An optional
// .env file is loaded first; a missing file is not an error.
//
// Recognized variables:
//
//	FEEDLINE_ADDR          HTTP bind address
//	FEEDLINE_DATABASE_DSN  PostgreSQL DSN
//	FEEDLINE_SECRET_KEY    JWT HMAC secret
//	FEEDLINE_BCRYPT_COST   bcrypt work factor
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("FEEDLINE_ADDR"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("FEEDLINE_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("FEEDLINE_SECRET_KEY"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("FEEDLINE_BCRYPT_COST"); v != "" {
		if cost, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = cost
		}
	}
}
