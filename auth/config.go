package auth

import (
	"fmt"
	"time"

	"veltahq.com/accounts/config"
	"veltahq.com/accounts/token"
)

// LoadTokenConfig builds a token.Config from the configuration system.
// A missing or short JWT_SECRET_KEY is a startup failure, never a silent
// fallback to a weak default.
func LoadTokenConfig() (token.Config, error) {
	secret := config.GetConfig("JWT_SECRET_KEY")
	if secret == "" {
		return token.Config{}, fmt.Errorf("JWT_SECRET_KEY configuration is required")
	}
	if len(secret) < token.MinSecretLength {
		return token.Config{}, fmt.Errorf("JWT_SECRET_KEY must be at least %d bytes", token.MinSecretLength)
	}

	accessTTL, err := time.ParseDuration(config.GetConfigWithDefault("ACCESS_TOKEN_EXPIRY", "15m"))
	if err != nil {
		return token.Config{}, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRY: %w", err)
	}
	refreshTTL, err := time.ParseDuration(config.GetConfigWithDefault("REFRESH_TOKEN_EXPIRY", "720h"))
	if err != nil {
		return token.Config{}, fmt.Errorf("invalid REFRESH_TOKEN_EXPIRY: %w", err)
	}

	return token.Config{
		Secret:     []byte(secret),
		Issuer:     config.GetConfigWithDefault("JWT_ISSUER", "veltahq-accounts"),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}, nil
}
