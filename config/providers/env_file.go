package providers

import (
	"context"
	"fmt"
	"os"
)

// EnvFileProvider reads configuration from environment variables.
type EnvFileProvider struct{}

// NewEnvFileProvider creates a new environment variable provider.
func NewEnvFileProvider(_ ProviderConfig) (ConfigProvider, error) {
	return &EnvFileProvider{}, nil
}

func (ep *EnvFileProvider) Get(_ context.Context, key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("environment variable %q not set", key)
	}
	return value, nil
}

func (ep *EnvFileProvider) GetWithDefault(_ context.Context, key, defaultValue string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}
	return defaultValue, nil
}
