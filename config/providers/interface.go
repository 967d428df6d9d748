package providers

import (
	"context"
	"fmt"
)

// ProviderType identifies a configuration source.
type ProviderType string

const (
	ProviderTypeEnvFile       ProviderType = "env-file"
	ProviderTypeAzureKeyVault ProviderType = "azure-keyvault"
)

// ConfigProvider is the contract for any configuration source.
type ConfigProvider interface {
	// Get retrieves a configuration value by key.
	Get(ctx context.Context, key string) (string, error)

	// GetWithDefault retrieves a configuration value with fallback to a
	// default.
	GetWithDefault(ctx context.Context, key, defaultValue string) (string, error)
}

// ProviderConfig holds the settings for one provider instance.
type ProviderConfig struct {
	ProviderType ProviderType           `json:"provider_type"`
	Config       map[string]interface{} `json:"config"`
}

// NewProvider builds a configuration provider.
func NewProvider(config ProviderConfig) (ConfigProvider, error) {
	switch config.ProviderType {
	case ProviderTypeEnvFile:
		return NewEnvFileProvider(config)
	case ProviderTypeAzureKeyVault:
		return NewAzureKeyVaultProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.ProviderType)
	}
}
