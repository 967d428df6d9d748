package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"veltahq.com/accounts/config/providers"
)

// ConfigManager resolves configuration values from a primary provider
// with an environment-variable fallback, so a Key Vault outage degrades
// to locally supplied settings instead of taking the process down.
type ConfigManager struct {
	configSource string
	provider     providers.ConfigProvider
	fallback     providers.ConfigProvider
}

// NewConfigManager bootstraps a manager from CONFIG_SOURCE and
// CONFIG_SOURCE_CONFIG. These two variables are read from the raw
// environment because the config system is not available yet.
func NewConfigManager() (*ConfigManager, error) {
	configSource := os.Getenv("CONFIG_SOURCE")
	if configSource == "" {
		configSource = string(providers.ProviderTypeEnvFile)
	}

	var sourceConfig map[string]interface{}
	if configSource != string(providers.ProviderTypeEnvFile) {
		if raw := os.Getenv("CONFIG_SOURCE_CONFIG"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &sourceConfig); err != nil {
				return nil, fmt.Errorf("parse CONFIG_SOURCE_CONFIG: %w", err)
			}
		}
	}

	provider, err := providers.NewProvider(providers.ProviderConfig{
		ProviderType: providers.ProviderType(configSource),
		Config:       sourceConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("create config provider: %w", err)
	}

	fallback, err := providers.NewProvider(providers.ProviderConfig{
		ProviderType: providers.ProviderTypeEnvFile,
	})
	if err != nil {
		return nil, fmt.Errorf("create fallback provider: %w", err)
	}

	return &ConfigManager{
		configSource: configSource,
		provider:     provider,
		fallback:     fallback,
	}, nil
}

// Get retrieves a configuration value, or "" when it is not set anywhere.
func (cm *ConfigManager) Get(key string) string {
	ctx := context.Background()

	value, err := cm.provider.Get(ctx, key)
	if err == nil {
		return value
	}
	if cm.usesEnvFallback() {
		if value, err := cm.fallback.Get(ctx, key); err == nil {
			return value
		}
	}
	return ""
}

// GetWithDefault retrieves a configuration value with a fallback default.
func (cm *ConfigManager) GetWithDefault(key, defaultValue string) string {
	if value := cm.Get(key); value != "" {
		return value
	}
	return defaultValue
}

// GetConfigSource returns the active configuration source name.
func (cm *ConfigManager) GetConfigSource() string {
	return cm.configSource
}

// usesEnvFallback reports whether a separate env fallback is worth trying.
// When the primary already is env-file the fallback would fail identically.
func (cm *ConfigManager) usesEnvFallback() bool {
	return cm.configSource != string(providers.ProviderTypeEnvFile)
}
