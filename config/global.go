package config

import (
	"sync"
)

var (
	globalConfigManager *ConfigManager
	globalConfigOnce    sync.Once
	globalConfigMutex   sync.RWMutex
)

// InitGlobalConfig initializes the global configuration manager. Call it
// once at application startup, before any GetConfig call.
func InitGlobalConfig() error {
	var err error
	globalConfigOnce.Do(func() {
		cm, initErr := NewConfigManager()
		if initErr != nil {
			err = initErr
			return
		}
		SetGlobalConfig(cm)
	})
	return err
}

// GetConfig retrieves a configuration value through the global manager.
// Returns "" until InitGlobalConfig has run.
func GetConfig(key string) string {
	cm := globalManager()
	if cm == nil {
		return ""
	}
	return cm.Get(key)
}

// GetConfigWithDefault retrieves a configuration value with a fallback.
func GetConfigWithDefault(key, defaultValue string) string {
	cm := globalManager()
	if cm == nil {
		return defaultValue
	}
	return cm.GetWithDefault(key, defaultValue)
}

// SetGlobalConfig swaps the global manager. Mainly for tests.
func SetGlobalConfig(cm *ConfigManager) {
	globalConfigMutex.Lock()
	defer globalConfigMutex.Unlock()
	globalConfigManager = cm
}

// IsGlobalConfigInitialized reports whether InitGlobalConfig has run.
func IsGlobalConfigInitialized() bool {
	return globalManager() != nil
}

func globalManager() *ConfigManager {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()
	return globalConfigManager
}
