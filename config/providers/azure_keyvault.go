package providers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
)

// AzureKeyVaultProvider reads secrets from an Azure Key Vault, with a
// short-lived in-memory cache in front of it. Secret values are never
// written to logs.
type AzureKeyVaultProvider struct {
	client   *azsecrets.Client
	vaultURL string

	mu          sync.RWMutex
	cache       map[string]string
	cacheExpiry time.Time
	cacheTTL    time.Duration
}

// NewAzureKeyVaultProvider creates a Key Vault provider authenticated via
// the default Azure credential chain (managed identity in production).
func NewAzureKeyVaultProvider(config ProviderConfig) (ConfigProvider, error) {
	vaultURL, ok := config.Config["vault_url"].(string)
	if !ok || vaultURL == "" {
		return nil, fmt.Errorf("vault_url is required for the azure-keyvault provider")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("create azure credential: %w", err)
	}

	client, err := azsecrets.NewClient(vaultURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("create key vault client: %w", err)
	}

	return &AzureKeyVaultProvider{
		client:   client,
		vaultURL: vaultURL,
		cache:    make(map[string]string),
		cacheTTL: 5 * time.Minute,
	}, nil
}

func (akp *AzureKeyVaultProvider) Get(ctx context.Context, key string) (string, error) {
	akp.mu.RLock()
	if value, exists := akp.cache[key]; exists && time.Now().Before(akp.cacheExpiry) {
		akp.mu.RUnlock()
		return value, nil
	}
	akp.mu.RUnlock()

	akp.mu.Lock()
	defer akp.mu.Unlock()
	if value, exists := akp.cache[key]; exists && time.Now().Before(akp.cacheExpiry) {
		return value, nil
	}

	value, err := akp.fetchSecret(ctx, vaultSecretName(key))
	if err != nil {
		return "", err
	}

	akp.cache[key] = value
	akp.cacheExpiry = time.Now().Add(akp.cacheTTL)
	return value, nil
}

func (akp *AzureKeyVaultProvider) GetWithDefault(ctx context.Context, key, defaultValue string) (string, error) {
	value, err := akp.Get(ctx, key)
	if err != nil {
		return defaultValue, nil
	}
	return value, nil
}

func (akp *AzureKeyVaultProvider) fetchSecret(ctx context.Context, secretName string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := akp.client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		return "", fmt.Errorf("get secret %q: %w", secretName, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q has no value", secretName)
	}
	return *resp.Value, nil
}

// vaultSecretName maps an environment-style key to a Key Vault secret
// name. Key Vault does not allow underscores.
func vaultSecretName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
