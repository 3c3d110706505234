package marketdata

import (
	"os"
	"sort"

	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
)

// Environment variables holding provider credentials.
const (
	EnvAlpacaKeyID     = "APCA_API_KEY_ID"
	EnvAlpacaSecretKey = "APCA_API_SECRET_KEY"
	EnvPolygonAPIKey   = "POLYGON_API_KEY"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"displayName"`
	Description  string   `json:"description"`
	RequiresAuth bool     `json:"requiresAuth"`
	EnvVars      []string `json:"envVars,omitempty"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderAlpaca: {
		Name:         string(provider.ProviderAlpaca),
		DisplayName:  "Alpaca",
		Description:  "US equities historical bars from the Alpaca market data API (IEX feed)",
		RequiresAuth: true,
		EnvVars:      []string{EnvAlpacaKeyID, EnvAlpacaSecretKey},
	},
	provider.ProviderPolygon: {
		Name:         string(provider.ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market data provider with historical OHLCV aggregates",
		RequiresAuth: true,
		EnvVars:      []string{EnvPolygonAPIKey},
	},
	provider.ProviderBinance: {
		Name:         string(provider.ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange with public kline data for crypto trading pairs",
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// CredentialsFromEnv reads the credentials of a provider using lookup, which
// defaults to os.Getenv.
func CredentialsFromEnv(providerType provider.ProviderType, lookup func(string) string) provider.Credentials {
	if lookup == nil {
		lookup = os.Getenv
	}

	switch providerType {
	case provider.ProviderAlpaca:
		return provider.Credentials{APIKey: lookup(EnvAlpacaKeyID), APISecret: lookup(EnvAlpacaSecretKey)}
	case provider.ProviderPolygon:
		return provider.Credentials{APIKey: lookup(EnvPolygonAPIKey)}
	default:
		return provider.Credentials{}
	}
}

// CheckCredentials fails when a provider that requires authentication lacks any of its secrets.
func CheckCredentials(providerType provider.ProviderType, credentials provider.Credentials) error {
	info, exists := providerRegistry[providerType]
	if !exists || !info.RequiresAuth {
		return nil
	}

	missing := credentials.APIKey == ""
	if providerType == provider.ProviderAlpaca {
		missing = missing || credentials.APISecret == ""
	}

	if missing {
		return errors.Newf(errors.ErrCodeMissingCredentials, "%s requires credentials, set %v", info.DisplayName, info.EnvVars)
	}

	return nil
}
