package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderAlpaca  ProviderType = "alpaca"
	ProviderPolygon ProviderType = "polygon"
	ProviderBinance ProviderType = "binance"
)

// DefaultPageLimit is the page size requested when none is configured.
const DefaultPageLimit = 10000

// FetchRequest describes one bars query. Start and End are inclusive bounds
// passed through to the provider.
type FetchRequest struct {
	Symbols   []string
	Timeframe types.Timeframe
	Start     optional.Option[time.Time]
	End       optional.Option[time.Time]
	PageLimit int
}

func (r FetchRequest) pageLimit() int {
	if r.PageLimit <= 0 {
		return DefaultPageLimit
	}

	return r.PageLimit
}

func (r FetchRequest) validate() error {
	if len(r.Symbols) == 0 {
		return errors.New(errors.ErrCodeMissingParameter, "at least one symbol is required")
	}

	if r.Timeframe.Amount <= 0 {
		return errors.New(errors.ErrCodeInvalidTimespan, "timeframe is required")
	}

	return nil
}

// Provider fetches historical bars.
type Provider interface {
	// Name returns the provider identifier.
	Name() ProviderType
	// FetchBars pages through the provider until every bar in the request has been
	// received and returns them in order. Progress and retries are reported to observer,
	// which may be nil.
	FetchBars(ctx context.Context, req FetchRequest, observer FetchObserver) ([]types.Bar, error)
}

// Credentials carries the secrets a provider may need.
type Credentials struct {
	APIKey    string
	APISecret string
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, credentials Credentials) (Provider, error) {
	switch providerType {
	case ProviderAlpaca:
		client, err := NewAlpacaClient(credentials.APIKey, credentials.APISecret)
		if err != nil {
			return nil, err
		}

		return client, nil
	case ProviderPolygon:
		client, err := NewPolygonClient(credentials.APIKey)
		if err != nil {
			return nil, err
		}

		return client, nil
	case ProviderBinance:
		client, err := NewBinanceClient()
		if err != nil {
			return nil, err
		}

		return client, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
