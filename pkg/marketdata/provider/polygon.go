package provider

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// polygonMaxLimit is the largest page polygon serves for aggregates.
const polygonMaxLimit = 50000

// PolygonAggsIterator walks aggregate results. Paging is handled by the SDK.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the polygon SDK used here.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonClientWrapper struct {
	client *polygon.Client
}

func (w *polygonClientWrapper) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return w.client.ListAggs(ctx, params, options...)
}

// PolygonClient reads aggregates from polygon.io.
type PolygonClient struct {
	apiClient PolygonAPIClient
	now       func() time.Time
}

// NewPolygonClient creates a client for the given API key.
func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingCredentials, "polygon apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonClientWrapper{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a client over an existing API implementation.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

// Name returns the provider identifier.
func (c *PolygonClient) Name() ProviderType {
	return ProviderPolygon
}

// FetchBars lists aggregates symbol by symbol. A page event is emitted every
// PageLimit bars and once more at the end of each symbol.
func (c *PolygonClient) FetchBars(ctx context.Context, req FetchRequest, observer FetchObserver) ([]types.Bar, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if req.Start.IsNone() {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon requires a start date")
	}

	timespan, err := PolygonTimespan(req.Timeframe)
	if err != nil {
		return nil, err
	}

	observer = observerOrNop(observer)

	limit := req.pageLimit()
	if limit > polygonMaxLimit {
		limit = polygonMaxLimit
	}

	end := c.now()
	if req.End.IsSome() {
		end = req.End.Unwrap()
	}

	var bars []types.Bar

	page := 0

	for _, symbol := range req.Symbols {
		//nolint:exhaustruct // third-party struct with many optional fields
		params := models.ListAggsParams{
			Ticker:     symbol,
			Multiplier: req.Timeframe.Amount,
			Timespan:   timespan,
			From:       models.Millis(req.Start.Unwrap()),
			To:         models.Millis(end),
		}.WithLimit(limit)

		iter := c.apiClient.ListAggs(ctx, params)
		pageBars := 0

		for iter.Next() {
			bars = append(bars, polygonAggToBar(symbol, iter.Item()))
			pageBars++

			if pageBars == limit {
				page++
				observer.OnPage(PageEvent{Provider: ProviderPolygon, Symbols: []string{symbol}, Page: page, PageBars: pageBars, TotalBars: len(bars), HasMore: true})
				pageBars = 0
			}
		}

		if err := iter.Err(); err != nil {
			observer.OnRequest(RequestEvent{Provider: ProviderPolygon, Attempt: 1, Outcome: FailureServer})

			return nil, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", symbol)
		}

		observer.OnRequest(RequestEvent{Provider: ProviderPolygon, Attempt: 1, Outcome: FailureNone})

		page++
		observer.OnPage(PageEvent{Provider: ProviderPolygon, Symbols: []string{symbol}, Page: page, PageBars: pageBars, TotalBars: len(bars), HasMore: false})
	}

	return bars, nil
}

func polygonAggToBar(symbol string, agg models.Agg) types.Bar {
	return types.Bar{
		Symbol:     symbol,
		Timestamp:  time.Time(agg.Timestamp).UTC().Format(time.RFC3339),
		Open:       agg.Open,
		High:       agg.High,
		Low:        agg.Low,
		Close:      agg.Close,
		Volume:     agg.Volume,
		TradeCount: optional.Some(agg.Transactions),
		VWAP:       optional.Some(agg.VWAP),
	}
}
