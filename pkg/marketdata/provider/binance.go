package provider

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// binanceMaxLimit is the largest kline page Binance serves.
const binanceMaxLimit = 1000

// BinanceKlinesService is the kline query builder used here.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the subset of the Binance SDK used here.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceClientWrapper struct {
	client *binance.Client
}

func (w *binanceClientWrapper) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesServiceWrapper{service: w.client.NewKlinesService()}
}

type binanceKlinesServiceWrapper struct {
	service *binance.KlinesService
}

func (w *binanceKlinesServiceWrapper) Symbol(symbol string) BinanceKlinesService {
	w.service.Symbol(symbol)

	return w
}

func (w *binanceKlinesServiceWrapper) Interval(interval string) BinanceKlinesService {
	w.service.Interval(interval)

	return w
}

func (w *binanceKlinesServiceWrapper) StartTime(startTime int64) BinanceKlinesService {
	w.service.StartTime(startTime)

	return w
}

func (w *binanceKlinesServiceWrapper) EndTime(endTime int64) BinanceKlinesService {
	w.service.EndTime(endTime)

	return w
}

func (w *binanceKlinesServiceWrapper) Limit(limit int) BinanceKlinesService {
	w.service.Limit(limit)

	return w
}

func (w *binanceKlinesServiceWrapper) Do(ctx context.Context) ([]*binance.Kline, error) {
	return w.service.Do(ctx)
}

// BinanceClient reads klines from the public Binance spot API.
type BinanceClient struct {
	apiClient BinanceAPIClient
	policy    RetryPolicy
	sleep     SleepFunc
}

// NewBinanceClient creates an unauthenticated client for public market data.
func NewBinanceClient() (*BinanceClient, error) {
	return NewBinanceClientWithAPI(&binanceClientWrapper{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithBaseURL targets another REST host, e.g. a test server.
func NewBinanceClientWithBaseURL(baseURL string) *BinanceClient {
	client := binance.NewClient("", "")
	client.BaseURL = baseURL

	return NewBinanceClientWithAPI(&binanceClientWrapper{client: client})
}

// NewBinanceClientWithAPI creates a client over an existing API implementation.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		policy:    DefaultRetryPolicy(),
		sleep:     sleepContext,
	}
}

// Name returns the provider identifier.
func (c *BinanceClient) Name() ProviderType {
	return ProviderBinance
}

// FetchBars pages forward by the close time of the last kline until a short
// page is returned or the end is reached.
func (c *BinanceClient) FetchBars(ctx context.Context, req FetchRequest, observer FetchObserver) ([]types.Bar, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	interval, err := BinanceInterval(req.Timeframe)
	if err != nil {
		return nil, err
	}

	observer = observerOrNop(observer)

	limit := req.pageLimit()
	if limit > binanceMaxLimit {
		limit = binanceMaxLimit
	}

	onRetry := func(event RetryEvent) {
		event.Provider = ProviderBinance
		observer.OnRetry(event)
	}

	var bars []types.Bar

	page := 0

	for _, symbol := range req.Symbols {
		currentStart := optional.None[int64]()
		if req.Start.IsSome() {
			currentStart = optional.Some(req.Start.Unwrap().UnixMilli())
		}

		for {
			klines, err := withRetry(ctx, c.policy, c.sleep, onRetry, func(ctx context.Context, attempt int) attemptResult[[]*binance.Kline] {
				service := c.apiClient.NewKlinesService().Symbol(symbol).Interval(interval).Limit(limit)
				if currentStart.IsSome() {
					service = service.StartTime(currentStart.Unwrap())
				}

				if req.End.IsSome() {
					service = service.EndTime(req.End.Unwrap().UnixMilli())
				}

				result := classifyBinance(service.Do(ctx))
				observer.OnRequest(RequestEvent{Provider: ProviderBinance, Attempt: attempt + 1, Outcome: result.kind})

				return result
			})
			if err != nil {
				return nil, err
			}

			for _, k := range klines {
				bars = append(bars, binanceKlineToBar(symbol, k))
			}

			page++
			lastPage := len(klines) < limit || currentStart.IsNone()

			if !lastPage {
				next := klines[len(klines)-1].CloseTime + 1
				currentStart = optional.Some(next)
				lastPage = req.End.IsSome() && next >= req.End.Unwrap().UnixMilli()
			}

			observer.OnPage(PageEvent{Provider: ProviderBinance, Symbols: []string{symbol}, Page: page, PageBars: len(klines), TotalBars: len(bars), HasMore: !lastPage})

			if lastPage {
				break
			}
		}
	}

	return bars, nil
}

func classifyBinance(klines []*binance.Kline, err error) attemptResult[[]*binance.Kline] {
	if err == nil {
		return succeeded(klines)
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return failed[[]*binance.Kline](FailureCanceled, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "request canceled", err))
	}

	var apiErr *common.APIError
	if stderrors.As(err, &apiErr) {
		if binanceServerSide(apiErr) {
			return failed[[]*binance.Kline](FailureServer, errors.Wrap(errors.ErrCodeServerError, "binance server error", err))
		}

		return failed[[]*binance.Kline](FailureClient, errors.Wrap(errors.ErrCodeClientError, "binance rejected the request", err))
	}

	return failed[[]*binance.Kline](FailureTransport, errors.Wrap(errors.ErrCodeTransportError, "binance request failed", err))
}

// binanceServerCodes are the -10xx codes Binance uses for failures on its side:
// unknown, disconnected, too many requests, timeout, server busy and
// unexpected response. Every other code rejects the request itself.
var binanceServerCodes = map[int64]bool{
	-1000: true,
	-1001: true,
	-1003: true,
	-1006: true,
	-1007: true,
	-1008: true,
	-1016: true,
}

// binanceServerSide reports whether an APIError may succeed on another attempt.
// go-binance reports every status >= 400 as an APIError and drops the status,
// so a body without a code (code 0, e.g. an HTML 502 page) counts as server side.
func binanceServerSide(apiErr *common.APIError) bool {
	return apiErr.Code == 0 || binanceServerCodes[apiErr.Code]
}

// binanceKlineToBar uses the open time as the bar timestamp. Unparseable numbers become 0.
func binanceKlineToBar(symbol string, k *binance.Kline) types.Bar {
	open, _ := strconv.ParseFloat(k.Open, 64)
	high, _ := strconv.ParseFloat(k.High, 64)
	low, _ := strconv.ParseFloat(k.Low, 64)
	closePrice, _ := strconv.ParseFloat(k.Close, 64)
	volume, _ := strconv.ParseFloat(k.Volume, 64)

	return types.Bar{
		Symbol:     symbol,
		Timestamp:  time.UnixMilli(k.OpenTime).UTC().Format(time.RFC3339),
		Open:       open,
		High:       high,
		Low:        low,
		Close:      closePrice,
		Volume:     volume,
		TradeCount: optional.Some(k.TradeNum),
		VWAP:       optional.None[float64](),
	}
}
