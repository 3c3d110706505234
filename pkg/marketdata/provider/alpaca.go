package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

const (
	// AlpacaBarsURL is the multi-symbol historical bars endpoint.
	AlpacaBarsURL = "https://data.alpaca.markets/v2/stocks/bars"
	// DefaultAlpacaFeed selects the free IEX feed.
	DefaultAlpacaFeed = "iex"

	alpacaKeyHeader    = "APCA-API-KEY-ID"
	alpacaSecretHeader = "APCA-API-SECRET-KEY"
	maxErrorBodyBytes  = 4096
)

// AlpacaClient reads bars from the Alpaca market data API.
type AlpacaClient struct {
	baseURL    string
	keyID      string
	secretKey  string
	feed       string
	httpClient *http.Client
	policy     RetryPolicy
	sleep      SleepFunc
}

// AlpacaOption customizes an AlpacaClient.
type AlpacaOption func(*AlpacaClient)

// WithBaseURL points the client at another bars endpoint.
func WithBaseURL(baseURL string) AlpacaOption {
	return func(c *AlpacaClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) AlpacaOption {
	return func(c *AlpacaClient) {
		c.httpClient = client
	}
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(policy RetryPolicy) AlpacaOption {
	return func(c *AlpacaClient) {
		c.policy = policy
	}
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(sleep SleepFunc) AlpacaOption {
	return func(c *AlpacaClient) {
		c.sleep = sleep
	}
}

// WithFeed selects the data feed, e.g. "sip".
func WithFeed(feed string) AlpacaOption {
	return func(c *AlpacaClient) {
		c.feed = feed
	}
}

// NewAlpacaClient creates a client authenticated with the given key pair.
func NewAlpacaClient(keyID, secretKey string, opts ...AlpacaOption) (*AlpacaClient, error) {
	if keyID == "" || secretKey == "" {
		return nil, errors.New(errors.ErrCodeMissingCredentials, "alpaca requires both an API key id and a secret key")
	}

	client := &AlpacaClient{
		baseURL:    AlpacaBarsURL,
		keyID:      keyID,
		secretKey:  secretKey,
		feed:       DefaultAlpacaFeed,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		policy:     DefaultRetryPolicy(),
		sleep:      sleepContext,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Name returns the provider identifier.
func (c *AlpacaClient) Name() ProviderType {
	return ProviderAlpaca
}

type alpacaBarsResponse struct {
	Bars          map[string][]types.Bar `json:"bars"`
	NextPageToken *string                `json:"next_page_token"`
}

func (r alpacaBarsResponse) nextToken() string {
	if r.NextPageToken == nil {
		return ""
	}

	return *r.NextPageToken
}

// flatten orders bars by requested symbol first, then any other symbol by name.
func (r alpacaBarsResponse) flatten(requested []string) []types.Bar {
	order := make([]string, 0, len(r.Bars))
	seen := make(map[string]bool, len(r.Bars))

	for _, symbol := range requested {
		if _, ok := r.Bars[symbol]; ok && !seen[symbol] {
			order = append(order, symbol)
			seen[symbol] = true
		}
	}

	rest := make([]string, 0)
	for symbol := range r.Bars {
		if !seen[symbol] {
			rest = append(rest, symbol)
		}
	}

	sort.Strings(rest)
	order = append(order, rest...)

	var out []types.Bar

	for _, symbol := range order {
		for _, bar := range r.Bars[symbol] {
			bar.Symbol = symbol
			out = append(out, bar)
		}
	}

	return out
}

// FetchBars follows next_page_token until the last page.
func (c *AlpacaClient) FetchBars(ctx context.Context, req FetchRequest, observer FetchObserver) ([]types.Bar, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	observer = observerOrNop(observer)

	query := url.Values{}
	query.Set("symbols", strings.Join(req.Symbols, ","))
	query.Set("timeframe", req.Timeframe.String())
	query.Set("limit", strconv.Itoa(req.pageLimit()))
	query.Set("feed", c.feed)

	if req.Start.IsSome() {
		query.Set("start", FormatQueryTime(req.Start.Unwrap()))
	}

	if req.End.IsSome() {
		query.Set("end", FormatQueryTime(req.End.Unwrap()))
	}

	onRetry := func(event RetryEvent) {
		event.Provider = ProviderAlpaca
		observer.OnRetry(event)
	}

	var bars []types.Bar

	for page := 1; ; page++ {
		response, err := withRetry(ctx, c.policy, c.sleep, onRetry, func(ctx context.Context, attempt int) attemptResult[alpacaBarsResponse] {
			result := c.doRequest(ctx, query)
			observer.OnRequest(RequestEvent{
				Provider:   ProviderAlpaca,
				Attempt:    attempt + 1,
				StatusCode: result.statusCode,
				Outcome:    result.kind,
			})

			return result.attemptResult
		})
		if err != nil {
			return nil, err
		}

		pageBars := response.flatten(req.Symbols)
		bars = append(bars, pageBars...)

		token := response.nextToken()
		observer.OnPage(PageEvent{
			Provider:  ProviderAlpaca,
			Symbols:   req.Symbols,
			Page:      page,
			PageBars:  len(pageBars),
			TotalBars: len(bars),
			HasMore:   token != "",
		})

		if token == "" {
			return bars, nil
		}

		query.Set("page_token", token)
	}
}

type alpacaAttempt struct {
	attemptResult[alpacaBarsResponse]
	statusCode int
}

func (c *AlpacaClient) doRequest(ctx context.Context, query url.Values) alpacaAttempt {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return alpacaAttempt{attemptResult: failed[alpacaBarsResponse](FailureClient, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to build request", err))}
	}

	httpReq.Header.Set(alpacaKeyHeader, c.keyID)
	httpReq.Header.Set(alpacaSecretHeader, c.secretKey)
	httpReq.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return alpacaAttempt{attemptResult: failed[alpacaBarsResponse](FailureCanceled, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "request canceled", ctx.Err()))}
		}

		return alpacaAttempt{attemptResult: failed[alpacaBarsResponse](FailureTransport, errors.Wrap(errors.ErrCodeTransportError, "request failed", err))}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		statusErr := &HTTPStatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}

		if resp.StatusCode >= 500 {
			return alpacaAttempt{
				attemptResult: failed[alpacaBarsResponse](FailureServer, errors.Wrap(errors.ErrCodeServerError, fmt.Sprintf("server error %d", resp.StatusCode), statusErr)),
				statusCode:    resp.StatusCode,
			}
		}

		return alpacaAttempt{
			attemptResult: failed[alpacaBarsResponse](FailureClient, errors.Wrap(errors.ErrCodeClientError, fmt.Sprintf("client error %d", resp.StatusCode), statusErr)),
			statusCode:    resp.StatusCode,
		}
	}

	var decoded alpacaBarsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return alpacaAttempt{
			attemptResult: failed[alpacaBarsResponse](FailureDecode, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode bars response", err)),
			statusCode:    resp.StatusCode,
		}
	}

	return alpacaAttempt{attemptResult: succeeded(decoded), statusCode: resp.StatusCode}
}

// FormatQueryTime renders midnight UTC as a plain date and anything else as RFC 3339.
func FormatQueryTime(t time.Time) string {
	utc := t.UTC()
	if utc.Hour() == 0 && utc.Minute() == 0 && utc.Second() == 0 && utc.Nanosecond() == 0 {
		return utc.Format(time.DateOnly)
	}

	return utc.Format(time.RFC3339)
}
