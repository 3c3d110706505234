package marketdata

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/indicator"
	"github.com/rxtech-lab/argo-bars/internal/logger"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType provider.ProviderType `validate:"required,oneof=alpaca polygon binance"`
	WriterType   writer.WriterType     `validate:"required,oneof=csv parquet"`
	DataPath     string                `validate:"required"`
	Credentials  provider.Credentials
	PageLimit    int `validate:"gte=0"`
	// Precision rounds written numbers to this many decimal places when set.
	Precision optional.Option[int]
	Calendar  CalendarType `validate:"omitempty,oneof=fixed weekday"`
	// Holidays are skipped by the weekday calendar, as YYYY-MM-DD dates.
	Holidays   []string `validate:"dive,datetime=2006-01-02"`
	ArchiveRaw bool
}

// DefaultClientConfig returns the configuration used when only credentials are given.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ProviderType: provider.ProviderAlpaca,
		WriterType:   writer.WriterCSV,
		DataPath:     "data",
		PageLimit:    provider.DefaultPageLimit,
		Precision:    optional.None[int](),
		Calendar:     CalendarFixed,
	}
}

// ProcessParams holds the parameters of one ticker run.
type ProcessParams struct {
	Ticker    string `validate:"required"`
	Timeframe types.Timeframe
	// StartDate is compared as a string against bar timestamps to drop warm-up rows.
	StartDate  string `validate:"required"`
	EndDate    optional.Option[string]
	Indicators []string
}

// Result describes the artifact produced for a ticker.
type Result struct {
	Ticker string
	// Path is empty when NoData is set.
	Path   string
	NoData bool
	// Rows is the number of rows written, warm-up excluded.
	Rows int
	// FetchedBars includes the warm-up bars.
	FetchedBars    int
	Window         FetchWindow
	RawArchivePath string
}

// WriterFactory creates the writer for an output path.
type WriterFactory func(outputPath string) (writer.TableWriter, error)

// Client is the market data client responsible for fetching bars, computing
// indicators and storing the result using writers.
type Client struct {
	provider      provider.Provider
	config        ClientConfig
	validate      *validator.Validate
	engine        *indicator.Engine
	calendar      WarmupCalendar
	writerFactory WriterFactory
	observer      provider.FetchObserver
	logger        *logger.Logger
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithProvider replaces the provider built from the configuration.
func WithProvider(p provider.Provider) ClientOption {
	return func(c *Client) {
		c.provider = p
	}
}

// WithEngine replaces the indicator engine.
func WithEngine(engine *indicator.Engine) ClientOption {
	return func(c *Client) {
		c.engine = engine
	}
}

// WithCalendar replaces the warm-up calendar built from the configuration.
func WithCalendar(calendar WarmupCalendar) ClientOption {
	return func(c *Client) {
		c.calendar = calendar
	}
}

// WithWriterFactory replaces the writer built from the configuration.
func WithWriterFactory(factory WriterFactory) ClientOption {
	return func(c *Client) {
		c.writerFactory = factory
	}
}

// NewClient creates a new market data client with the given configuration.
// Credentials are checked before anything else so that a run fails before any request.
func NewClient(config ClientConfig, log *logger.Logger, observer provider.FetchObserver, opts ...ClientOption) (*Client, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	client := &Client{
		config:   config,
		validate: validator.New(),
		observer: observer,
		logger:   log,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.provider == nil {
		if err := CheckCredentials(config.ProviderType, config.Credentials); err != nil {
			return nil, err
		}
	}

	if err := client.validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	if client.provider == nil {
		marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, config.Credentials)
		if err != nil {
			return nil, err
		}

		client.provider = marketProvider
	}

	if client.engine == nil {
		client.engine = indicator.NewEngine(nil, log)
	}

	if client.calendar == nil {
		calendar, err := NewWarmupCalendar(config.Calendar, config.Holidays)
		if err != nil {
			return nil, err
		}

		client.calendar = calendar
	}

	if client.writerFactory == nil {
		opts := writer.DefaultOptions()
		if config.Precision.IsSome() && config.Precision.Unwrap() >= 0 {
			opts.Precision = config.Precision.Unwrap()
		}

		writerType := config.WriterType
		client.writerFactory = func(outputPath string) (writer.TableWriter, error) {
			return writer.NewWriter(writerType, outputPath, opts)
		}
	}

	return client, nil
}

// Provider returns the provider the client fetches from.
func (c *Client) Provider() provider.Provider {
	return c.provider
}

// Process fetches, enriches and writes the bars of a single ticker.
// A ticker without bars in the requested range is reported with NoData and no error.
func (c *Client) Process(ctx context.Context, params ProcessParams) (Result, error) {
	if err := c.validate.Struct(params); err != nil {
		return Result{}, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid process parameters", err)
	}

	if params.Timeframe.Amount <= 0 {
		return Result{}, errors.New(errors.ErrCodeInvalidTimespan, "timeframe is required")
	}

	window, err := computeWindow(params, c.calendar)
	if err != nil {
		return Result{}, err
	}

	log := c.logger.With(zap.String("ticker", params.Ticker), zap.String("timeframe", params.Timeframe.String()))
	result := Result{Ticker: params.Ticker, Window: window}

	if window.Warmup() {
		log.Info("Warm-up: fetching earlier bars",
			zap.String("effective_start", window.EffectiveStart),
			zap.String("requested_start", window.RequestedStart),
			zap.Int("lookback_bars", window.LookbackBars))
	}

	request, err := c.fetchRequest(params, window)
	if err != nil {
		return Result{}, err
	}

	log.Info("Processing ticker")

	// provider errors already carry their classification
	bars, err := c.provider.FetchBars(ctx, request, c.observer)
	if err != nil {
		return Result{}, err
	}

	result.FetchedBars = len(bars)

	if len(bars) == 0 {
		log.Warn("No data found, check that the ticker is valid and the market was open",
			zap.String("start", window.EffectiveStart),
			zap.String("end", window.EndLabel()))

		result.NoData = true

		return result, nil
	}

	table := c.engine.Apply(types.NewBarTable(bars), params.Indicators)

	sliced, err := sliceFrom(table, params.StartDate)
	if err != nil {
		return Result{}, err
	}

	if sliced.Len() == 0 {
		log.Warn("All bars fell in the warm-up period, nothing left after slicing")

		result.NoData = true

		return result, nil
	}

	sliced.Reorder(types.BaseColumns)

	outputPath := c.outputPath(window)

	path, err := c.write(outputPath, sliced)
	if err != nil {
		return Result{}, err
	}

	// the raw archive only accompanies an exported artifact
	if c.config.ArchiveRaw {
		archivePath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + writer.RawArchiveSuffix
		if err := writer.WriteRawArchive(archivePath, bars); err != nil {
			return Result{}, err
		}

		result.RawArchivePath = archivePath
	}

	log.Info("Exported bars", zap.Int("rows", sliced.Len()), zap.String("path", path))

	result.Path = path
	result.Rows = sliced.Len()

	return result, nil
}

func (c *Client) fetchRequest(params ProcessParams, window FetchWindow) (provider.FetchRequest, error) {
	start, err := ParseDate(window.EffectiveStart)
	if err != nil {
		return provider.FetchRequest{}, err
	}

	request := provider.FetchRequest{
		Symbols:   []string{params.Ticker},
		Timeframe: params.Timeframe,
		Start:     optional.Some(start),
		End:       optional.None[time.Time](),
		PageLimit: c.config.PageLimit,
	}

	if params.EndDate.IsSome() {
		end, err := ParseDate(params.EndDate.Unwrap())
		if err != nil {
			return provider.FetchRequest{}, err
		}

		request.End = optional.Some(end)
	}

	return request, nil
}

// sliceFrom keeps rows whose date sorts at or after start.
func sliceFrom(table *types.Table, start string) (*types.Table, error) {
	dates, ok := table.Column(types.ColumnDate)
	if !ok || dates.Kind != types.ColumnText {
		return nil, errors.New(errors.ErrCodeDataNotFound, "bar table has no date column")
	}

	return table.Filter(func(row int) bool {
		return dates.Texts[row] >= start
	}), nil
}

// OutputFileName builds <ticker>_<timeframe>_<start>_<end|latest>.<ext> with ':' replaced by '-'.
func OutputFileName(window FetchWindow, writerType writer.WriterType) string {
	name := fmt.Sprintf("%s_%s_%s_%s.%s",
		window.Ticker,
		window.Timeframe.String(),
		window.RequestedStart,
		window.EndLabel(),
		writerType.Extension())

	return strings.ReplaceAll(name, ":", "-")
}

func (c *Client) outputPath(window FetchWindow) string {
	return filepath.Join(c.config.DataPath, OutputFileName(window, c.config.WriterType))
}

func (c *Client) write(outputPath string, table *types.Table) (path string, err error) {
	tableWriter, err := c.writerFactory(outputPath)
	if err != nil {
		return "", err
	}

	defer func() {
		if closeErr := tableWriter.Close(); closeErr != nil {
			c.logger.Warn("Failed to close writer", zap.String("path", outputPath), zap.Error(closeErr))
		}
	}()

	if err := tableWriter.Initialize(); err != nil {
		return "", err
	}

	if err := tableWriter.Write(table); err != nil {
		return "", err
	}

	return tableWriter.Finalize()
}
