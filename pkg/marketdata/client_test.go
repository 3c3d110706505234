package marketdata

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/indicator"
	"github.com/rxtech-lab/argo-bars/internal/logger"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/mocks"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type ClientTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	provider *mocks.MockProvider
	dataPath string
	logs     *observer.ObservedLogs
	logger   *logger.Logger
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.provider = mocks.NewMockProvider(suite.ctrl)
	suite.dataPath = filepath.Join(suite.T().TempDir(), "data")

	core, logs := observer.New(zapcore.DebugLevel)
	suite.logs = logs
	suite.logger = logger.NewWithCore(core)
}

func (suite *ClientTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ClientTestSuite) config() ClientConfig {
	config := DefaultClientConfig()
	config.ProviderType = provider.ProviderBinance
	config.DataPath = suite.dataPath

	return config
}

func (suite *ClientTestSuite) newClient(config ClientConfig, opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithProvider(suite.provider)}, opts...)

	client, err := NewClient(config, suite.logger, nil, opts...)
	suite.Require().NoError(err)

	return client
}

// hundredDays are daily bars from 2023-01-01; 2023-02-20 is the 51st.
func hundredDays() []types.Bar {
	return mocks.FlatDailyBars("TEST", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 100, 100)
}

func readCSV(s *suite.Suite, path string) [][]string {
	file, err := os.Open(path)
	s.Require().NoError(err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	s.Require().NoError(err)

	return records
}

func (suite *ClientTestSuite) TestNewClient_MissingCredentials() {
	config := DefaultClientConfig()
	config.DataPath = suite.dataPath

	client, err := NewClient(config, nil, nil)
	suite.Nil(client)
	suite.True(errors.HasCode(err, errors.ErrCodeMissingCredentials))
}

func (suite *ClientTestSuite) TestNewClient_InvalidConfig() {
	config := suite.config()
	config.WriterType = "xlsx"

	client, err := NewClient(config, nil, nil)
	suite.Nil(client)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ClientTestSuite) TestNewClient_BuildsProviderFromConfig() {
	config := DefaultClientConfig()
	config.DataPath = suite.dataPath
	config.Credentials = provider.Credentials{APIKey: "id", APISecret: "secret"}

	client, err := NewClient(config, nil, nil)
	suite.Require().NoError(err)
	suite.Equal(provider.ProviderAlpaca, client.Provider().Name())
}

func (suite *ClientTestSuite) TestProcess_WarmupMakesFirstRowValid() {
	var captured provider.FetchRequest

	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req provider.FetchRequest, _ provider.FetchObserver) ([]types.Bar, error) {
			captured = req

			return hundredDays(), nil
		})

	client := suite.newClient(suite.config())

	result, err := client.Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2023-02-20",
		EndDate:    optional.None[string](),
		Indicators: []string{"SMA_10"},
	})
	suite.Require().NoError(err)

	// 2 x 10 bars, 3 calendar days each
	suite.Equal(time.Date(2022, 12, 22, 0, 0, 0, 0, time.UTC), captured.Start.Unwrap())
	suite.True(captured.End.IsNone())
	suite.Equal([]string{"TEST"}, captured.Symbols)
	suite.Equal(provider.DefaultPageLimit, captured.PageLimit)

	suite.Equal("2022-12-22", result.Window.EffectiveStart)
	suite.Equal(20, result.Window.LookbackBars)
	suite.Equal(100, result.FetchedBars)
	suite.Equal(50, result.Rows)
	suite.False(result.NoData)
	suite.Equal(filepath.Join(suite.dataPath, "TEST_1Day_2023-02-20_latest.csv"), result.Path)

	records := readCSV(&suite.Suite, result.Path)
	suite.Equal([]string{"date", "open", "high", "low", "close", "volume", "SMA_10"}, records[0])
	suite.Len(records, 51)
	suite.Equal("2023-02-20T00:00:00Z", records[1][0])

	sma, err := strconv.ParseFloat(records[1][6], 64)
	suite.Require().NoError(err)
	suite.False(math.IsNaN(sma))
	suite.Equal(100.0, sma)
}

func (suite *ClientTestSuite) TestProcess_IntradaySkipsWarmup() {
	var captured provider.FetchRequest

	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req provider.FetchRequest, _ provider.FetchObserver) ([]types.Bar, error) {
			captured = req

			return hundredDays(), nil
		})

	result, err := suite.newClient(suite.config()).Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("15Min"),
		StartDate:  "2023-02-20",
		EndDate:    optional.Some("2023-03-01"),
		Indicators: []string{"SMA_10"},
	})
	suite.Require().NoError(err)

	suite.Equal(time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC), captured.Start.Unwrap())
	suite.Equal(time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), captured.End.Unwrap())
	suite.False(result.Window.Warmup())
	suite.Equal(filepath.Join(suite.dataPath, "TEST_15Min_2023-02-20_2023-03-01.csv"), result.Path)

	// no warm-up: the first rows of the indicator are empty
	records := readCSV(&suite.Suite, result.Path)
	suite.Equal("", records[1][6])
}

func (suite *ClientTestSuite) TestProcess_NoIndicatorsFetchesRequestedRange() {
	var captured provider.FetchRequest

	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req provider.FetchRequest, _ provider.FetchObserver) ([]types.Bar, error) {
			captured = req

			return hundredDays()[50:], nil
		})

	result, err := suite.newClient(suite.config()).Process(context.Background(), ProcessParams{
		Ticker:    "TEST",
		Timeframe: types.MustParseTimeframe("1Day"),
		StartDate: "2023-02-20",
	})
	suite.Require().NoError(err)
	suite.Equal(time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC), captured.Start.Unwrap())
	suite.Equal(50, result.Rows)

	records := readCSV(&suite.Suite, result.Path)
	suite.Equal([]string{"date", "open", "high", "low", "close", "volume"}, records[0])
}

func (suite *ClientTestSuite) TestProcess_EmptyFetchIsNoData() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	result, err := suite.newClient(suite.config()).Process(context.Background(), ProcessParams{
		Ticker:    "NOPE",
		Timeframe: types.MustParseTimeframe("1Day"),
		StartDate: "2023-02-20",
	})
	suite.Require().NoError(err)
	suite.True(result.NoData)
	suite.Empty(result.Path)
	suite.Equal(1, suite.logs.FilterMessageSnippet("No data found").Len())

	_, statErr := os.Stat(suite.dataPath)
	suite.True(os.IsNotExist(statErr))
}

func (suite *ClientTestSuite) TestProcess_AllRowsInWarmupIsNoData() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(hundredDays(), nil)

	result, err := suite.newClient(suite.config()).Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2024-01-01",
		Indicators: []string{"RSI_14"},
	})
	suite.Require().NoError(err)
	suite.True(result.NoData)
	suite.Equal(1, suite.logs.FilterMessageSnippet("warm-up period").Len())
}

func (suite *ClientTestSuite) TestProcess_ProviderErrorKeepsClassification() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New(errors.ErrCodeClientError, "client error 403"))

	_, err := suite.newClient(suite.config()).Process(context.Background(), ProcessParams{
		Ticker:    "TEST",
		Timeframe: types.MustParseTimeframe("1Day"),
		StartDate: "2023-02-20",
	})
	suite.True(errors.HasCode(err, errors.ErrCodeClientError))
}

func (suite *ClientTestSuite) TestProcess_InvalidParams() {
	client := suite.newClient(suite.config())

	_, err := client.Process(context.Background(), ProcessParams{Timeframe: types.MustParseTimeframe("1Day"), StartDate: "2023-02-20"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = client.Process(context.Background(), ProcessParams{Ticker: "TEST", StartDate: "2023-02-20"})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidTimespan))

	_, err = client.Process(context.Background(), ProcessParams{
		Ticker: "TEST", Timeframe: types.MustParseTimeframe("1Day"), StartDate: "20/02/2023", Indicators: []string{"SMA"},
	})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDate))
}

func (suite *ClientTestSuite) TestProcess_UnknownIndicatorIsSkipped() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(hundredDays(), nil)

	result, err := suite.newClient(suite.config()).Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2023-02-20",
		Indicators: []string{"FOO_5", "SMA_5"},
	})
	suite.Require().NoError(err)

	records := readCSV(&suite.Suite, result.Path)
	suite.Equal([]string{"date", "open", "high", "low", "close", "volume", "SMA_5"}, records[0])
	suite.Equal(1, suite.logs.FilterMessage("Skipping indicator").Len())
}

func (suite *ClientTestSuite) TestProcess_ColumnOrderWithTradeStatsAndExtras() {
	bars := hundredDays()[:3]
	for i := range bars {
		bars[i].TradeCount = optional.Some(int64(10 + i))
		bars[i].VWAP = optional.Some(100.5)
		bars[i].Extra = map[string]any{"x": "flag"}
	}

	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(bars, nil)

	result, err := suite.newClient(suite.config()).Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2023-01-01",
		Indicators: []string{"MOM_1"},
	})
	suite.Require().NoError(err)

	records := readCSV(&suite.Suite, result.Path)
	suite.Equal([]string{"date", "open", "high", "low", "close", "volume", "trade_count", "vwap", "x", "MOM_1"}, records[0])
	suite.Equal([]string{"2023-01-01T00:00:00Z", "100", "105", "95", "100", "1000", "10", "100.5", "flag", ""}, records[1])
}

func (suite *ClientTestSuite) TestProcess_IsIdempotent() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, provider.FetchRequest, provider.FetchObserver) ([]types.Bar, error) {
			config := mocks.DefaultConfig()
			config.Count = 120

			return mocks.NewDataGenerator(42).Generate(config), nil
		}).Times(2)

	client := suite.newClient(suite.config())
	params := ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2024-03-01",
		EndDate:    optional.Some("2024-04-30"),
		Indicators: []string{"SMA_20", "RSI", "MACD", "BBANDS_10"},
	}

	first, err := client.Process(context.Background(), params)
	suite.Require().NoError(err)

	firstBytes, err := os.ReadFile(first.Path)
	suite.Require().NoError(err)

	second, err := client.Process(context.Background(), params)
	suite.Require().NoError(err)
	suite.Equal(first.Path, second.Path)

	secondBytes, err := os.ReadFile(second.Path)
	suite.Require().NoError(err)
	suite.Equal(firstBytes, secondBytes)
}

func (suite *ClientTestSuite) TestProcess_ParquetAndRawArchive() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(hundredDays(), nil)

	config := suite.config()
	config.WriterType = writer.WriterParquet
	config.ArchiveRaw = true

	result, err := suite.newClient(config).Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2023-02-20",
		EndDate:    optional.Some("2023-04-10T00:00:00Z"),
		Indicators: []string{"SMA_10"},
	})
	suite.Require().NoError(err)

	suite.Equal(filepath.Join(suite.dataPath, "TEST_1Day_2023-02-20_2023-04-10T00-00-00Z.parquet"), result.Path)
	suite.Equal(filepath.Join(suite.dataPath, "TEST_1Day_2023-02-20_2023-04-10T00-00-00Z.raw.parquet"), result.RawArchivePath)

	_, err = os.Stat(result.Path)
	suite.NoError(err)

	raw, err := writer.ReadRawArchive(result.RawArchivePath)
	suite.Require().NoError(err)
	suite.Len(raw, 100)
}

func (suite *ClientTestSuite) TestProcess_NoDataLeavesNoRawArchive() {
	bars := mocks.FlatDailyBars("TEST", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 10, 100)
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(bars, nil)

	config := suite.config()
	config.ArchiveRaw = true

	result, err := suite.newClient(config).Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2024-01-01",
		Indicators: []string{"SMA_3"},
	})
	suite.Require().NoError(err)
	suite.True(result.NoData)
	suite.Empty(result.RawArchivePath)

	entries, err := os.ReadDir(suite.dataPath)
	if err == nil {
		suite.Empty(entries)
	} else {
		suite.True(os.IsNotExist(err))
	}
}

func (suite *ClientTestSuite) TestProcess_WriteFailureLeavesNoRawArchive() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(hundredDays(), nil)

	tableWriter := mocks.NewMockTableWriter(suite.ctrl)
	tableWriter.EXPECT().Initialize().Return(nil)
	tableWriter.EXPECT().Write(gomock.Any()).Return(errors.New(errors.ErrCodeMarketDataWriteFailed, "disk full"))
	tableWriter.EXPECT().Close().Return(nil)

	config := suite.config()
	config.ArchiveRaw = true

	client := suite.newClient(config, WithWriterFactory(func(string) (writer.TableWriter, error) {
		return tableWriter, nil
	}))

	_, err := client.Process(context.Background(), ProcessParams{
		Ticker:    "TEST",
		Timeframe: types.MustParseTimeframe("1Day"),
		StartDate: "2023-02-20",
	})
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))

	_, statErr := os.Stat(filepath.Join(suite.dataPath, "TEST_1Day_2023-02-20_latest"+writer.RawArchiveSuffix))
	suite.True(os.IsNotExist(statErr))
}

func (suite *ClientTestSuite) TestProcess_UsesWriterFactory() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(hundredDays(), nil)

	tableWriter := mocks.NewMockTableWriter(suite.ctrl)
	gomock.InOrder(
		tableWriter.EXPECT().Initialize().Return(nil),
		tableWriter.EXPECT().Write(gomock.Any()).DoAndReturn(func(table *types.Table) error {
			suite.Equal(50, table.Len())

			return nil
		}),
		tableWriter.EXPECT().Finalize().Return("/somewhere/out.csv", nil),
		tableWriter.EXPECT().Close().Return(nil),
	)

	var requestedPath string

	client := suite.newClient(suite.config(), WithWriterFactory(func(outputPath string) (writer.TableWriter, error) {
		requestedPath = outputPath

		return tableWriter, nil
	}))

	result, err := client.Process(context.Background(), ProcessParams{
		Ticker:    "TEST",
		Timeframe: types.MustParseTimeframe("1Day"),
		StartDate: "2023-02-20",
	})
	suite.Require().NoError(err)
	suite.Equal("/somewhere/out.csv", result.Path)
	suite.Equal(filepath.Join(suite.dataPath, "TEST_1Day_2023-02-20_latest.csv"), requestedPath)
}

func (suite *ClientTestSuite) TestProcess_WriteFailureClosesWriter() {
	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).Return(hundredDays(), nil)

	tableWriter := mocks.NewMockTableWriter(suite.ctrl)
	tableWriter.EXPECT().Initialize().Return(nil)
	tableWriter.EXPECT().Write(gomock.Any()).Return(errors.New(errors.ErrCodeMarketDataWriteFailed, "disk full"))
	tableWriter.EXPECT().Close().Return(nil)

	client := suite.newClient(suite.config(), WithWriterFactory(func(string) (writer.TableWriter, error) {
		return tableWriter, nil
	}))

	_, err := client.Process(context.Background(), ProcessParams{
		Ticker:    "TEST",
		Timeframe: types.MustParseTimeframe("1Day"),
		StartDate: "2023-02-20",
	})
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
}

func (suite *ClientTestSuite) TestProcess_WeekdayCalendar() {
	var captured provider.FetchRequest

	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req provider.FetchRequest, _ provider.FetchObserver) ([]types.Bar, error) {
			captured = req

			return hundredDays(), nil
		})

	config := suite.config()
	config.Calendar = CalendarWeekday

	_, err := suite.newClient(config).Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2023-02-20",
		Indicators: []string{"SMA_5"},
	})
	suite.Require().NoError(err)

	// 10 bars + 1 slack = 11 weekdays before Monday 2023-02-20
	suite.Equal(time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC), captured.Start.Unwrap())
}

func (suite *ClientTestSuite) TestProcess_InjectedCalendarAndEngine() {
	var captured provider.FetchRequest

	suite.provider.EXPECT().FetchBars(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req provider.FetchRequest, _ provider.FetchObserver) ([]types.Bar, error) {
			captured = req

			return hundredDays(), nil
		})

	registry := indicator.NewIndicatorRegistry()
	suite.Require().NoError(registry.RegisterIndicator(indicator.NewEMA()))

	client := suite.newClient(suite.config(),
		WithCalendar(FixedDayCalendar{DaysPerBar: 1}),
		WithEngine(indicator.NewEngine(registry, suite.logger)),
	)

	result, err := client.Process(context.Background(), ProcessParams{
		Ticker:     "TEST",
		Timeframe:  types.MustParseTimeframe("1Day"),
		StartDate:  "2023-02-20",
		Indicators: []string{"EMA_5", "SMA_5"},
	})
	suite.Require().NoError(err)

	// 10 bars, one day each
	suite.Equal(time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC), captured.Start.Unwrap())

	records := readCSV(&suite.Suite, result.Path)
	suite.Equal([]string{"date", "open", "high", "low", "close", "volume", "EMA_5"}, records[0])
}

func (suite *ClientTestSuite) TestOutputFileName() {
	window := FetchWindow{
		Ticker:         "AAPL",
		Timeframe:      types.MustParseTimeframe("1H"),
		RequestedStart: "2024-01-02T09:30:00Z",
		RequestedEnd:   optional.None[string](),
	}

	suite.Equal("AAPL_1Hour_2024-01-02T09-30-00Z_latest.csv", OutputFileName(window, writer.WriterCSV))
}
