package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/types"
)

// DataGenerator generates realistic bar series for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the ticker (e.g., "AAPL", "SPY")
	Symbol string
	// StartTime is the timestamp of the first bar
	StartTime time.Time
	// Interval is the duration between each bar
	Interval time.Duration
	// Count is the number of bars to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical volatility per bar)
	Volatility float64
	// Trend is the drift over the whole series (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
	// WithTradeStats fills trade count and vwap
	WithTradeStats bool
}

// DefaultConfig returns daily bars starting on the first trading day of 2024.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 2, 5, 0, 0, 0, time.UTC),
		Interval:       24 * time.Hour,
		Count:          250,
		InitialPrice:   100.0,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     1000000,
		VolumeVariance: 0.3,
		WithTradeStats: true,
	}
}

// Generate creates bars following a geometric Brownian motion model.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.Bar {
	bars := make([]types.Bar, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, closePrice) + highExtension
		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bar := types.Bar{
			Symbol:     config.Symbol,
			Timestamp:  currentTime.UTC().Format(time.RFC3339),
			Open:       roundToDecimals(open, 4),
			High:       roundToDecimals(high, 4),
			Low:        roundToDecimals(low, 4),
			Close:      roundToDecimals(closePrice, 4),
			Volume:     math.Round(volume),
			TradeCount: optional.None[int64](),
			VWAP:       optional.None[float64](),
		}

		if config.WithTradeStats {
			bar.TradeCount = optional.Some(int64(volume / 100))
			bar.VWAP = optional.Some(roundToDecimals((high+low+closePrice)/3, 4))
		}

		bars[i] = bar

		currentPrice = closePrice
		currentTime = currentTime.Add(config.Interval)
	}

	return bars
}

// GenerateMultiSymbol generates a series for each symbol, one after another.
func (g *DataGenerator) GenerateMultiSymbol(symbols []string, baseConfig GeneratorConfig) []types.Bar {
	var all []types.Bar

	for _, symbol := range symbols {
		config := baseConfig
		config.Symbol = symbol
		// Vary initial price and volatility slightly per symbol
		config.InitialPrice = baseConfig.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		config.Volatility = baseConfig.Volatility * (0.8 + g.rng.Float64()*0.4)

		all = append(all, g.Generate(config)...)
	}

	return all
}

// FlatDailyBars returns count daily bars at a constant price, one per calendar
// day starting at start. Timestamps are RFC 3339 at midnight UTC.
func FlatDailyBars(symbol string, start time.Time, count int, price float64) []types.Bar {
	bars := make([]types.Bar, count)

	for i := range bars {
		bars[i] = types.Bar{
			Symbol:     symbol,
			Timestamp:  start.AddDate(0, 0, i).UTC().Format(time.RFC3339),
			Open:       price,
			High:       price + 5,
			Low:        price - 5,
			Close:      price,
			Volume:     1000,
			TradeCount: optional.None[int64](),
			VWAP:       optional.None[float64](),
		}
	}

	return bars
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
