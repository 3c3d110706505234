package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.Count = 100

	bars := gen.Generate(config)

	if len(bars) != 100 {
		t.Fatalf("expected 100 bars, got %d", len(bars))
	}

	for i := 1; i < len(bars); i++ {
		if bars[i].Timestamp <= bars[i-1].Timestamp {
			t.Errorf("bars not in chronological order at index %d", i)
		}
	}

	for i, b := range bars {
		if b.Symbol != config.Symbol {
			t.Errorf("expected symbol %s at index %d, got %s", config.Symbol, i, b.Symbol)
		}

		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f",
				i, b.Open, b.High, b.Low, b.Close)
		}

		if b.High < b.Low {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, b.High, b.Low)
		}

		if b.TradeCount.IsNone() || b.VWAP.IsNone() {
			t.Errorf("expected trade stats at index %d", i)
		}
	}

	first, err := time.Parse(time.RFC3339, bars[0].Timestamp)
	if err != nil {
		t.Fatalf("timestamp not RFC 3339: %v", err)
	}

	second, _ := time.Parse(time.RFC3339, bars[1].Timestamp)
	if second.Sub(first) != config.Interval {
		t.Errorf("unexpected interval: expected %v, got %v", config.Interval, second.Sub(first))
	}
}

func TestDataGenerator_WithoutTradeStats(t *testing.T) {
	config := DefaultConfig()
	config.Count = 5
	config.WithTradeStats = false

	for i, b := range NewDataGenerator(1).Generate(config) {
		if b.TradeCount.IsSome() || b.VWAP.IsSome() {
			t.Errorf("unexpected trade stats at index %d", i)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	bars1 := NewDataGenerator(42).Generate(config)
	bars2 := NewDataGenerator(42).Generate(config)

	for i := range bars1 {
		if bars1[i].Close != bars2[i].Close {
			t.Errorf("bars not reproducible at index %d: got %f and %f",
				i, bars1[i].Close, bars2[i].Close)
		}
	}
}

func TestDataGenerator_DifferentSeeds(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	bars1 := NewDataGenerator(42).Generate(config)
	bars2 := NewDataGenerator(123).Generate(config)

	sameCount := 0
	for i := range bars1 {
		if bars1[i].Close == bars2[i].Close {
			sameCount++
		}
	}

	if sameCount == len(bars1) {
		t.Error("different seeds produced identical bars")
	}
}

func TestGenerateMultiSymbol(t *testing.T) {
	config := DefaultConfig()
	config.Count = 3

	bars := NewDataGenerator(7).GenerateMultiSymbol([]string{"AAPL", "MSFT"}, config)
	if len(bars) != 6 {
		t.Fatalf("expected 6 bars, got %d", len(bars))
	}

	if bars[0].Symbol != "AAPL" || bars[3].Symbol != "MSFT" {
		t.Errorf("unexpected symbol order: %s, %s", bars[0].Symbol, bars[3].Symbol)
	}
}

func TestFlatDailyBars(t *testing.T) {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := FlatDailyBars("TEST", start, 3, 100)

	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}

	if bars[0].Timestamp != "2023-01-01T00:00:00Z" || bars[2].Timestamp != "2023-01-03T00:00:00Z" {
		t.Errorf("unexpected timestamps: %s .. %s", bars[0].Timestamp, bars[2].Timestamp)
	}

	if bars[1].Close != 100 || bars[1].Volume != 1000 {
		t.Errorf("unexpected values: close=%f volume=%f", bars[1].Close, bars[1].Volume)
	}
}
