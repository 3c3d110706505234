package types

import (
	"encoding/json"
	"math"
	"sort"
)

// NewBarTable converts bars into a table with canonical column names.
// Optional fields become columns only when at least one bar carries them.
// Extra provider fields are appended after the base columns, sorted by name.
func NewBarTable(bars []Bar) *Table {
	n := len(bars)
	table := NewTable()

	dates := make([]string, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	tradeCount := make([]float64, n)
	vwap := make([]float64, n)
	hasTradeCount, hasVWAP := false, false

	extraKeys := make(map[string]struct{})

	for i, bar := range bars {
		dates[i] = bar.Timestamp
		open[i] = bar.Open
		high[i] = bar.High
		low[i] = bar.Low
		closes[i] = bar.Close
		volume[i] = bar.Volume

		tradeCount[i] = math.NaN()
		if bar.TradeCount.IsSome() {
			tradeCount[i] = float64(bar.TradeCount.Unwrap())
			hasTradeCount = true
		}

		vwap[i] = math.NaN()
		if bar.VWAP.IsSome() {
			vwap[i] = bar.VWAP.Unwrap()
			hasVWAP = true
		}

		for k := range bar.Extra {
			extraKeys[k] = struct{}{}
		}
	}

	// lengths are equal by construction, so the errors below cannot happen
	_ = table.AddTextColumn(ColumnDate, dates)
	_ = table.AddNumberColumn(ColumnOpen, open)
	_ = table.AddNumberColumn(ColumnHigh, high)
	_ = table.AddNumberColumn(ColumnLow, low)
	_ = table.AddNumberColumn(ColumnClose, closes)
	_ = table.AddNumberColumn(ColumnVolume, volume)

	if hasTradeCount {
		_ = table.AddNumberColumn(ColumnTradeCount, tradeCount)
	}

	if hasVWAP {
		_ = table.AddNumberColumn(ColumnVWAP, vwap)
	}

	keys := make([]string, 0, len(extraKeys))
	for k := range extraKeys {
		if _, taken := table.Column(k); taken {
			continue
		}

		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, key := range keys {
		addExtraColumn(table, bars, key)
	}

	return table
}

func addExtraColumn(table *Table, bars []Bar, key string) {
	numeric := true

	for _, bar := range bars {
		v, ok := bar.Extra[key]
		if !ok || v == nil {
			continue
		}

		if _, isNumber := v.(float64); !isNumber {
			numeric = false

			break
		}
	}

	if numeric {
		values := make([]float64, len(bars))

		for i, bar := range bars {
			values[i] = math.NaN()
			if v, ok := bar.Extra[key].(float64); ok {
				values[i] = v
			}
		}

		_ = table.AddNumberColumn(key, values)

		return
	}

	values := make([]string, len(bars))
	for i, bar := range bars {
		values[i] = extraText(bar.Extra[key])
	}

	_ = table.AddTextColumn(key, values)
}

func extraText(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return ""
		}

		return string(encoded)
	}
}
