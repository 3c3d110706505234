package types

import (
	"encoding/json"
	"sort"

	"github.com/moznion/go-optional"
)

// Canonical column names of a bar table.
const (
	ColumnDate       = "date"
	ColumnOpen       = "open"
	ColumnHigh       = "high"
	ColumnLow        = "low"
	ColumnClose      = "close"
	ColumnVolume     = "volume"
	ColumnTradeCount = "trade_count"
	ColumnVWAP       = "vwap"
)

// BaseColumns is the leading column order of every exported table.
// trade_count and vwap are only emitted when present.
var BaseColumns = []string{
	ColumnDate,
	ColumnOpen,
	ColumnHigh,
	ColumnLow,
	ColumnClose,
	ColumnVolume,
	ColumnTradeCount,
	ColumnVWAP,
}

// Short field names used by the bars endpoint.
var barShortNames = map[string]string{
	"t":  ColumnDate,
	"o":  ColumnOpen,
	"h":  ColumnHigh,
	"l":  ColumnLow,
	"c":  ColumnClose,
	"v":  ColumnVolume,
	"n":  ColumnTradeCount,
	"vw": ColumnVWAP,
}

// CanonicalFieldName maps a provider field name to the column name used in tables.
// Unknown names are returned unchanged.
func CanonicalFieldName(name string) string {
	if canonical, ok := barShortNames[name]; ok {
		return canonical
	}

	return name
}

// Bar is a single OHLCV observation as received from a provider.
type Bar struct {
	Symbol     string
	Timestamp  string
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	TradeCount optional.Option[int64]
	VWAP       optional.Option[float64]
	// Extra holds fields the provider sent that have no canonical meaning.
	Extra map[string]any
}

// ExtraKeys returns the names of the extra fields in sorted order.
func (b Bar) ExtraKeys() []string {
	keys := make([]string, 0, len(b.Extra))
	for k := range b.Extra {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// UnmarshalJSON decodes a bar record with short field names (t, o, h, l, c, v, n, vw).
func (b *Bar) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := Bar{Symbol: b.Symbol}

	for key, value := range raw {
		var err error

		switch key {
		case "t":
			err = json.Unmarshal(value, &decoded.Timestamp)
		case "o":
			err = json.Unmarshal(value, &decoded.Open)
		case "h":
			err = json.Unmarshal(value, &decoded.High)
		case "l":
			err = json.Unmarshal(value, &decoded.Low)
		case "c":
			err = json.Unmarshal(value, &decoded.Close)
		case "v":
			err = json.Unmarshal(value, &decoded.Volume)
		case "n":
			var n int64

			err = json.Unmarshal(value, &n)
			if err == nil {
				decoded.TradeCount = optional.Some(n)
			}
		case "vw":
			var vw float64

			err = json.Unmarshal(value, &vw)
			if err == nil {
				decoded.VWAP = optional.Some(vw)
			}
		default:
			var extra any

			err = json.Unmarshal(value, &extra)
			if err == nil {
				if decoded.Extra == nil {
					decoded.Extra = make(map[string]any)
				}

				decoded.Extra[key] = extra
			}
		}

		if err != nil {
			return err
		}
	}

	*b = decoded

	return nil
}

// MarshalJSON encodes the bar back into the short field form.
func (b Bar) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, 8+len(b.Extra))
	for k, v := range b.Extra {
		out[k] = v
	}

	out["t"] = b.Timestamp
	out["o"] = b.Open
	out["h"] = b.High
	out["l"] = b.Low
	out["c"] = b.Close
	out["v"] = b.Volume

	if b.TradeCount.IsSome() {
		out["n"] = b.TradeCount.Unwrap()
	}

	if b.VWAP.IsSome() {
		out["vw"] = b.VWAP.Unwrap()
	}

	return json.Marshal(out)
}
