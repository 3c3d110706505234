package writer

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// RawArchiveSuffix is appended to the artifact name, replacing its extension.
const RawArchiveSuffix = ".raw.parquet"

// RawBar is a provider bar as received, keyed by the provider's short field names.
type RawBar struct {
	Symbol     string   `parquet:"symbol"`
	Timestamp  string   `parquet:"t"`
	Open       float64  `parquet:"o"`
	High       float64  `parquet:"h"`
	Low        float64  `parquet:"l"`
	Close      float64  `parquet:"c"`
	Volume     float64  `parquet:"v"`
	TradeCount *int64   `parquet:"n,optional"`
	VWAP       *float64 `parquet:"vw,optional"`
	// Extra is the JSON encoding of unrecognized fields, empty when there are none.
	Extra string `parquet:"extra"`
}

// NewRawBar converts a bar back to its received form.
func NewRawBar(bar types.Bar) (RawBar, error) {
	raw := RawBar{
		Symbol:    bar.Symbol,
		Timestamp: bar.Timestamp,
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    bar.Volume,
	}

	if bar.TradeCount.IsSome() {
		n := bar.TradeCount.Unwrap()
		raw.TradeCount = &n
	}

	if bar.VWAP.IsSome() {
		vw := bar.VWAP.Unwrap()
		raw.VWAP = &vw
	}

	if len(bar.Extra) > 0 {
		// map keys are encoded sorted
		extra, err := json.Marshal(bar.Extra)
		if err != nil {
			return RawBar{}, errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to encode extra fields", err)
		}

		raw.Extra = string(extra)
	}

	return raw, nil
}

// WriteRawArchive writes bars to a Parquet file at path.
func WriteRawArchive(path string, bars []types.Bar) error {
	rows := make([]RawBar, 0, len(bars))

	for _, bar := range bars {
		raw, err := NewRawBar(bar)
		if err != nil {
			return err
		}

		rows = append(rows, raw)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create archive directory", err)
	}

	if err := parquet.WriteFile(path, rows); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write raw archive", err)
	}

	return nil
}

// ReadRawArchive loads the rows of a raw archive.
func ReadRawArchive(path string) ([]RawBar, error) {
	rows, err := parquet.ReadFile[RawBar](path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to read raw archive", err)
	}

	return rows, nil
}
