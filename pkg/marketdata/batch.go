package marketdata

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"go.uber.org/zap"
)

// BatchParams describes a run over several tickers sharing the same range.
type BatchParams struct {
	Tickers    []string
	Timeframe  types.Timeframe
	StartDate  string
	EndDate    optional.Option[string]
	Indicators []string
}

// TickerStatus is the outcome of one ticker in a batch.
type TickerStatus string

const (
	TickerSucceeded TickerStatus = "success"
	TickerNoData    TickerStatus = "no_data"
	TickerFailed    TickerStatus = "failed"
)

// TickerReport is the outcome of processing one ticker.
type TickerReport struct {
	Ticker string
	Path   string
	NoData bool
	Rows   int
	Err    error
}

// Status classifies the report.
func (r TickerReport) Status() TickerStatus {
	switch {
	case r.Err != nil:
		return TickerFailed
	case r.NoData:
		return TickerNoData
	default:
		return TickerSucceeded
	}
}

// BatchReport collects the ticker reports of a run in input order.
type BatchReport struct {
	RunID      string
	Tickers    []TickerReport
	Successful int
}

// Total is the number of tickers attempted.
func (r BatchReport) Total() int {
	return len(r.Tickers)
}

// Run processes tickers one after another. A failing ticker is recorded and
// does not stop the batch.
func (c *Client) Run(ctx context.Context, params BatchParams) BatchReport {
	report := BatchReport{
		RunID:   uuid.New().String(),
		Tickers: make([]TickerReport, 0, len(params.Tickers)),
	}

	log := c.logger.With(zap.String("run_id", report.RunID))
	log.Info("Processing tickers",
		zap.Int("tickers", len(params.Tickers)),
		zap.String("timeframe", params.Timeframe.String()),
		zap.Strings("indicators", params.Indicators))

	for _, ticker := range params.Tickers {
		result, err := c.Process(ctx, ProcessParams{
			Ticker:     ticker,
			Timeframe:  params.Timeframe,
			StartDate:  params.StartDate,
			EndDate:    params.EndDate,
			Indicators: params.Indicators,
		})

		tickerReport := TickerReport{
			Ticker: ticker,
			Path:   result.Path,
			NoData: result.NoData,
			Rows:   result.Rows,
			Err:    err,
		}

		if err != nil {
			log.Error("Ticker failed", zap.String("ticker", ticker), zap.Error(err))
		}

		if tickerReport.Status() == TickerSucceeded {
			report.Successful++
		}

		report.Tickers = append(report.Tickers, tickerReport)
	}

	log.Info("Job complete", zap.Int("successful", report.Successful), zap.Int("total", report.Total()))

	return report
}

// SplitTickers splits a comma separated list, trimming and upper-casing each
// symbol. Empty entries are dropped.
func SplitTickers(list string) []string {
	var tickers []string

	for _, part := range strings.Split(list, ",") {
		ticker := strings.ToUpper(strings.TrimSpace(part))
		if ticker != "" {
			tickers = append(tickers, ticker)
		}
	}

	return tickers
}

// SplitIndicators splits a comma separated list of specifiers, trimming each.
// Empty entries are dropped and case is preserved, since output columns are
// named after the specifier as written.
func SplitIndicators(list string) []string {
	var specifiers []string

	for _, part := range strings.Split(list, ",") {
		spec := strings.TrimSpace(part)
		if spec != "" {
			specifiers = append(specifiers, spec)
		}
	}

	return specifiers
}
