package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rxtech-lab/argo-bars/pkg/marketdata"
)

func printHeader(w io.Writer, params marketdata.BatchParams) {
	fmt.Fprintln(w, TitleStyle.Render(fmt.Sprintf("Processing %d tickers...", len(params.Tickers))))
	fmt.Fprintf(w, "Timeframe: %s\n", params.Timeframe)
	fmt.Fprintf(w, "Indicators: [%s]\n", strings.Join(params.Indicators, ", "))
}

func summaryLine(report marketdata.TickerReport) string {
	switch report.Status() {
	case marketdata.TickerFailed:
		return FailureStyle.Render(fmt.Sprintf("✗ %s: Failed - %v", report.Ticker, report.Err))
	case marketdata.TickerNoData:
		return WarningStyle.Render(fmt.Sprintf("⚠ %s: No data exported", report.Ticker))
	default:
		return SuccessStyle.Render(fmt.Sprintf("✓ %s: Saved to %s", report.Ticker, report.Path))
	}
}

func printSummary(w io.Writer, report marketdata.BatchReport) {
	for _, ticker := range report.Tickers {
		fmt.Fprintln(w, summaryLine(ticker))
	}

	fmt.Fprintln(w, SummaryStyle.Render(fmt.Sprintf("Job Complete. Successful: %d/%d", report.Successful, report.Total())))
}
