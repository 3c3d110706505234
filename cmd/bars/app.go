package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rxtech-lab/argo-bars/internal/version"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/writer"
	"github.com/urfave/cli/v3"
)

// newApp builds the command tree. Root flags are inherited by the fetch
// subcommand. Client options are applied to every client it creates.
func newApp(clientOpts ...marketdata.ClientOption) *cli.Command {
	action := fetchAction(clientOpts)

	return &cli.Command{
		Name:    "argo-bars",
		Usage:   "Download historical bars, add technical indicators and export them per ticker",
		Version: version.GetVersion(),
		Flags:   fetchFlags(),
		Action:  action,
		Commands: []*cli.Command{
			{
				Name:   "fetch",
				Usage:  "Fetch bars for the given tickers (default)",
				Action: action,
			},
			{
				Name:   "indicators",
				Usage:  "List the supported indicators",
				Action: indicatorsAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the job file",
				Action: schemaAction,
			},
		},
	}
}

func fetchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "tickers",
			Aliases: []string{"t"},
			Usage:   "Comma separated symbols, e.g. `AAPL,MSFT` (required unless --config is given)",
		},
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "First date to export in `YYYY-MM-DD` format (or RFC 3339)",
		},
		&cli.StringFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "Last date to fetch. Open-ended when omitted",
		},
		&cli.StringFlag{
			Name:  "timeframe",
			Usage: "Bar size, e.g. 1Day, 1Hour or 15Min",
			Value: "1Day",
		},
		&cli.StringFlag{
			Name:    "indicators",
			Aliases: []string{"i"},
			Usage:   "Comma separated indicator specifiers, e.g. `SMA_50,RSI_14`",
		},
		&cli.StringFlag{
			Name:    "output-dir",
			Aliases: []string{"o"},
			Usage:   "Directory the exported files are written to",
			Value:   "data",
		},
		&cli.StringFlag{
			Name:    "provider",
			Aliases: []string{"p"},
			Usage: fmt.Sprintf("Data provider (%s, %s or %s)",
				provider.ProviderAlpaca, provider.ProviderPolygon, provider.ProviderBinance),
			Value: string(provider.ProviderAlpaca),
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: fmt.Sprintf("Output format (%s or %s)", writer.WriterCSV, writer.WriterParquet),
			Value: string(writer.WriterCSV),
		},
		&cli.StringFlag{
			Name:  "calendar",
			Usage: fmt.Sprintf("Warm-up calendar (%s or %s)", marketdata.CalendarFixed, marketdata.CalendarWeekday),
			Value: string(marketdata.CalendarFixed),
		},
		&cli.IntFlag{
			Name:  "page-limit",
			Usage: "Bars requested per page",
			Value: provider.DefaultPageLimit,
		},
		&cli.IntFlag{
			Name:  "precision",
			Usage: "Decimal places of written numbers, -1 keeps full precision",
			Value: writer.DefaultPrecision,
		},
		&cli.BoolFlag{
			Name:  "archive-raw",
			Usage: "Also save the raw fetched bars as Parquet next to each export",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics of the run to this file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level (debug, info, warn, error)",
			Value: "info",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Read the job from a YAML file instead of flags",
		},
	}
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}
