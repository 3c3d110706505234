package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-bars/internal/logger"
	"github.com/rxtech-lab/argo-bars/internal/metrics"
	"github.com/rxtech-lab/argo-bars/internal/version"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func fetchAction(clientOpts []marketdata.ClientOption) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		log, err := logger.NewLoggerWithLevel(cmd.String("log-level"))
		if err != nil {
			return err
		}

		defer func() { _ = log.Sync() }()

		job, err := jobFromCommand(cmd)
		if err != nil {
			return err
		}

		params, err := job.ToBatchParams()
		if err != nil {
			return err
		}

		credentials := marketdata.CredentialsFromEnv(provider.ProviderType(job.Provider), nil)

		progress := newProgressObserver(stderr(cmd))
		observers := provider.MultiObserver{progress}

		var runMetrics *metrics.Metrics
		if cmd.String("metrics-file") != "" {
			runMetrics = metrics.NewMetrics()
			observers = append(observers, runMetrics)
		}

		client, err := marketdata.NewClient(job.ToClientConfig(credentials), log, observers, clientOpts...)
		if err != nil {
			return err
		}

		out := stdout(cmd)
		printHeader(out, params)

		report := client.Run(ctx, params)
		progress.Finish()

		printSummary(out, report)

		if runMetrics != nil {
			for _, ticker := range report.Tickers {
				runMetrics.ObserveTicker(string(ticker.Status()))
			}

			if err := runMetrics.WriteToTextfile(cmd.String("metrics-file")); err != nil {
				log.Warn("Failed to write metrics", zap.Error(err))
			}
		}

		return nil
	}
}

// jobFromCommand reads the job from --config, or assembles it from the flags.
// Both paths go through the same defaults and validation.
func jobFromCommand(cmd *cli.Command) (*marketdata.JobConfig, error) {
	if path := cmd.String("config"); path != "" {
		return marketdata.LoadJobConfig(path)
	}

	if cmd.String("tickers") == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "--tickers is required unless --config is given")
	}

	if cmd.String("start") == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "--start is required")
	}

	job := &marketdata.JobConfig{
		Version:    version.JobSchemaVersion,
		Provider:   cmd.String("provider"),
		Tickers:    marketdata.SplitTickers(cmd.String("tickers")),
		Start:      cmd.String("start"),
		End:        cmd.String("end"),
		Timeframe:  cmd.String("timeframe"),
		Indicators: marketdata.SplitIndicators(cmd.String("indicators")),
		OutputDir:  cmd.String("output-dir"),
		Format:     cmd.String("format"),
		Calendar:   cmd.String("calendar"),
		PageLimit:  int(cmd.Int("page-limit")),
		ArchiveRaw: cmd.Bool("archive-raw"),
	}

	if precision := int(cmd.Int("precision")); precision >= 0 {
		job.Precision = &precision
	}

	job.ApplyDefaults()

	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}

	return job, nil
}
