package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rxtech-lab/argo-bars/internal/indicator"
	"github.com/rxtech-lab/argo-bars/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

func indicatorsAction(_ context.Context, cmd *cli.Command) error {
	registry := indicator.NewDefaultRegistry()
	out := stdout(cmd)

	fmt.Fprintln(out, TitleStyle.Render("Supported indicators"))

	for _, name := range registry.ListIndicators() {
		descriptor, err := registry.GetIndicator(name)
		if err != nil {
			return err
		}

		period := "-"
		if descriptor.Period.Tunable {
			period = fmt.Sprintf("%d", descriptor.Period.Default)
		}

		outputs := ""
		if len(descriptor.Outputs) > 1 {
			outputs = HelpStyle.Render(" outputs: " + strings.Join(descriptor.Outputs, ", "))
		}

		fmt.Fprintf(out, "  %-8s period %-4s%s\n", name, period, outputs)
	}

	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	schema, err := marketdata.JobConfigSchema()
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout(cmd), schema)

	return nil
}
