package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules"
	"github.com/Sumatoshi-tech/tsguard/pkg/lsp"
	"github.com/Sumatoshi-tech/tsguard/pkg/observability"
	"github.com/Sumatoshi-tech/tsguard/pkg/version"
)

func newLSPCommand(flags *globalFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server (LSP)",
		Long: `Start a language server on stdio. Diagnostics are published for open
TypeScript and TSX documents on open, change and save.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := flags.startSession(observability.ModeLSP, metricsAddr != "")
			if err != nil {
				return err
			}
			defer sess.close()

			stopMetrics := sess.serveMetrics(metricsAddr)
			defer func() { _ = stopMetrics(context.Background()) }()

			settings, err := sess.cfg.RuleSettings()
			if err != nil {
				return err
			}

			linter, _, err := sess.newLinter(rules.Registry(), settings)
			if err != nil {
				return err
			}

			return lsp.NewServer(linter, sess.logger(), version.Version).Run()
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")

	return cmd
}
