package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules"
	"github.com/Sumatoshi-tech/tsguard/pkg/mcp"
	"github.com/Sumatoshi-tech/tsguard/pkg/observability"
	"github.com/Sumatoshi-tech/tsguard/pkg/version"
)

func newMCPCommand(flags *globalFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes tsguard as tools that AI agents can discover and invoke:
  - tsguard_lint: Lint inline TypeScript or TSX code
  - tsguard_rules: List the available rules and their options schema`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.logJSON = true

			sess, err := flags.startSession(observability.ModeMCP, metricsAddr != "")
			if err != nil {
				return err
			}
			defer sess.close()

			stopMetrics := sess.serveMetrics(metricsAddr)
			defer func() { _ = stopMetrics(context.Background()) }()

			red, err := observability.NewREDMetrics(sess.providers.Meter)
			if err != nil {
				return err
			}

			lintMetrics, err := observability.NewLintMetrics(sess.providers.Meter)
			if err != nil {
				return err
			}

			settings, err := sess.cfg.RuleSettings()
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:      sess.logger(),
				Metrics:     red,
				Tracer:      sess.providers.Tracer,
				LintMetrics: lintMetrics,
				Registry:    rules.Registry(),
				Settings:    settings,
				Version:     version.Version,
			})

			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")

	return cmd
}
