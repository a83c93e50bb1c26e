package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules"
	"github.com/Sumatoshi-tech/tsguard/pkg/report"
)

// ruleEntry is the JSON shape of one rule in "tsguard rules --format json".
type ruleEntry struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	DefaultSeverity string          `json:"default_severity"`
	Description     string          `json:"description"`
	Schema          json.RawMessage `json:"schema,omitempty"`
}

func newRulesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the available rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metas := rules.Registry().All()
			out := cmd.OutOrStdout()

			switch format {
			case report.FormatText, report.FormatTable:
				report.RulesTable(out, metas)

				return nil
			case report.FormatJSON:
				entries := make([]ruleEntry, 0, len(metas))
				for _, meta := range metas {
					entries = append(entries, ruleEntry{
						ID:              meta.ID(),
						Category:        string(meta.Category),
						DefaultSeverity: meta.DefaultSeverity.String(),
						Description:     meta.Description,
						Schema:          json.RawMessage(meta.Schema),
					})
				}

				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(entries)
			default:
				return fmt.Errorf("%w: %s (use text or json)", report.ErrUnknownFormat, format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "output format: text, json")

	return cmd
}
