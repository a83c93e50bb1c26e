package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

// TableReporter prints findings aggregated per rule and severity.
type TableReporter struct{}

// Format returns the format name.
func (r *TableReporter) Format() string { return FormatTable }

// Write renders the run.
func (r *TableReporter) Write(w io.Writer, run *Run) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Rule", "Severity", "Findings"})

	total := 0

	for _, rc := range countByRule(run.Results) {
		tbl.AppendRow(table.Row{rc.Rule, rc.Severity.String(), rc.Count})
		total += rc.Count
	}

	tbl.AppendFooter(table.Row{"Total", "", total})
	tbl.Render()

	_, err := fmt.Fprintln(w, Summarize(run.Results).String())
	if err != nil {
		return fmt.Errorf("write table report: %w", err)
	}

	return nil
}

// RulesTable renders rule metadata, used by the rules command.
func RulesTable(w io.Writer, metas []lint.Meta) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Rule", "Category", "Default", "Description"})

	for _, meta := range metas {
		tbl.AppendRow(table.Row{meta.ID(), string(meta.Category), meta.DefaultSeverity.String(), meta.Description})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d rules", len(metas))})
	tbl.Render()
}
