// Package report renders lint results for humans and machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

// ErrUnknownFormat is returned by NewReporter for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatSARIF = "sarif"
	FormatTable = "table"
)

// Run is everything a reporter needs about one lint invocation.
type Run struct {
	Results     []lint.FileResult
	Rules       []lint.Meta
	ToolVersion string
}

// Reporter writes a Run in one output format.
type Reporter interface {
	Write(w io.Writer, run *Run) error
	Format() string
}

// NewReporter creates a reporter for the given format.
func NewReporter(format string) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{}, nil
	case FormatJSON:
		return &JSONReporter{Indent: true}, nil
	case FormatYAML:
		return &YAMLReporter{}, nil
	case FormatSARIF:
		return &SARIFReporter{}, nil
	case FormatTable:
		return &TableReporter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// AvailableFormats returns the list of supported formats.
func AvailableFormats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatSARIF, FormatTable}
}

// Summary aggregates a run.
type Summary struct {
	Files    int    `json:"files"    yaml:"files"`
	Skipped  int    `json:"skipped"  yaml:"skipped"`
	Failed   int    `json:"failed"   yaml:"failed"`
	Errors   int    `json:"errors"   yaml:"errors"`
	Warnings int    `json:"warnings" yaml:"warnings"`
	Bytes    uint64 `json:"bytes"    yaml:"bytes"`
}

// Summarize counts findings and files of a run.
func Summarize(results []lint.FileResult) Summary {
	var sum Summary

	for _, res := range results {
		switch {
		case res.Err != nil:
			sum.Failed++
		case res.Skipped != "":
			sum.Skipped++
		default:
			sum.Files++
			sum.Bytes += uint64(res.Size) //nolint:gosec // sizes are non-negative
		}

		for _, diag := range res.Diagnostics {
			switch diag.Severity {
			case lint.SeverityError:
				sum.Errors++
			case lint.SeverityWarn:
				sum.Warnings++
			case lint.SeverityOff:
			}
		}
	}

	return sum
}

// String renders the one-line summary printed after text output.
func (s Summary) String() string {
	line := fmt.Sprintf("Found %s and %s in %s (%s checked).",
		plural(s.Errors, "error"),
		plural(s.Warnings, "warning"),
		plural(s.Files, "file"),
		humanize.Bytes(s.Bytes),
	)

	if s.Skipped > 0 {
		line += fmt.Sprintf(" Skipped %s.", plural(s.Skipped, "file"))
	}

	if s.Failed > 0 {
		line += fmt.Sprintf(" Failed to lint %s.", plural(s.Failed, "file"))
	}

	return line
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}

	return humanize.Comma(int64(n)) + " " + noun + "s"
}

// ruleCount is the number of findings for one rule at one severity.
type ruleCount struct {
	Rule     string
	Severity lint.Severity
	Count    int
}

func countByRule(results []lint.FileResult) []ruleCount {
	type key struct {
		rule     string
		severity lint.Severity
	}

	counts := make(map[key]int)

	for _, res := range results {
		for _, diag := range res.Diagnostics {
			counts[key{rule: diag.Rule, severity: diag.Severity}]++
		}
	}

	out := make([]ruleCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, ruleCount{Rule: k.rule, Severity: k.severity, Count: n})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}

		if out[i].Rule != out[j].Rule {
			return out[i].Rule < out[j].Rule
		}

		return out[i].Severity > out[j].Severity
	})

	return out
}
