package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/report"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

const source = "type A = string;\ninterface Base {}\n"

func init() {
	color.NoColor = true
}

func sampleRun() *report.Run {
	diag := lint.Diagnostic{
		Rule:     "typescript/no-empty-object-type",
		Severity: lint.SeverityError,
		Message:  `Disallow accidentally using the "empty object" type.`,
		Help:     "help text",
		File:     "src/base.ts",
		Span: syntax.Span{
			StartByte: 27, EndByte: 31,
			StartLine: 2, StartColumn: 11,
			EndLine: 2, EndColumn: 15,
		},
	}

	warn := diag
	warn.Severity = lint.SeverityWarn
	warn.File = "src/other.ts"

	return &report.Run{
		ToolVersion: "1.2.3",
		Rules: []lint.Meta{{
			Name:            "no-empty-object-type",
			Plugin:          "typescript",
			DefaultSeverity: lint.SeverityWarn,
			Description:     "Disallow accidentally using the empty object type",
		}},
		Results: []lint.FileResult{
			{Path: "src/base.ts", Language: "typescript", Size: len(source), Diagnostics: []lint.Diagnostic{diag}},
			{Path: "src/other.ts", Language: "typescript", Size: 2048, Diagnostics: []lint.Diagnostic{warn}},
			{Path: "src/clean.ts", Language: "typescript", Size: 10},
			{Path: "src/huge.ts", Size: 1 << 30, Skipped: lint.SkipTooLarge},
			{Path: "src/broken.ts", Err: errors.New("boom")},
		},
	}
}

func TestNewReporter(t *testing.T) {
	t.Parallel()

	for _, format := range report.AvailableFormats() {
		rep, err := report.NewReporter(format)
		require.NoError(t, err)
		assert.Equal(t, format, rep.Format())
	}

	_, err := report.NewReporter("html")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	sum := report.Summarize(sampleRun().Results)
	assert.Equal(t, report.Summary{
		Files:    3,
		Skipped:  1,
		Failed:   1,
		Errors:   1,
		Warnings: 1,
		Bytes:    uint64(len(source) + 2048 + 10),
	}, sum)

	assert.Equal(t,
		"Found 1 error and 1 warning in 3 files (2.1 kB checked). Skipped 1 file. Failed to lint 1 file.",
		sum.String())
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	rep := &report.TextReporter{ReadFile: func(path string) ([]byte, error) {
		if path == "src/base.ts" {
			return []byte(source), nil
		}

		return nil, errors.New("not found")
	}}

	var buf bytes.Buffer
	require.NoError(t, rep.Write(&buf, sampleRun()))

	out := buf.String()
	assert.Contains(t, out, `src/base.ts:2:11 error typescript/no-empty-object-type Disallow accidentally using the "empty object" type.`)
	assert.Contains(t, out, "  2 | interface Base {}\n")
	assert.Contains(t, out, "    | "+strings.Repeat(" ", 10)+"^^^^\n")
	assert.Contains(t, out, "  help: help text")
	assert.Contains(t, out, "src/other.ts:2:11 warn typescript/no-empty-object-type")
	assert.Contains(t, out, "src/broken.ts: boom")
	assert.NotContains(t, out, "src/clean.ts")
	assert.True(t, strings.HasSuffix(out, "Failed to lint 1 file.\n"))
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&report.JSONReporter{Indent: true}).Write(&buf, sampleRun()))

	var doc struct {
		Version string `json:"version"`
		Files   []struct {
			Path        string            `json:"path"`
			Skipped     string            `json:"skipped"`
			Error       string            `json:"error"`
			Diagnostics []json.RawMessage `json:"diagnostics"`
		} `json:"files"`
		Summary report.Summary `json:"summary"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "1.2.3", doc.Version)
	require.Len(t, doc.Files, 5)
	assert.Len(t, doc.Files[0].Diagnostics, 1)
	assert.NotNil(t, doc.Files[2].Diagnostics)
	assert.Equal(t, lint.SkipTooLarge, doc.Files[3].Skipped)
	assert.Equal(t, "boom", doc.Files[4].Error)
	assert.Equal(t, 1, doc.Summary.Errors)

	assert.Contains(t, buf.String(), `"severity": "error"`)
	assert.Contains(t, buf.String(), `"start_line": 2`)
}

func TestYAMLReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&report.YAMLReporter{}).Write(&buf, sampleRun()))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	files, ok := doc["files"].([]any)
	require.True(t, ok)
	assert.Len(t, files, 5)
	assert.Contains(t, buf.String(), "severity: warn")
	assert.Contains(t, buf.String(), "rule: typescript/no-empty-object-type")
}

func TestSARIFReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&report.SARIFReporter{}).Write(&buf, sampleRun()))

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				RuleIndex int    `json:"ruleIndex"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
							CharLength  int `json:"charLength"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}

	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)

	run := doc.Runs[0]
	assert.Equal(t, "tsguard", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 1)
	require.Len(t, run.Results, 2)

	first := run.Results[0]
	assert.Equal(t, "typescript/no-empty-object-type", first.RuleID)
	assert.Equal(t, 0, first.RuleIndex)
	assert.Equal(t, "error", first.Level)
	assert.Equal(t, "warning", run.Results[1].Level)
	require.Len(t, first.Locations, 1)
	assert.Equal(t, "src/base.ts", first.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	assert.Equal(t, 2, first.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, 11, first.Locations[0].PhysicalLocation.Region.StartColumn)
	assert.Equal(t, 4, first.Locations[0].PhysicalLocation.Region.CharLength)
}

func TestTableReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, (&report.TableReporter{}).Write(&buf, sampleRun()))

	out := buf.String()
	assert.Contains(t, out, "typescript/no-empty-object-type")
	assert.Contains(t, out, "error")
	assert.Contains(t, out, "warn")
	assert.Contains(t, out, "Found 1 error and 1 warning")
}

func TestRulesTable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	report.RulesTable(&buf, sampleRun().Rules)

	out := buf.String()
	assert.Contains(t, out, "typescript/no-empty-object-type")
	assert.Contains(t, strings.ToLower(out), "total: 1 rules")
}
