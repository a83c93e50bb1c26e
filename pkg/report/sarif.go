package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
	toolName     = "tsguard"
)

// SARIFReporter generates SARIF 2.1.0 reports.
type SARIFReporter struct{}

// Format returns the format name.
func (r *SARIFReporter) Format() string { return FormatSARIF }

type sarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version,omitempty"`
	Rules   []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	DefaultConfig    sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysical `json:"physicalLocation"`
}

type sarifPhysical struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn"`
	EndLine     int `json:"endLine"`
	EndColumn   int `json:"endColumn"`
	CharOffset  int `json:"charOffset"`
	CharLength  int `json:"charLength"`
}

// Write renders the run.
func (r *SARIFReporter) Write(w io.Writer, run *Run) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(r.buildReport(run))
	if err != nil {
		return fmt.Errorf("write sarif report: %w", err)
	}

	return nil
}

func (r *SARIFReporter) buildReport(run *Run) *sarifReport {
	driver := sarifDriver{Name: toolName, Version: run.ToolVersion}
	index := make(map[string]int, len(run.Rules))

	for _, meta := range run.Rules {
		index[meta.ID()] = len(driver.Rules)
		driver.Rules = append(driver.Rules, sarifRule{
			ID:               meta.ID(),
			Name:             meta.Name,
			ShortDescription: sarifMessage{Text: meta.Description},
			DefaultConfig:    sarifConfig{Level: mapLevel(meta.DefaultSeverity)},
		})
	}

	report := &sarifReport{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:    sarifTool{Driver: driver},
			Results: []sarifResult{},
		}},
	}

	for _, res := range run.Results {
		for _, diag := range res.Diagnostics {
			ruleIndex, ok := index[diag.Rule]
			if !ok {
				ruleIndex = -1
			}

			text := diag.Message
			if diag.Help != "" {
				text += " " + diag.Help
			}

			report.Runs[0].Results = append(report.Runs[0].Results, sarifResult{
				RuleID:    diag.Rule,
				RuleIndex: ruleIndex,
				Level:     mapLevel(diag.Severity),
				Message:   sarifMessage{Text: text},
				Locations: []sarifLocation{{
					PhysicalLocation: sarifPhysical{
						ArtifactLocation: sarifArtifact{URI: filepath.ToSlash(diag.File)},
						Region: sarifRegion{
							StartLine:   diag.Span.StartLine,
							StartColumn: diag.Span.StartColumn,
							EndLine:     diag.Span.EndLine,
							EndColumn:   diag.Span.EndColumn,
							CharOffset:  diag.Span.StartByte,
							CharLength:  diag.Span.Len(),
						},
					},
				}},
			})
		}
	}

	return report
}

func mapLevel(severity lint.Severity) string {
	switch severity {
	case lint.SeverityError:
		return "error"
	case lint.SeverityWarn:
		return "warning"
	default:
		return "none"
	}
}
