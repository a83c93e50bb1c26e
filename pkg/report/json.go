package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

// JSONReporter writes the run as a JSON document.
type JSONReporter struct {
	Indent bool
}

// Format returns the format name.
func (r *JSONReporter) Format() string { return FormatJSON }

// Write renders the run.
func (r *JSONReporter) Write(w io.Writer, run *Run) error {
	encoder := json.NewEncoder(w)
	if r.Indent {
		encoder.SetIndent("", "  ")
	}

	err := encoder.Encode(newDocument(run))
	if err != nil {
		return fmt.Errorf("write json report: %w", err)
	}

	return nil
}

// document is the shared JSON/YAML shape.
type document struct {
	Version string         `json:"version,omitempty" yaml:"version,omitempty"`
	Files   []fileDocument `json:"files"             yaml:"files"`
	Summary Summary        `json:"summary"           yaml:"summary"`
}

type fileDocument struct {
	Path        string            `json:"path"               yaml:"path"`
	Language    string            `json:"language,omitempty" yaml:"language,omitempty"`
	Skipped     string            `json:"skipped,omitempty"  yaml:"skipped,omitempty"`
	Error       string            `json:"error,omitempty"    yaml:"error,omitempty"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"        yaml:"diagnostics"`
}

func newDocument(run *Run) document {
	doc := document{
		Version: run.ToolVersion,
		Files:   make([]fileDocument, 0, len(run.Results)),
		Summary: Summarize(run.Results),
	}

	for _, res := range run.Results {
		file := fileDocument{
			Path:        res.Path,
			Language:    res.Language,
			Skipped:     res.Skipped,
			Diagnostics: res.Diagnostics,
		}

		if file.Diagnostics == nil {
			file.Diagnostics = []lint.Diagnostic{}
		}

		if res.Err != nil {
			file.Error = res.Err.Error()
		}

		doc.Files = append(doc.Files, file)
	}

	return doc
}
