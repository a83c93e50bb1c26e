package report

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const yamlIndent = 2

// YAMLReporter writes the run as a YAML document.
type YAMLReporter struct{}

// Format returns the format name.
func (r *YAMLReporter) Format() string { return FormatYAML }

// Write renders the run.
func (r *YAMLReporter) Write(w io.Writer, run *Run) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	err := encoder.Encode(newDocument(run))
	if err != nil {
		return fmt.Errorf("write yaml report: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("write yaml report: %w", err)
	}

	return nil
}
