package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

// TextReporter prints one block per diagnostic with a source excerpt and a
// caret underline, followed by a summary line.
type TextReporter struct {
	// ReadFile loads sources for excerpts. Defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Format returns the format name.
func (r *TextReporter) Format() string { return FormatText }

// Write renders the run.
func (r *TextReporter) Write(w io.Writer, run *Run) error {
	readFile := r.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}

	var buf bytes.Buffer

	for _, res := range run.Results {
		if res.Err != nil {
			color.New(color.FgRed).Fprintf(&buf, "%s: %v\n", res.Path, res.Err)

			continue
		}

		if len(res.Diagnostics) == 0 {
			continue
		}

		var lines []string
		if src, err := readFile(res.Path); err == nil {
			lines = strings.Split(string(src), "\n")
		}

		for _, diag := range res.Diagnostics {
			writeDiagnostic(&buf, diag, lines)
		}
	}

	fmt.Fprintln(&buf, Summarize(run.Results).String())

	_, err := w.Write(buf.Bytes())
	if err != nil {
		return fmt.Errorf("write text report: %w", err)
	}

	return nil
}

func writeDiagnostic(buf *bytes.Buffer, diag lint.Diagnostic, lines []string) {
	sevColor := color.New(color.FgYellow, color.Bold)
	if diag.Severity == lint.SeverityError {
		sevColor = color.New(color.FgRed, color.Bold)
	}

	fmt.Fprintf(buf, "%s:%d:%d ", diag.File, diag.Span.StartLine, diag.Span.StartColumn)
	sevColor.Fprint(buf, diag.Severity.String())
	fmt.Fprint(buf, " ")
	color.New(color.Faint).Fprint(buf, diag.Rule)
	fmt.Fprintf(buf, " %s\n", diag.Message)

	if excerpt, caret, ok := excerptAt(lines, diag); ok {
		lineNo := strconv.Itoa(diag.Span.StartLine)
		color.New(color.FgBlue).Fprintf(buf, "  %s | ", lineNo)
		fmt.Fprintln(buf, excerpt)
		color.New(color.FgBlue).Fprintf(buf, "  %s | ", strings.Repeat(" ", len(lineNo)))
		sevColor.Fprintln(buf, caret)
	}

	if diag.Help != "" {
		color.New(color.FgCyan).Fprintf(buf, "  help: %s\n", diag.Help)
	}

	fmt.Fprintln(buf)
}

// excerptAt returns the first line of the diagnostic and a caret underline
// for the part of the span on that line.
func excerptAt(lines []string, diag lint.Diagnostic) (string, string, bool) {
	idx := diag.Span.StartLine - 1
	if idx < 0 || idx >= len(lines) {
		return "", "", false
	}

	line := strings.TrimRight(lines[idx], "\r")
	start := diag.Span.StartColumn - 1

	if start < 0 || start > len(line) {
		return "", "", false
	}

	end := len(line)
	if diag.Span.EndLine == diag.Span.StartLine {
		end = min(diag.Span.EndColumn-1, len(line))
	}

	width := max(end-start, 1)

	// Tabs are kept so the carets line up.
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return r
		}

		return ' '
	}, line[:start])

	return line, pad + strings.Repeat("^", width), true
}
