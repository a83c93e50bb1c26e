package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesTotal       = "tsguard.lint.files.total"
	metricFindingsTotal    = "tsguard.lint.findings.total"
	metricParseErrorsTotal = "tsguard.lint.parse_errors.total"
	metricFileDuration     = "tsguard.lint.file.duration.seconds"

	attrRule     = "rule"
	attrSeverity = "severity"
	attrLanguage = "language"
)

// LintMetrics holds OTel instruments for lint runs.
type LintMetrics struct {
	filesTotal   metric.Int64Counter
	findings     metric.Int64Counter
	parseErrors  metric.Int64Counter
	fileDuration metric.Float64Histogram
}

// FileStats is what the linter knows about one finished file.
type FileStats struct {
	Language string
	Duration time.Duration
	// Findings counts diagnostics per rule id and severity name.
	Findings map[FindingKey]int64
}

// FindingKey groups findings for the findings counter.
type FindingKey struct {
	Rule     string
	Severity string
}

// NewLintMetrics creates lint metric instruments from the given meter.
func NewLintMetrics(mt metric.Meter) (*LintMetrics, error) {
	files, err := mt.Int64Counter(metricFilesTotal,
		metric.WithDescription("Total files linted"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesTotal, err)
	}

	findings, err := mt.Int64Counter(metricFindingsTotal,
		metric.WithDescription("Diagnostics reported, by rule and severity"),
		metric.WithUnit("{finding}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFindingsTotal, err)
	}

	parseErrors, err := mt.Int64Counter(metricParseErrorsTotal,
		metric.WithDescription("Files that could not be parsed"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricParseErrorsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricFileDuration,
		metric.WithDescription("Per-file parse and lint duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFileDuration, err)
	}

	return &LintMetrics{
		filesTotal:   files,
		findings:     findings,
		parseErrors:  parseErrors,
		fileDuration: duration,
	}, nil
}

// RecordFile records one linted file. Safe to call on a nil receiver (no-op).
func (lm *LintMetrics) RecordFile(ctx context.Context, stats FileStats) {
	if lm == nil {
		return
	}

	langAttr := metric.WithAttributes(attribute.String(attrLanguage, stats.Language))

	lm.filesTotal.Add(ctx, 1, langAttr)
	lm.fileDuration.Record(ctx, stats.Duration.Seconds(), langAttr)

	for key, count := range stats.Findings {
		lm.findings.Add(ctx, count, metric.WithAttributes(
			attribute.String(attrRule, key.Rule),
			attribute.String(attrSeverity, key.Severity),
		))
	}
}

// RecordParseError counts a file that failed to parse. Safe on a nil receiver.
func (lm *LintMetrics) RecordParseError(ctx context.Context) {
	if lm == nil {
		return
	}

	lm.parseErrors.Add(ctx, 1)
}
