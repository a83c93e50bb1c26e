package lint_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/observability"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

func newLinter(t *testing.T, opts ...lint.Option) *lint.Linter {
	t.Helper()

	active, problems := lint.Configure(testRegistry(t), map[string]lint.RuleSetting{
		"test/aliases": {Severity: lint.SeverityError},
	})
	require.Empty(t, problems)

	return lint.New(active, opts...)
}

func TestLintSource_DispatchesAndSorts(t *testing.T) {
	t.Parallel()

	src := "type A = {};\ninterface B {}\ntype C = string;\n"

	result, err := newLinter(t).LintSource(context.Background(), "mixed.ts", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, "mixed.ts", result.Path)
	assert.Equal(t, syntax.LangTypeScript, result.Language)
	assert.Equal(t, len(src), result.Size)
	require.Len(t, result.Diagnostics, 3)

	assert.Equal(t, "test/aliases", result.Diagnostics[0].Rule)
	assert.Equal(t, lint.SeverityError, result.Diagnostics[0].Severity)
	assert.Equal(t, 1, result.Diagnostics[0].Span.StartLine)

	assert.Equal(t, "test/interfaces", result.Diagnostics[1].Rule)
	assert.Equal(t, lint.SeverityWarn, result.Diagnostics[1].Severity)
	assert.Equal(t, 2, result.Diagnostics[1].Span.StartLine)
	assert.Equal(t, "mixed.ts", result.Diagnostics[1].File)

	assert.Equal(t, 3, result.Diagnostics[2].Span.StartLine)
}

func TestLintSource_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := newLinter(t).LintSource(context.Background(), "main.go", []byte("package main"))
	require.ErrorIs(t, err, syntax.ErrUnsupportedFile)
}

func TestLintFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		return path
	}

	clean := write("clean.ts", "const x = 1;\n")
	dirty := write("dirty.tsx", "interface Props {}\n")
	large := write("large.ts", "type Big = {};\n"+strings.Repeat("// padding\n", 200))
	qt := write("strings.ts", `<?xml version="1.0" encoding="utf-8"?>
<!DOCTYPE TS>
<TS version="2.1" language="de_DE">
<context><name>Main</name></context>
</TS>
`)
	missing := filepath.Join(dir, "missing.ts")
	binary := write("blob.ts", "interface A {}\x00\x01")

	linter := newLinter(t, lint.WithMaxFileSize(1024), lint.WithConcurrency(2))

	results, err := linter.LintFiles(context.Background(), []string{clean, dirty, large, qt, missing, binary})
	require.NoError(t, err)
	require.Len(t, results, 6)

	assert.Empty(t, results[0].Diagnostics)
	require.NoError(t, results[0].Err)

	require.Len(t, results[1].Diagnostics, 1)
	assert.Equal(t, syntax.LangTSX, results[1].Language)

	assert.Equal(t, lint.SkipTooLarge, results[2].Skipped)
	assert.Empty(t, results[2].Diagnostics)

	assert.Equal(t, lint.SkipNotTSSource, results[3].Skipped)

	assert.Equal(t, missing, results[4].Path)
	require.Error(t, results[4].Err)

	assert.Equal(t, lint.SkipBinary, results[5].Skipped)
	assert.Empty(t, results[5].Diagnostics)
}

func TestLintFiles_Canceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(path, []byte("interface A {}"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newLinter(t).LintFiles(ctx, []string{path})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLintSource_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	metrics, err := observability.NewLintMetrics(provider.Meter("test"))
	require.NoError(t, err)

	linter := newLinter(t, lint.WithMetrics(metrics))

	_, err = linter.LintSource(context.Background(), "a.ts", []byte("interface A {}\ninterface B {}"))
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}

	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}

			for _, point := range sum.DataPoints {
				totals[m.Name] += point.Value
			}
		}
	}

	assert.Equal(t, int64(1), totals["tsguard.lint.files.total"])
	assert.Equal(t, int64(2), totals["tsguard.lint.findings.total"])
}
