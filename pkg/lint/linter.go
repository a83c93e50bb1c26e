package lint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/tsguard/pkg/observability"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
	"github.com/Sumatoshi-tech/tsguard/pkg/textutil"
)

// Skip reasons recorded on FileResult.
const (
	SkipTooLarge    = "file exceeds max_file_size"
	SkipNotTSSource = "not a TypeScript source"
	SkipBinary      = "binary content"
)

// FileResult is the outcome of linting one file.
type FileResult struct {
	Path        string       `json:"path"                  yaml:"path"`
	Language    string       `json:"language,omitempty"    yaml:"language,omitempty"`
	Size        int          `json:"size"                  yaml:"size"`
	Diagnostics []Diagnostic `json:"diagnostics"           yaml:"diagnostics"`
	Skipped     string       `json:"skipped,omitempty"     yaml:"skipped,omitempty"`
	Err         error        `json:"-"                     yaml:"-"`
}

// Linter runs a fixed set of configured rules over TypeScript sources.
// It is safe for concurrent use.
type Linter struct {
	rules       []ActiveRule
	parser      *syntax.Parser
	logger      *slog.Logger
	metrics     *observability.LintMetrics
	tracer      trace.Tracer
	maxFileSize int64
	concurrency int
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) { l.logger = logger }
}

// WithMetrics sets the metrics recorder. Nil disables metrics.
func WithMetrics(metrics *observability.LintMetrics) Option {
	return func(l *Linter) { l.metrics = metrics }
}

// WithTracer sets the tracer used for per-file spans. Nil keeps the no-op tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(l *Linter) {
		if tracer != nil {
			l.tracer = tracer
		}
	}
}

// WithParser shares parser, and its pooled tree-sitter parsers, with other
// linters. Nil keeps the linter's own parser.
func WithParser(parser *syntax.Parser) Option {
	return func(l *Linter) {
		if parser != nil {
			l.parser = parser
		}
	}
}

// WithMaxFileSize skips files larger than limit bytes. Zero means no limit.
func WithMaxFileSize(limit int64) Option {
	return func(l *Linter) { l.maxFileSize = limit }
}

// WithConcurrency bounds the number of files linted in parallel.
// Values below one select runtime.NumCPU().
func WithConcurrency(workers int) Option {
	return func(l *Linter) { l.concurrency = workers }
}

// New creates a linter for the given active rules.
func New(rules []ActiveRule, opts ...Option) *Linter {
	l := &Linter{
		rules:  rules,
		parser: syntax.NewParser(),
		logger: slog.Default(),
		tracer: nooptrace.NewTracerProvider().Tracer(""),
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.concurrency < 1 {
		l.concurrency = runtime.NumCPU()
	}

	return l
}

// Rules returns the active rules in execution order.
func (l *Linter) Rules() []ActiveRule {
	return l.rules
}

// LintSource lints in-memory content. The language is derived from path.
func (l *Linter) LintSource(ctx context.Context, path string, src []byte) (FileResult, error) {
	lang, ok := syntax.LanguageFor(path)
	if !ok {
		return FileResult{}, fmt.Errorf("%w: %s", syntax.ErrUnsupportedFile, path)
	}

	return l.LintSourceAs(ctx, lang, path, src)
}

// LintSourceAs lints in-memory content with an explicit language.
func (l *Linter) LintSourceAs(ctx context.Context, lang, path string, src []byte) (FileResult, error) {
	ctx, span := l.tracer.Start(ctx, "lint.file", trace.WithAttributes(
		attribute.String("file", path),
		attribute.String("language", lang),
	))
	defer span.End()

	start := time.Now()

	file, err := l.parser.ParseLanguage(ctx, lang, path, src)
	if err != nil {
		l.metrics.RecordParseError(ctx)

		return FileResult{}, err
	}

	diagnostics := l.run(file)

	l.metrics.RecordFile(ctx, observability.FileStats{
		Language: lang,
		Duration: time.Since(start),
		Findings: countFindings(diagnostics),
	})

	return FileResult{
		Path:        path,
		Language:    lang,
		Size:        len(src),
		Diagnostics: diagnostics,
	}, nil
}

// LintFile reads and lints one file from disk.
func (l *Linter) LintFile(ctx context.Context, path string) (FileResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("stat %s: %w", path, err)
	}

	if l.maxFileSize > 0 && info.Size() > l.maxFileSize {
		l.logger.WarnContext(ctx, "skipping large file", "file", path, "size", info.Size(), "limit", l.maxFileSize)

		return FileResult{Path: path, Size: int(info.Size()), Skipped: SkipTooLarge}, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	if textutil.IsBinary(src) {
		l.logger.DebugContext(ctx, "skipping binary file", "file", path)

		return FileResult{Path: path, Size: len(src), Skipped: SkipBinary}, nil
	}

	if !syntax.IsTypeScriptContent(path, src) {
		l.logger.DebugContext(ctx, "skipping non-TypeScript file", "file", path)

		return FileResult{Path: path, Size: len(src), Skipped: SkipNotTSSource}, nil
	}

	return l.LintSource(ctx, path, src)
}

// LintFiles lints paths with bounded concurrency. Results keep input order.
// Per-file failures are stored in FileResult.Err; only cancellation aborts
// the run.
func (l *Linter) LintFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(l.concurrency)

	for i, path := range paths {
		group.Go(func() error {
			res, err := l.LintFile(groupCtx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}

				l.logger.ErrorContext(groupCtx, "lint failed", "file", path, "error", err)

				res = FileResult{Path: path, Err: err}
			}

			results[i] = res

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return nil, fmt.Errorf("lint files: %w", err)
	}

	return results, nil
}

// run dispatches every node of the file to every active rule in pre-order.
func (l *Linter) run(file *syntax.File) []Diagnostic {
	var diagnostics []Diagnostic

	contexts := make([]*Context, len(l.rules))
	for i, active := range l.rules {
		contexts[i] = &Context{
			file:     file,
			rule:     active.Meta.ID(),
			severity: active.Severity,
			sink:     &diagnostics,
		}
	}

	file.Root.Walk(func(node *syntax.Node) bool {
		for i, active := range l.rules {
			active.Rule.Run(node, contexts[i])
		}

		return true
	})

	sort.SliceStable(diagnostics, func(i, j int) bool {
		if diagnostics[i].Span.StartByte != diagnostics[j].Span.StartByte {
			return diagnostics[i].Span.StartByte < diagnostics[j].Span.StartByte
		}

		return diagnostics[i].Rule < diagnostics[j].Rule
	})

	return diagnostics
}

func countFindings(diagnostics []Diagnostic) map[observability.FindingKey]int64 {
	if len(diagnostics) == 0 {
		return nil
	}

	counts := make(map[observability.FindingKey]int64)
	for _, diag := range diagnostics {
		counts[observability.FindingKey{Rule: diag.Rule, Severity: diag.Severity.String()}]++
	}

	return counts
}
