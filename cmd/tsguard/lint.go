package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsguard/pkg/config"
	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules"
	"github.com/Sumatoshi-tech/tsguard/pkg/observability"
	"github.com/Sumatoshi-tech/tsguard/pkg/report"
	"github.com/Sumatoshi-tech/tsguard/pkg/version"
)

// ErrInvalidRuleFlag indicates a malformed --rule or --rule-options value.
var ErrInvalidRuleFlag = errors.New("invalid rule flag")

// unlimitedWarnings disables the --max-warnings check.
const unlimitedWarnings = -1

type lintOptions struct {
	format      string
	rules       []string
	ruleOptions []string
	strict      bool
	maxWarnings int
}

func newLintCommand(flags *globalFlags) *cobra.Command {
	opts := &lintOptions{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint TypeScript files and directories",
		Long: `Lint TypeScript (.ts, .mts, .cts) and TSX files. Directories are walked
recursively; node_modules, build output and .gitignore'd files are skipped.

Exit status is 1 when an error-level finding exists or the warning count
exceeds --max-warnings, and 2 on configuration or runtime errors.

Examples:
  tsguard lint src
  tsguard lint --format sarif . > tsguard.sarif
  tsguard lint --rule typescript/no-empty-object-type=error src
  tsguard lint --rule-options 'typescript/no-empty-object-type={"allowInterfaces":"with-single-extends"}' src`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, flags, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", report.FormatText,
		"output format: "+strings.Join(report.AvailableFormats(), ", "))
	cmd.Flags().StringArrayVar(&opts.rules, "rule", nil, "override a rule severity, e.g. rule=error (repeatable)")
	cmd.Flags().StringArrayVar(&opts.ruleOptions, "rule-options", nil, "set rule options as JSON, e.g. rule={...} (repeatable)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail when a rule configuration is rejected")
	cmd.Flags().IntVar(&opts.maxWarnings, "max-warnings", unlimitedWarnings, "fail when warnings exceed this count")

	return cmd
}

func runLint(cmd *cobra.Command, flags *globalFlags, opts *lintOptions, paths []string) error {
	reporter, err := report.NewReporter(opts.format)
	if err != nil {
		return err
	}

	sess, err := flags.startSession(observability.ModeCLI, false)
	if err != nil {
		return err
	}
	defer sess.close()

	reg := rules.Registry()

	err = applyRuleFlags(sess.cfg, reg, opts)
	if err != nil {
		return err
	}

	settings, err := sess.cfg.RuleSettings()
	if err != nil {
		return err
	}

	linter, problems, err := sess.newLinter(reg, settings)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		paths = []string{"."}
	}

	results, err := lintPaths(cmd.Context(), linter, paths, sess.cfg.Lint.Ignore)
	if err != nil {
		return err
	}

	err = reporter.Write(cmd.OutOrStdout(), &report.Run{
		Results:     results,
		Rules:       reg.All(),
		ToolVersion: version.Version,
	})
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return lintVerdict(report.Summarize(results), problems, opts)
}

func lintPaths(ctx context.Context, linter *lint.Linter, paths, ignore []string) ([]lint.FileResult, error) {
	files, err := lint.Discover(paths, ignore)
	if err != nil {
		return nil, err
	}

	return linter.LintFiles(ctx, files)
}

// lintVerdict maps the run outcome to an exit status.
func lintVerdict(summary report.Summary, problems []*lint.ConfigError, opts *lintOptions) error {
	if opts.strict && len(problems) > 0 {
		errs := make([]error, 0, len(problems))
		for _, problem := range problems {
			errs = append(errs, problem)
		}

		return &exitError{code: exitFatal, err: errors.Join(errs...)}
	}

	if summary.Failed > 0 {
		return &exitError{code: exitFatal, err: fmt.Errorf("failed to lint %d file(s)", summary.Failed)}
	}

	if summary.Errors > 0 {
		return &exitError{code: exitFindings}
	}

	if opts.maxWarnings > unlimitedWarnings && summary.Warnings > opts.maxWarnings {
		return &exitError{
			code: exitFindings,
			err:  fmt.Errorf("too many warnings: %d (max %d)", summary.Warnings, opts.maxWarnings),
		}
	}

	return nil
}

// applyRuleFlags layers --rule and --rule-options over the config file. Flag
// ids are canonicalized so they replace the file entry for the same rule.
func applyRuleFlags(cfg *config.Config, reg *lint.Registry, opts *lintOptions) error {
	for _, raw := range opts.rules {
		id, severity, err := splitRuleFlag(raw)
		if err != nil {
			return err
		}

		_, err = lint.ParseSeverity(severity)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRuleFlag, raw, err)
		}

		cfg.SetRuleSeverity(reg.CanonicalID(id), severity)
	}

	for _, raw := range opts.ruleOptions {
		id, value, err := splitRuleFlag(raw)
		if err != nil {
			return err
		}

		var options any

		err = json.Unmarshal([]byte(value), &options)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidRuleFlag, id, err)
		}

		cfg.SetRuleOptions(reg.CanonicalID(id), options)
	}

	return nil
}

// splitRuleFlag splits "id=value" at the first '='.
func splitRuleFlag(raw string) (string, string, error) {
	id, value, ok := strings.Cut(raw, "=")
	id = strings.TrimSpace(id)

	if !ok || id == "" || strings.TrimSpace(value) == "" {
		return "", "", fmt.Errorf("%w: %q (want rule=value)", ErrInvalidRuleFlag, raw)
	}

	return id, strings.TrimSpace(value), nil
}
