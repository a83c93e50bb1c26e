package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsguard/pkg/config"
	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules"
)

// ruleCheck is the validation outcome of one configured rule.
type ruleCheck struct {
	id       string
	severity string
	err      error
}

func newValidateConfigCommand(flags *globalFlags) *cobra.Command {
	var colorize, nocolor bool

	cmd := &cobra.Command{
		Use:   "validate-config [file]",
		Short: "Validate a tsguard configuration file",
		Long: `Validate a tsguard configuration file: engine settings, rule names,
severities and rule options (checked against each rule's JSON Schema).

Examples:
  tsguard validate-config
  tsguard validate-config .tsguard.yaml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if len(args) == 1 {
				path = args[0]
			}

			return runValidateConfig(cmd.OutOrStdout(), path, flags.quiet, colorize, nocolor)
		},
	}

	cmd.Flags().BoolVar(&colorize, "color", false, "force colored output")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidateConfig(out io.Writer, path string, quiet, colorize, nocolor bool) error {
	if nocolor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	} else if colorize {
		color.NoColor = false //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		color.New(color.FgRed).Fprintf(out, "Configuration invalid\n  - %v\n", err)

		return &exitError{code: exitFindings}
	}

	if cfg.File == "" {
		color.New(color.FgYellow).Fprintf(out, "No configuration file found; built-in defaults apply\n")

		return nil
	}

	checks := checkRules(rules.Registry(), cfg.Rules)

	var failed int

	for _, check := range checks {
		if check.err != nil {
			failed++
		}
	}

	if failed == 0 {
		if !quiet {
			color.New(color.FgGreen).Fprintf(out, "Configuration is valid (%s)\n", cfg.File)

			for _, check := range checks {
				color.New(color.FgGreen).Fprintf(out, "  ok %s (%s)\n", check.id, check.severity)
			}
		}

		return nil
	}

	color.New(color.FgRed).Fprintf(out, "Configuration invalid (%s)\n", cfg.File)
	fmt.Fprintf(out, "\nErrors:\n")

	for _, check := range checks {
		if check.err != nil {
			color.New(color.FgRed).Fprintf(out, "  - %s: %v\n", check.id, check.err)
		}
	}

	fmt.Fprintf(out, "\nGeneral tips:\n")
	color.New(color.FgCyan).Fprintf(out, "  - Run \"tsguard rules --format json\" to see each rule's options schema\n")
	color.New(color.FgCyan).Fprintf(out, "  - Severities are off, warn or error\n")

	return &exitError{code: exitFindings}
}

// checkRules validates every configured rule against the registry: the name
// must resolve, the severity must parse and the options must build the rule.
func checkRules(reg *lint.Registry, configured map[string]config.RuleConfig) []ruleCheck {
	ids := make([]string, 0, len(configured))
	for id := range configured {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	checks := make([]ruleCheck, 0, len(ids))
	spelling := make(map[string]string, len(ids))

	for _, id := range ids {
		rule := configured[id]
		check := ruleCheck{id: id, severity: rule.Severity}

		meta, ok := reg.Lookup(id)
		if !ok {
			check.err = reg.UnknownRuleError(id)
			checks = append(checks, check)

			continue
		}

		check.id = meta.ID()

		if first, seen := spelling[check.id]; seen {
			check.err = fmt.Errorf("%w: %q and %q", config.ErrDuplicateRuleConfig, first, id)
			checks = append(checks, check)

			continue
		}

		spelling[check.id] = id

		_, err := lint.ParseSeverity(rule.Severity)
		if err != nil {
			check.err = err
			checks = append(checks, check)

			continue
		}

		_, err = meta.New(rule.Options)
		if err != nil {
			check.err = err
		}

		checks = append(checks, check)
	}

	return checks
}
