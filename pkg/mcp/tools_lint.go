package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"maps"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/report"
)

// LintOutput is the payload of a successful tsguard_lint call.
type LintOutput struct {
	Language    string            `json:"language"`
	Diagnostics []lint.Diagnostic `json:"diagnostics"`
	Errors      int               `json:"errors"`
	Warnings    int               `json:"warnings"`
}

// RuleInfo describes one rule in the tsguard_rules output.
type RuleInfo struct {
	ID              string          `json:"id"`
	Category        string          `json:"category"`
	DefaultSeverity string          `json:"default_severity"`
	Description     string          `json:"description"`
	Schema          json.RawMessage `json:"schema,omitempty"`
}

func (s *Server) handleLint(
	ctx context.Context, _ *mcpsdk.CallToolRequest, input LintInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	lang, err := validateCodeInput(input.Code, input.Language)
	if err != nil {
		return errorResult(err)
	}

	requested := make(map[string]lint.RuleSetting, len(input.Rules))
	for id, options := range input.Rules {
		requested[id] = lint.RuleSetting{Severity: lint.SeverityError, Options: options}
	}

	overrides, problems := s.registry.CanonicalSettings(requested)
	if len(problems) > 0 {
		return errorResult(joinConfigErrors(problems))
	}

	settings := make(map[string]lint.RuleSetting, len(s.settings)+len(overrides))
	maps.Copy(settings, s.settings)
	maps.Copy(settings, overrides)

	active, problems := lint.Configure(s.registry, settings)
	if len(problems) > 0 {
		return errorResult(joinConfigErrors(problems))
	}

	linter := lint.New(active,
		lint.WithLogger(s.logger),
		lint.WithParser(s.parser),
		lint.WithMetrics(s.lintMetrics),
		lint.WithTracer(s.tracer),
	)

	result, err := linter.LintSourceAs(ctx, lang, syntheticFilename(lang), []byte(input.Code))
	if err != nil {
		return errorResult(err)
	}

	summary := report.Summarize([]lint.FileResult{result})

	diagnostics := result.Diagnostics
	if diagnostics == nil {
		diagnostics = []lint.Diagnostic{}
	}

	return jsonResult(LintOutput{
		Language:    lang,
		Diagnostics: diagnostics,
		Errors:      summary.Errors,
		Warnings:    summary.Warnings,
	})
}

func joinConfigErrors(problems []*lint.ConfigError) error {
	errs := make([]error, 0, len(problems))
	for _, problem := range problems {
		errs = append(errs, problem)
	}

	return errors.Join(errs...)
}

func (s *Server) handleRules(
	_ context.Context, _ *mcpsdk.CallToolRequest, _ RulesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	metas := s.registry.All()
	infos := make([]RuleInfo, 0, len(metas))

	for _, meta := range metas {
		infos = append(infos, RuleInfo{
			ID:              meta.ID(),
			Category:        string(meta.Category),
			DefaultSeverity: meta.DefaultSeverity.String(),
			Description:     meta.Description,
			Schema:          json.RawMessage(meta.Schema),
		})
	}

	return jsonResult(infos)
}
