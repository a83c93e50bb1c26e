// Package noemptyobjecttype implements typescript/no-empty-object-type, which
// flags the {} type and empty interfaces. Both accept any non-nullish value,
// which is rarely what the author meant.
package noemptyobjecttype

import (
	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// Rule identity.
const (
	Name   = "no-empty-object-type"
	Plugin = "typescript"
)

const (
	message = `Disallow accidentally using the "empty object" type.`
	help    = "To avoid confusion around the {} type allowing any non-nullish value, this rule bans usage of the {} type."
)

// Meta registers the rule with the engine.
var Meta = lint.Meta{
	Name:            Name,
	Plugin:          Plugin,
	Category:        lint.CategoryNursery,
	DefaultSeverity: lint.SeverityWarn,
	Description:     "Disallow accidentally using the empty object type",
	Schema:          optionsSchema,
	New:             New,
}

// Rule is a configured instance.
type Rule struct {
	opts Options
}

// New builds the rule from raw options. See ParseOptions for accepted shapes.
func New(options any) (lint.Rule, error) {
	opts, err := ParseOptions(options)
	if err != nil {
		return nil, err
	}

	return &Rule{opts: opts}, nil
}

// Options returns the parsed options.
func (r *Rule) Options() Options {
	return r.opts
}

// Run classifies node if it is a candidate site and reports it when needed.
func (r *Rule) Run(node *syntax.Node, ctx *lint.Context) {
	site, ok := DiscoverSite(node)
	if !ok {
		return
	}

	verdict := NewClassifier(r.opts, ctx.Semantic()).Classify(site)
	if !verdict.Report {
		return
	}

	ctx.Report(lint.Diagnostic{
		Message: message,
		Help:    help,
		Span:    verdict.Span,
	})
}
