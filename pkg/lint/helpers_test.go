package lint_test

import (
	"errors"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

var errBadOptions = errors.New("bad options")

// kindRule reports every node of one kind.
type kindRule struct {
	kind string
}

func (r kindRule) Run(node *syntax.Node, ctx *lint.Context) {
	if node.Kind == r.kind {
		ctx.Report(lint.Diagnostic{Message: "found " + r.kind, Span: node.Span})
	}
}

func kindMeta(name, kind string, def lint.Severity) lint.Meta {
	return lint.Meta{
		Name:            name,
		Plugin:          "test",
		Category:        lint.CategoryStyle,
		DefaultSeverity: def,
		Description:     "reports " + kind,
		New: func(options any) (lint.Rule, error) {
			if options != nil {
				return nil, errBadOptions
			}

			return kindRule{kind: kind}, nil
		},
	}
}
