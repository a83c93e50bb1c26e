// Package rules holds the built-in rule table.
package rules

import (
	"sync"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules/noemptyobjecttype"
)

// Registry returns the process-wide registry of built-in rules.
var Registry = sync.OnceValue(func() *lint.Registry {
	reg, err := lint.NewRegistry(
		noemptyobjecttype.Meta,
	)
	if err != nil {
		panic(err)
	}

	return reg
})
