package noemptyobjecttype

import (
	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// MergeDetector finds class declarations an empty interface could merge with.
type MergeDetector struct {
	lookup lint.ScopeLookup
}

// NewMergeDetector returns a detector backed by the given scope lookup.
func NewMergeDetector(lookup lint.ScopeLookup) MergeDetector {
	return MergeDetector{lookup: lookup}
}

// HasSameScopeClass reports whether a class declaration statement named name
// is declared directly in scope. Class expressions assigned to variables and
// classes in other scopes do not count.
func (d MergeDetector) HasSameScopeClass(name string, scope *syntax.Scope) bool {
	if d.lookup == nil || scope == nil || name == "" {
		return false
	}

	for _, decl := range d.lookup.ResolveInScope(name, scope) {
		if decl.Kind == syntax.DeclClass {
			return true
		}
	}

	return false
}
