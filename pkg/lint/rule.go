// Package lint is the rule host: it parses sources, builds scope information,
// dispatches syntax nodes to the configured rules and collects diagnostics.
package lint

import (
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// Rule inspects syntax nodes. Run is called once for every node of a file, in
// pre-order, and must not retain the node or the context.
type Rule interface {
	Run(node *syntax.Node, ctx *Context)
}

// Factory builds a rule from its raw, user-supplied options. A nil value means
// the options were not configured.
type Factory func(options any) (Rule, error)

// Meta is a rule's registry entry.
type Meta struct {
	Name            string
	Plugin          string
	Category        Category
	DefaultSeverity Severity
	Description     string
	// Schema is the JSON Schema of the rule's options, if it takes any.
	Schema []byte
	New    Factory
}

// ID returns the plugin-qualified rule identifier, e.g. "typescript/no-empty-object-type".
func (m Meta) ID() string {
	if m.Plugin == "" {
		return m.Name
	}

	return m.Plugin + "/" + m.Name
}

// ScopeLookup answers semantic questions about the file being linted.
type ScopeLookup interface {
	// ResolveInScope returns the declarations of name made directly in scope.
	ResolveInScope(name string, scope *syntax.Scope) []syntax.Declaration
}

// Diagnostic is one finding reported by a rule.
type Diagnostic struct {
	Rule     string      `json:"rule"     yaml:"rule"`
	Severity Severity    `json:"severity" yaml:"severity"`
	Message  string      `json:"message"  yaml:"message"`
	Help     string      `json:"help,omitempty" yaml:"help,omitempty"`
	File     string      `json:"file"     yaml:"file"`
	Span     syntax.Span `json:"span"     yaml:"span"`
}

// Context is the read-only view of the current file handed to a rule, plus
// the sink its diagnostics go to.
type Context struct {
	file     *syntax.File
	rule     string
	severity Severity
	sink     *[]Diagnostic
}

// FilePath returns the path of the file being linted.
func (c *Context) FilePath() string {
	return c.file.Path
}

// Source returns the file contents.
func (c *Context) Source() []byte {
	return c.file.Source
}

// Semantic returns the scope lookup for the file.
func (c *Context) Semantic() ScopeLookup {
	return c.file.Symbols
}

// Report records a diagnostic. Rule id, severity and file are filled in by
// the context.
func (c *Context) Report(diag Diagnostic) {
	diag.Rule = c.rule
	diag.Severity = c.severity
	diag.File = c.file.Path

	*c.sink = append(*c.sink, diag)
}
