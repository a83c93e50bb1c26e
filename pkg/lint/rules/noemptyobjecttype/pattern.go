package noemptyobjecttype

import (
	"fmt"
	"regexp"
)

// NamePattern tests declared names against a user-supplied regular expression.
type NamePattern struct {
	re *regexp.Regexp
}

// CompileNamePattern compiles source once for the whole run.
func CompileNamePattern(source string) (*NamePattern, error) {
	re, err := regexp.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile name pattern: %w", err)
	}

	return &NamePattern{re: re}, nil
}

// Match reports whether the pattern matches anywhere within name. Anchors
// keep their usual meaning. A nil pattern never matches.
func (p *NamePattern) Match(name string) bool {
	if p == nil || p.re == nil {
		return false
	}

	return p.re.MatchString(name)
}

// String returns the pattern source.
func (p *NamePattern) String() string {
	if p == nil || p.re == nil {
		return ""
	}

	return p.re.String()
}
