package config

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
)

// ErrInvalidRuleConfig is returned for rule entries that are neither a
// severity, a mapping nor a [severity, options] list.
var ErrInvalidRuleConfig = errors.New("invalid rule configuration")

// ErrDuplicateRuleConfig is returned when two rules entries name the same rule.
var ErrDuplicateRuleConfig = errors.New("rule configured more than once")

// RuleConfig is one entry of the rules section. It may be written as
//
//	rule-id: warn
//	rule-id: ["error", {allowInterfaces: always}]
//	rule-id: {severity: error, options: {allowInterfaces: always}}
type RuleConfig struct {
	Severity string `yaml:"severity"`
	Options  any    `yaml:"options"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *RuleConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&r.Severity)
	case yaml.SequenceNode:
		if len(node.Content) == 0 || len(node.Content) > 2 {
			return fmt.Errorf("%w: line %d: expected [severity, options]", ErrInvalidRuleConfig, node.Line)
		}

		err := node.Content[0].Decode(&r.Severity)
		if err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidRuleConfig, node.Line, err)
		}

		if len(node.Content) == 2 {
			return node.Content[1].Decode(&r.Options)
		}

		return nil
	case yaml.MappingNode:
		type plain RuleConfig

		var decoded plain

		err := node.Decode(&decoded)
		if err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrInvalidRuleConfig, node.Line, err)
		}

		*r = RuleConfig(decoded)

		return nil
	default:
		return fmt.Errorf("%w: line %d", ErrInvalidRuleConfig, node.Line)
	}
}

// CanonicalizeRules rekeys the rules section with canonical, typically a
// registry's CanonicalID, so later overrides address one entry per rule.
// Entries that collide are reported and left untouched.
func (c *Config) CanonicalizeRules(canonical func(string) string) error {
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	rekeyed := make(map[string]RuleConfig, len(c.Rules))
	spelling := make(map[string]string, len(c.Rules))

	var errs []error

	for _, id := range ids {
		key := canonical(id)

		if first, seen := spelling[key]; seen {
			errs = append(errs, fmt.Errorf("%w: %s: %q and %q", ErrDuplicateRuleConfig, key, first, id))

			continue
		}

		spelling[key] = id
		rekeyed[key] = c.Rules[id]
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	if len(rekeyed) > 0 {
		c.Rules = rekeyed
	}

	return nil
}

// SetRuleSeverity overrides the severity of one rule, keeping its options.
// id must use the same spelling as the rules section, see CanonicalizeRules.
func (c *Config) SetRuleSeverity(id, severity string) {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}

	rule := c.Rules[id]
	rule.Severity = severity
	c.Rules[id] = rule
}

// SetRuleOptions overrides the options of one rule. A rule without a
// configured severity is enabled at error level.
func (c *Config) SetRuleOptions(id string, options any) {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}

	rule := c.Rules[id]
	rule.Options = options

	if rule.Severity == "" {
		rule.Severity = lint.SeverityError.String()
	}

	c.Rules[id] = rule
}

// RuleSettings converts the rules section into engine settings.
func (c *Config) RuleSettings() (map[string]lint.RuleSetting, error) {
	settings := make(map[string]lint.RuleSetting, len(c.Rules))

	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	var errs []error

	for _, id := range ids {
		rule := c.Rules[id]

		severity, err := lint.ParseSeverity(rule.Severity)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", id, err))

			continue
		}

		settings[id] = lint.RuleSetting{Severity: severity, Options: rule.Options}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return settings, nil
}
