package lint

import (
	"fmt"
	"sort"
)

// RuleSetting is the user configuration of one rule.
type RuleSetting struct {
	Severity Severity
	// Options are the raw rule options; nil keeps the rule defaults.
	Options any
}

// ConfigError reports a rule whose configuration was rejected. Only that rule
// is disabled; the rest of the run proceeds.
type ConfigError struct {
	Rule string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.Rule, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CanonicalSettings rekeys settings by full rule id. Unknown ids are kept as
// given. A rule set under both its bare name and its full id is reported and
// the full-id setting is kept.
func (r *Registry) CanonicalSettings(settings map[string]RuleSetting) (map[string]RuleSetting, []*ConfigError) {
	var problems []*ConfigError

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	canonical := make(map[string]RuleSetting, len(settings))
	spelling := make(map[string]string, len(settings))

	for _, key := range keys {
		id := r.CanonicalID(key)

		if first, seen := spelling[id]; seen {
			problems = append(problems, &ConfigError{
				Rule: id,
				Err:  fmt.Errorf("%w: %q and %q", ErrDuplicateSetting, first, key),
			})

			if first == id {
				continue
			}
		}

		spelling[id] = key
		canonical[id] = settings[key]
	}

	return canonical, problems
}

// ActiveRule is a configured rule instance ready to run.
type ActiveRule struct {
	Meta     Meta
	Severity Severity
	Rule     Rule
}

// Configure resolves settings against the registry. Rules without a setting
// run at their default severity. Settings naming unknown rules and rules whose
// options fail validation come back as ConfigErrors; the returned rules are
// still usable.
func Configure(reg *Registry, settings map[string]RuleSetting) ([]ActiveRule, []*ConfigError) {
	resolved, problems := reg.CanonicalSettings(settings)

	for id := range resolved {
		if _, ok := reg.index[id]; !ok {
			problems = append(problems, &ConfigError{Rule: id, Err: reg.UnknownRuleError(id)})

			delete(resolved, id)
		}
	}

	sort.SliceStable(problems, func(i, j int) bool { return problems[i].Rule < problems[j].Rule })

	active := make([]ActiveRule, 0, len(reg.ordered))

	for _, meta := range reg.ordered {
		setting, configured := resolved[meta.ID()]
		if !configured {
			setting = RuleSetting{Severity: meta.DefaultSeverity}
		}

		if setting.Severity == SeverityOff {
			continue
		}

		rule, err := meta.New(setting.Options)
		if err != nil {
			problems = append(problems, &ConfigError{Rule: meta.ID(), Err: err})

			continue
		}

		active = append(active, ActiveRule{Meta: meta, Severity: setting.Severity, Rule: rule})
	}

	return active, problems
}
