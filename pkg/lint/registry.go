package lint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/tsguard/pkg/levenshtein"
)

// Registry errors.
var (
	ErrDuplicateRule = errors.New("duplicate rule id")
	ErrUnknownRule   = errors.New("unknown rule")
	ErrInvalidMeta   = errors.New("invalid rule metadata")

	// ErrDuplicateSetting reports one rule configured under two spellings.
	ErrDuplicateSetting = errors.New("rule configured more than once")
)

// Registry is an immutable table of rule metadata with deterministic ordering.
type Registry struct {
	ordered []Meta
	index   map[string]int
}

// NewRegistry builds a registry from rule metadata. Rule order is preserved.
func NewRegistry(metas ...Meta) (*Registry, error) {
	reg := &Registry{
		ordered: make([]Meta, 0, len(metas)),
		index:   make(map[string]int, len(metas)),
	}

	for _, meta := range metas {
		if meta.Name == "" || meta.New == nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMeta, meta.ID())
		}

		id := meta.ID()
		if _, exists := reg.index[id]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, id)
		}

		reg.index[id] = len(reg.ordered)
		reg.ordered = append(reg.ordered, meta)
	}

	return reg, nil
}

// All returns all rule metadata in registration order.
func (r *Registry) All() []Meta {
	metas := make([]Meta, len(r.ordered))
	copy(metas, r.ordered)

	return metas
}

// Lookup finds a rule by its full id or, when unambiguous, by its bare name.
func (r *Registry) Lookup(id string) (Meta, bool) {
	id = strings.TrimSpace(id)

	if idx, ok := r.index[id]; ok {
		return r.ordered[idx], true
	}

	var (
		found Meta
		hits  int
	)

	for _, meta := range r.ordered {
		if meta.Name == id {
			found = meta
			hits++
		}
	}

	return found, hits == 1
}

// CanonicalID returns the full id of the rule id names. Unknown ids come back
// trimmed but otherwise unchanged.
func (r *Registry) CanonicalID(id string) string {
	if meta, ok := r.Lookup(id); ok {
		return meta.ID()
	}

	return strings.TrimSpace(id)
}

// Suggest returns the registered id or bare name closest to a misspelled id.
func (r *Registry) Suggest(id string) (string, bool) {
	names := make([]string, 0, 2*len(r.ordered))
	for _, meta := range r.ordered {
		names = append(names, meta.ID(), meta.Name)
	}

	var dist levenshtein.Context

	return dist.Closest(strings.TrimSpace(id), names)
}

// UnknownRuleError wraps ErrUnknownRule with a spelling suggestion when one exists.
func (r *Registry) UnknownRuleError(id string) error {
	if suggestion, ok := r.Suggest(id); ok {
		return fmt.Errorf("%w (did you mean %s?)", ErrUnknownRule, suggestion)
	}

	return ErrUnknownRule
}
