package noemptyobjecttype

import (
	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// Verdict is the outcome of classifying one site. The zero value allows it.
type Verdict struct {
	Report bool
	Span   syntax.Span
}

func report(span syntax.Span) Verdict {
	return Verdict{Report: true, Span: span}
}

// Classifier decides whether a site is a reportable empty object type. It
// holds no per-site state; Classify is safe for concurrent use.
type Classifier struct {
	opts   Options
	merges MergeDetector
}

// NewClassifier returns a classifier for opts. lookup is consulted for
// declaration merging only and may be nil.
func NewClassifier(opts Options, lookup lint.ScopeLookup) Classifier {
	return Classifier{opts: opts, merges: NewMergeDetector(lookup)}
}

// Classify returns the verdict for site. Unknown site types are allowed.
func (c Classifier) Classify(site Site) Verdict {
	switch s := site.(type) {
	case InterfaceSite:
		return c.classifyInterface(s)
	case AliasSite:
		return c.classifyAlias(s)
	case LiteralSite:
		return c.classifyLiteral(s)
	default:
		return Verdict{}
	}
}

func (c Classifier) classifyInterface(site InterfaceSite) Verdict {
	if site.Members > 0 || c.opts.AllowWithName.Match(site.Name) {
		return Verdict{}
	}

	if c.opts.AllowInterfaces == InterfacesAlways {
		return Verdict{}
	}

	switch len(site.Extends) {
	case 0:
		return report(site.At)
	case 1:
	default:
		return Verdict{}
	}

	switch site.Extends[0].(type) {
	case PlainInterfaceRef:
		if c.opts.AllowInterfaces == InterfacesWithSingleExtends &&
			c.merges.HasSameScopeClass(site.Name, site.Scope) {
			return Verdict{}
		}

		return report(site.At)
	case ParameterizedRef:
		return report(site.At)
	default:
		return Verdict{}
	}
}

func (c Classifier) classifyAlias(site AliasSite) Verdict {
	if site.Members > 0 || c.opts.AllowWithName.Match(site.Name) {
		return Verdict{}
	}

	if c.opts.AllowObjectTypes == ObjectTypesAlways {
		return Verdict{}
	}

	return report(site.At)
}

func (c Classifier) classifyLiteral(site LiteralSite) Verdict {
	if site.Members > 0 || site.Shape == ShapeIntersection {
		return Verdict{}
	}

	if c.opts.AllowObjectTypes == ObjectTypesAlways {
		return Verdict{}
	}

	return report(site.At)
}
