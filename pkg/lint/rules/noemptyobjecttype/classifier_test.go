package noemptyobjecttype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules/noemptyobjecttype"
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// fakeLookup answers scope queries from a fixed table.
type fakeLookup map[string][]syntax.Declaration

func (f fakeLookup) ResolveInScope(name string, _ *syntax.Scope) []syntax.Declaration {
	return f[name]
}

var span = syntax.Span{StartByte: 10, EndByte: 14, StartLine: 1, StartColumn: 11, EndLine: 1, EndColumn: 15}

func allOptions(t *testing.T) []noemptyobjecttype.Options {
	t.Helper()

	pattern, err := noemptyobjecttype.CompileNamePattern("Base")
	require.NoError(t, err)

	var all []noemptyobjecttype.Options

	for _, ifaces := range []noemptyobjecttype.AllowInterfaces{
		noemptyobjecttype.InterfacesNever,
		noemptyobjecttype.InterfacesAlways,
		noemptyobjecttype.InterfacesWithSingleExtends,
	} {
		for _, objects := range []noemptyobjecttype.AllowObjectTypes{
			noemptyobjecttype.ObjectTypesNever,
			noemptyobjecttype.ObjectTypesAlways,
		} {
			for _, name := range []*noemptyobjecttype.NamePattern{nil, pattern} {
				all = append(all, noemptyobjecttype.Options{
					AllowInterfaces:  ifaces,
					AllowObjectTypes: objects,
					AllowWithName:    name,
				})
			}
		}
	}

	return all
}

func TestClassify_NonEmptyAlwaysAllowed(t *testing.T) {
	t.Parallel()

	sites := []noemptyobjecttype.Site{
		noemptyobjecttype.InterfaceSite{Name: "Base", Members: 1, At: span},
		noemptyobjecttype.InterfaceSite{
			Name: "Base", Members: 2, At: span,
			Extends: []noemptyobjecttype.ExtendsTarget{noemptyobjecttype.ParameterizedRef{Name: "Array"}},
		},
		noemptyobjecttype.AliasSite{Name: "Base", Members: 1, At: span},
		noemptyobjecttype.LiteralSite{Members: 3, Shape: noemptyobjecttype.ShapeUnion, At: span},
		noemptyobjecttype.LiteralSite{Members: 1, At: span},
	}

	for _, opts := range allOptions(t) {
		classifier := noemptyobjecttype.NewClassifier(opts, nil)
		for _, site := range sites {
			assert.False(t, classifier.Classify(site).Report, "%#v with %+v", site, opts)
		}
	}
}

func TestClassify_MultipleExtendsAlwaysAllowed(t *testing.T) {
	t.Parallel()

	site := noemptyobjecttype.InterfaceSite{
		Name: "Both",
		At:   span,
		Extends: []noemptyobjecttype.ExtendsTarget{
			noemptyobjecttype.PlainInterfaceRef{Name: "Base"},
			noemptyobjecttype.ParameterizedRef{Name: "Array", TypeArgs: []string{"number"}},
		},
	}

	for _, opts := range allOptions(t) {
		assert.False(t, noemptyobjecttype.NewClassifier(opts, nil).Classify(site).Report)
	}
}

func TestClassify_IntersectionMemberAlwaysAllowed(t *testing.T) {
	t.Parallel()

	site := noemptyobjecttype.LiteralSite{Shape: noemptyobjecttype.ShapeIntersection, At: span}

	for _, opts := range allOptions(t) {
		assert.False(t, noemptyobjecttype.NewClassifier(opts, nil).Classify(site).Report)
	}
}

func TestClassify_LiteralsIgnoreNamePattern(t *testing.T) {
	t.Parallel()

	pattern, err := noemptyobjecttype.CompileNamePattern(".*")
	require.NoError(t, err)

	classifier := noemptyobjecttype.NewClassifier(noemptyobjecttype.Options{AllowWithName: pattern}, nil)

	for _, shape := range []noemptyobjecttype.Shape{noemptyobjecttype.ShapeUnion, noemptyobjecttype.ShapeOther} {
		verdict := classifier.Classify(noemptyobjecttype.LiteralSite{Shape: shape, At: span})
		assert.True(t, verdict.Report, shape.String())
		assert.Equal(t, span, verdict.Span)
	}

	assert.False(t, classifier.Classify(noemptyobjecttype.AliasSite{Name: "Base", At: span}).Report)
	assert.False(t, classifier.Classify(noemptyobjecttype.InterfaceSite{Name: "Base", At: span}).Report)
}

func TestClassify_Idempotent(t *testing.T) {
	t.Parallel()

	site := noemptyobjecttype.InterfaceSite{
		Name:    "Derived",
		At:      span,
		Extends: []noemptyobjecttype.ExtendsTarget{noemptyobjecttype.PlainInterfaceRef{Name: "Base"}},
	}

	for _, opts := range allOptions(t) {
		classifier := noemptyobjecttype.NewClassifier(opts, nil)
		assert.Equal(t, classifier.Classify(site), classifier.Classify(site))
	}
}

func TestClassify_Interfaces(t *testing.T) {
	t.Parallel()

	plain := []noemptyobjecttype.ExtendsTarget{noemptyobjecttype.PlainInterfaceRef{Name: "Base"}}
	generic := []noemptyobjecttype.ExtendsTarget{
		noemptyobjecttype.ParameterizedRef{Name: "Array", TypeArgs: []string{"number"}},
	}
	withClass := fakeLookup{"Derived": {{Name: "Derived", Kind: syntax.DeclClass}}}
	withVariable := fakeLookup{"Derived": {{Name: "Derived", Kind: syntax.DeclVariable}}}

	tests := []struct {
		name    string
		allow   noemptyobjecttype.AllowInterfaces
		extends []noemptyobjecttype.ExtendsTarget
		lookup  fakeLookup
		report  bool
	}{
		{name: "no extends never", allow: noemptyobjecttype.InterfacesNever, report: true},
		{name: "no extends single", allow: noemptyobjecttype.InterfacesWithSingleExtends, report: true},
		{name: "no extends always", allow: noemptyobjecttype.InterfacesAlways},
		{name: "plain never", allow: noemptyobjecttype.InterfacesNever, extends: plain, lookup: withClass, report: true},
		{name: "plain single with class", allow: noemptyobjecttype.InterfacesWithSingleExtends, extends: plain, lookup: withClass},
		{
			name: "plain single without class", allow: noemptyobjecttype.InterfacesWithSingleExtends,
			extends: plain, report: true,
		},
		{
			name: "plain single with class expression", allow: noemptyobjecttype.InterfacesWithSingleExtends,
			extends: plain, lookup: withVariable, report: true,
		},
		{name: "plain always", allow: noemptyobjecttype.InterfacesAlways, extends: plain},
		{name: "generic never", allow: noemptyobjecttype.InterfacesNever, extends: generic, report: true},
		{
			name: "generic single with class", allow: noemptyobjecttype.InterfacesWithSingleExtends,
			extends: generic, lookup: withClass, report: true,
		},
		{name: "generic always", allow: noemptyobjecttype.InterfacesAlways, extends: generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			site := noemptyobjecttype.InterfaceSite{
				Name:    "Derived",
				Extends: tt.extends,
				Scope:   &syntax.Scope{},
				At:      span,
			}

			verdict := noemptyobjecttype.NewClassifier(
				noemptyobjecttype.Options{AllowInterfaces: tt.allow}, tt.lookup,
			).Classify(site)

			assert.Equal(t, tt.report, verdict.Report)

			if tt.report {
				assert.Equal(t, span, verdict.Span)
			}
		})
	}
}

func TestClassify_ObjectTypes(t *testing.T) {
	t.Parallel()

	never := noemptyobjecttype.NewClassifier(noemptyobjecttype.Options{}, nil)
	always := noemptyobjecttype.NewClassifier(
		noemptyobjecttype.Options{AllowObjectTypes: noemptyobjecttype.ObjectTypesAlways}, nil,
	)

	alias := noemptyobjecttype.AliasSite{Name: "Base", At: span}
	literal := noemptyobjecttype.LiteralSite{At: span}
	union := noemptyobjecttype.LiteralSite{Shape: noemptyobjecttype.ShapeUnion, At: span}

	assert.True(t, never.Classify(alias).Report)
	assert.True(t, never.Classify(literal).Report)
	assert.True(t, never.Classify(union).Report)

	assert.False(t, always.Classify(alias).Report)
	assert.False(t, always.Classify(literal).Report)
	assert.False(t, always.Classify(union).Report)
}

func TestClassify_UnknownSiteAllowed(t *testing.T) {
	t.Parallel()

	assert.False(t, noemptyobjecttype.NewClassifier(noemptyobjecttype.Options{}, nil).Classify(nil).Report)
}
