package noemptyobjecttype

import (
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// ExtendsTarget is one entry of an interface's extends list. It is either a
// PlainInterfaceRef or a ParameterizedRef.
type ExtendsTarget interface {
	extendsTarget()
	TargetName() string
}

// PlainInterfaceRef is a bare type name without type arguments.
type PlainInterfaceRef struct {
	Name string
}

// ParameterizedRef is a type reference carrying type arguments, such as
// Array<number> or Derived<T>.
type ParameterizedRef struct {
	Name     string
	TypeArgs []string
}

func (PlainInterfaceRef) extendsTarget() {}
func (ParameterizedRef) extendsTarget()  {}

// TargetName returns the referenced type name.
func (r PlainInterfaceRef) TargetName() string { return r.Name }

// TargetName returns the referenced generic type name, without arguments.
func (r ParameterizedRef) TargetName() string { return r.Name }

// ResolveExtendsTarget classifies a single extends entry. Shapes other than a
// generic instantiation are treated as plain references named by their text.
func ResolveExtendsTarget(entry *syntax.Node) ExtendsTarget {
	if entry.Kind != syntax.KindGenericType {
		return PlainInterfaceRef{Name: entry.Text()}
	}

	name := entry.Text()
	if nameNode := entry.Field(syntax.FieldName); nameNode != nil {
		name = nameNode.Text()
	}

	return ParameterizedRef{Name: name, TypeArgs: typeArguments(entry.ChildOfKind(syntax.KindTypeArguments))}
}

// ResolveExtendsList returns the extends entries of an interface declaration
// in source order. Both the type-clause and the expression-clause grammar
// shapes are understood.
func ResolveExtendsList(decl *syntax.Node) []ExtendsTarget {
	if clause := decl.ChildOfKind(syntax.KindExtendsTypeClause); clause != nil {
		targets := make([]ExtendsTarget, 0, len(clause.Children))

		for _, entry := range clause.Children {
			if entry.IsComment() {
				continue
			}

			targets = append(targets, ResolveExtendsTarget(entry))
		}

		return targets
	}

	clause := decl.ChildOfKind(syntax.KindExtendsClause)
	if clause == nil {
		return nil
	}

	var targets []ExtendsTarget

	for _, entry := range clause.Children {
		switch {
		case entry.IsComment():
		case entry.Kind == syntax.KindTypeArguments && len(targets) > 0:
			last := len(targets) - 1
			targets[last] = ParameterizedRef{
				Name:     targets[last].TargetName(),
				TypeArgs: typeArguments(entry),
			}
		default:
			targets = append(targets, ResolveExtendsTarget(entry))
		}
	}

	return targets
}

func typeArguments(args *syntax.Node) []string {
	if args == nil {
		return nil
	}

	out := make([]string, 0, len(args.Children))

	for _, arg := range args.Children {
		if !arg.IsComment() {
			out = append(out, arg.Text())
		}
	}

	return out
}
