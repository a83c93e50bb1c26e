package noemptyobjecttype

import (
	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// Site is one syntactic occurrence the rule evaluates: an InterfaceSite, an
// AliasSite or a LiteralSite.
type Site interface {
	site()
}

// InterfaceSite is an interface declaration.
type InterfaceSite struct {
	Name    string
	Members int
	Extends []ExtendsTarget
	// Scope is the lexical scope the interface is declared in.
	Scope *syntax.Scope
	// At is the span of the interface name.
	At syntax.Span
}

// AliasSite is a type alias whose whole value is an object type literal.
type AliasSite struct {
	Name    string
	Members int
	// At is the span of the literal.
	At syntax.Span
}

// Shape describes where an inline literal sits.
type Shape int

// Literal positions.
const (
	ShapeOther Shape = iota
	ShapeUnion
	ShapeIntersection
)

func (s Shape) String() string {
	switch s {
	case ShapeUnion:
		return "union"
	case ShapeIntersection:
		return "intersection"
	default:
		return "other"
	}
}

// LiteralSite is an object type literal anywhere other than as a whole alias
// value: an annotation, a union or intersection member, a type argument.
type LiteralSite struct {
	Members int
	Shape   Shape
	At      syntax.Span
}

func (InterfaceSite) site() {}
func (AliasSite) site()     {}
func (LiteralSite) site()   {}

// DiscoverSite maps a syntax node to the site it represents. Object type
// literals that form an interface body are part of their InterfaceSite and
// yield nothing on their own.
func DiscoverSite(node *syntax.Node) (Site, bool) {
	switch node.Kind {
	case syntax.KindInterfaceDeclaration:
		return interfaceSite(node), true
	case syntax.KindObjectType:
		return literalSite(node)
	default:
		return nil, false
	}
}

func interfaceSite(decl *syntax.Node) InterfaceSite {
	site := InterfaceSite{
		Name:    decl.Name(),
		Extends: ResolveExtendsList(decl),
		Scope:   decl.Scope(),
		At:      decl.Span,
	}

	if name := decl.Field(syntax.FieldName); name != nil {
		site.At = name.Span
	}

	body := decl.Field(syntax.FieldBody)
	if body == nil {
		body = decl.ChildOfKind(syntax.KindInterfaceBody)
	}

	if body != nil {
		site.Members = countMembers(body)
	}

	return site
}

func literalSite(literal *syntax.Node) (Site, bool) {
	parent := literal.Parent()
	if parent == nil {
		return LiteralSite{Members: countMembers(literal), At: literal.Span}, true
	}

	if parent.Kind == syntax.KindInterfaceDeclaration {
		return nil, false
	}

	// Look through parentheses to the construct the literal belongs to.
	outer := literal
	for parent != nil && parent.Kind == syntax.KindParenthesizedType {
		outer = parent
		parent = parent.Parent()
	}

	members := countMembers(literal)

	if parent == nil {
		return LiteralSite{Members: members, At: literal.Span}, true
	}

	switch {
	case parent.Kind == syntax.KindTypeAliasDeclaration && outer.FieldName() == syntax.FieldValue:
		return AliasSite{Name: parent.Name(), Members: members, At: literal.Span}, true
	case parent.Kind == syntax.KindUnionType:
		return LiteralSite{Members: members, Shape: ShapeUnion, At: literal.Span}, true
	case parent.Kind == syntax.KindIntersectionType:
		return LiteralSite{Members: members, Shape: ShapeIntersection, At: literal.Span}, true
	default:
		return LiteralSite{Members: members, At: literal.Span}, true
	}
}

// countMembers counts members of an object type or interface body; comments
// do not count.
func countMembers(body *syntax.Node) int {
	count := 0

	for _, child := range body.Children {
		if !child.IsComment() {
			count++
		}
	}

	return count
}
