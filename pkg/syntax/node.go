// Package syntax turns TypeScript sources into an owned syntax tree with
// lexical scopes and a per-scope symbol table.
package syntax

// Span is a source range. Lines and columns are 1-based, offsets are byte offsets.
type Span struct {
	StartByte   int `json:"start_offset" yaml:"start_offset"`
	EndByte     int `json:"end_offset"   yaml:"end_offset"`
	StartLine   int `json:"start_line"   yaml:"start_line"`
	StartColumn int `json:"start_col"    yaml:"start_col"`
	EndLine     int `json:"end_line"     yaml:"end_line"`
	EndColumn   int `json:"end_col"      yaml:"end_col"`
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.EndByte - s.StartByte
}

// Tree-sitter node kinds the engine and its rules care about.
const (
	KindProgram                  = "program"
	KindStatementBlock           = "statement_block"
	KindComment                  = "comment"
	KindInterfaceDeclaration     = "interface_declaration"
	KindInterfaceBody            = "interface_body"
	KindExtendsTypeClause        = "extends_type_clause"
	KindExtendsClause            = "extends_clause"
	KindTypeAliasDeclaration     = "type_alias_declaration"
	KindObjectType               = "object_type"
	KindUnionType                = "union_type"
	KindIntersectionType         = "intersection_type"
	KindParenthesizedType        = "parenthesized_type"
	KindGenericType              = "generic_type"
	KindTypeArguments            = "type_arguments"
	KindTypeIdentifier           = "type_identifier"
	KindNestedTypeIdentifier     = "nested_type_identifier"
	KindIdentifier               = "identifier"
	KindMemberExpression         = "member_expression"
	KindClassDeclaration         = "class_declaration"
	KindAbstractClassDeclaration = "abstract_class_declaration"
	KindClass                    = "class"
	KindExportStatement          = "export_statement"
	KindAmbientDeclaration       = "ambient_declaration"
	KindInternalModule           = "internal_module"
	KindModule                   = "module"
	KindEnumDeclaration          = "enum_declaration"
	KindFunctionDeclaration      = "function_declaration"
	KindFunctionSignature        = "function_signature"
	KindLexicalDeclaration       = "lexical_declaration"
	KindVariableDeclaration      = "variable_declaration"
	KindVariableDeclarator       = "variable_declarator"
	KindExpressionStatement      = "expression_statement"
)

// Field names recorded on converted nodes.
const (
	FieldName           = "name"
	FieldBody           = "body"
	FieldValue          = "value"
	FieldDeclaration    = "declaration"
	FieldTypeArguments  = "type_arguments"
	FieldTypeParameters = "type_parameters"
)

// trackedFields are resolved through the tree-sitter field API during conversion.
var trackedFields = []string{
	FieldName,
	FieldBody,
	FieldValue,
	FieldDeclaration,
	FieldTypeArguments,
	FieldTypeParameters,
}

// Node is a named syntax node detached from the tree-sitter tree it came from.
type Node struct {
	Kind     string
	Span     Span
	Children []*Node

	parent *Node
	scope  *Scope
	field  string
	text   string
}

// Parent returns the enclosing node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Scope returns the innermost lexical scope containing the node.
func (n *Node) Scope() *Scope {
	return n.scope
}

// FieldName returns the grammar field this node occupies in its parent, if any.
func (n *Node) FieldName() string {
	return n.field
}

// Text returns the source text covered by the node.
func (n *Node) Text() string {
	return n.text
}

// Field returns the first child stored under the given grammar field.
func (n *Node) Field(name string) *Node {
	for _, child := range n.Children {
		if child.field == name {
			return child
		}
	}

	return nil
}

// ChildOfKind returns the first child with the given kind.
func (n *Node) ChildOfKind(kind string) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}

	return nil
}

// Name returns the text of the node's name field, or "" when it has none.
func (n *Node) Name() string {
	if name := n.Field(FieldName); name != nil {
		return name.text
	}

	return ""
}

// IsComment reports whether the node is a comment.
func (n *Node) IsComment() bool {
	return n.Kind == KindComment
}

// Walk visits the node and its descendants in pre-order. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}

	for _, child := range n.Children {
		child.Walk(fn)
	}
}
