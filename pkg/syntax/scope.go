package syntax

// DeclKind classifies a declaration bound in a scope.
type DeclKind int

// Declaration kinds.
const (
	DeclClass DeclKind = iota
	DeclInterface
	DeclTypeAlias
	DeclEnum
	DeclFunction
	DeclNamespace
	DeclVariable
)

var declKindNames = [...]string{
	DeclClass:     "class",
	DeclInterface: "interface",
	DeclTypeAlias: "type-alias",
	DeclEnum:      "enum",
	DeclFunction:  "function",
	DeclNamespace: "namespace",
	DeclVariable:  "variable",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}

	return "unknown"
}

// Declaration is one statement binding a name in a scope.
type Declaration struct {
	Name string
	Kind DeclKind
	Node *Node
}

// Scope is a lexical scope opened by the program or a statement block.
type Scope struct {
	Node   *Node
	Parent *Scope

	symbols map[string][]Declaration
}

func newScope(node *Node, parent *Scope) *Scope {
	return &Scope{
		Node:    node,
		Parent:  parent,
		symbols: make(map[string][]Declaration),
	}
}

// Declarations returns every declaration of name made directly in this scope,
// in source order. Declaration merging makes more than one entry possible.
func (s *Scope) Declarations(name string) []Declaration {
	if s == nil {
		return nil
	}

	return s.symbols[name]
}

// Names returns the number of distinct names bound directly in the scope.
func (s *Scope) Names() int {
	return len(s.symbols)
}

func (s *Scope) bind(decl Declaration) {
	if decl.Name == "" {
		return
	}

	s.symbols[decl.Name] = append(s.symbols[decl.Name], decl)
}

// SymbolTable indexes the declarations of one file by scope.
type SymbolTable struct {
	root   *Scope
	scopes []*Scope
}

// Root returns the module (program) scope.
func (t *SymbolTable) Root() *Scope {
	return t.root
}

// Scopes returns all scopes in creation (pre-order) order.
func (t *SymbolTable) Scopes() []*Scope {
	return t.scopes
}

// ResolveInScope returns the declarations of name made directly in scope.
// Enclosing scopes are not consulted.
func (t *SymbolTable) ResolveInScope(name string, scope *Scope) []Declaration {
	return scope.Declarations(name)
}

func buildSymbols(scopes []*Scope) *SymbolTable {
	table := &SymbolTable{scopes: scopes}
	if len(scopes) > 0 {
		table.root = scopes[0]
	}

	for _, scope := range scopes {
		for _, stmt := range scope.Node.Children {
			collectDeclarations(scope, stmt)
		}
	}

	return table
}

// collectDeclarations binds the names a statement declares. Export, ambient
// and expression-statement wrappers are looked through.
func collectDeclarations(scope *Scope, stmt *Node) {
	switch stmt.Kind {
	case KindExportStatement, KindAmbientDeclaration, KindExpressionStatement:
		for _, child := range stmt.Children {
			if child.Kind == KindClass && stmt.Kind == KindExportStatement {
				scope.bind(Declaration{Name: child.Name(), Kind: DeclClass, Node: child})

				continue
			}

			collectDeclarations(scope, child)
		}
	case KindClassDeclaration, KindAbstractClassDeclaration:
		scope.bind(Declaration{Name: stmt.Name(), Kind: DeclClass, Node: stmt})
	case KindInterfaceDeclaration:
		scope.bind(Declaration{Name: stmt.Name(), Kind: DeclInterface, Node: stmt})
	case KindTypeAliasDeclaration:
		scope.bind(Declaration{Name: stmt.Name(), Kind: DeclTypeAlias, Node: stmt})
	case KindEnumDeclaration:
		scope.bind(Declaration{Name: stmt.Name(), Kind: DeclEnum, Node: stmt})
	case KindFunctionDeclaration, KindFunctionSignature:
		scope.bind(Declaration{Name: stmt.Name(), Kind: DeclFunction, Node: stmt})
	case KindInternalModule, KindModule:
		scope.bind(Declaration{Name: stmt.Name(), Kind: DeclNamespace, Node: stmt})
	case KindLexicalDeclaration, KindVariableDeclaration:
		for _, declarator := range stmt.Children {
			if declarator.Kind != KindVariableDeclarator {
				continue
			}

			if name := declarator.Field(FieldName); name != nil && name.Kind == KindIdentifier {
				scope.bind(Declaration{Name: name.Text(), Kind: DeclVariable, Node: declarator})
			}
		}
	}
}
