package syntax

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/tsguard/pkg/safeconv"
)

// Sentinel errors for parser operations.
var (
	ErrUnsupportedFile      = errors.New("unsupported file type")
	errLanguageNotAvailable = errors.New("tree-sitter language not available")
	errNoRootNode           = errors.New("no root node")
	errPoolType             = errors.New("unexpected parser pool type")
)

// File is one parsed source file.
type File struct {
	Path     string
	Language string
	Source   []byte
	Root     *Node
	Symbols  *SymbolTable
}

// Parser parses TypeScript sources. It is safe for concurrent use; each
// language keeps a pool of tree-sitter parsers.
type Parser struct {
	mu    sync.Mutex
	pools map[string]*sync.Pool
}

// NewParser creates a parser for the supported languages. Grammars are
// initialized lazily on first use.
func NewParser() *Parser {
	return &Parser{pools: make(map[string]*sync.Pool)}
}

// Parse parses content using the language implied by the file name.
func (p *Parser) Parse(ctx context.Context, filename string, content []byte) (*File, error) {
	lang, ok := LanguageFor(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, filename)
	}

	return p.ParseLanguage(ctx, lang, filename, content)
}

// ParseLanguage parses content with an explicit language name.
func (p *Parser) ParseLanguage(ctx context.Context, lang, filename string, content []byte) (*File, error) {
	err := ctx.Err()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	pool, err := p.pool(lang)
	if err != nil {
		return nil, err
	}

	tsParser, ok := pool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer pool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("parse %s: %w", filename, errNoRootNode)
	}

	conv := &converter{source: string(content)}
	rootNode := conv.convert(root, nil, nil, "")

	return &File{
		Path:     filename,
		Language: lang,
		Source:   content,
		Root:     rootNode,
		Symbols:  buildSymbols(conv.scopes),
	}, nil
}

func (p *Parser) pool(lang string) (*sync.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pool, ok := p.pools[lang]; ok {
		return pool, nil
	}

	language := GetLanguage(lang)
	if language == nil {
		return nil, fmt.Errorf("%w: %s", errLanguageNotAvailable, lang)
	}

	pool := &sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(language)

			return tsParser
		},
	}
	p.pools[lang] = pool

	return pool, nil
}

// fieldKey identifies a child node by range and kind. Tree-sitter nodes are
// values, so identity has to be reconstructed.
type fieldKey struct {
	start uint
	end   uint
	kind  string
}

type converter struct {
	source string
	scopes []*Scope
}

func (c *converter) convert(tsNode sitter.Node, parent *Node, scope *Scope, field string) *Node {
	n := &Node{
		Kind:   tsNode.Type(),
		Span:   spanOf(tsNode),
		parent: parent,
		scope:  scope,
		field:  field,
		text:   c.slice(tsNode),
	}

	if n.Kind == KindProgram || n.Kind == KindStatementBlock {
		scope = newScope(n, scope)
		n.scope = scope
		c.scopes = append(c.scopes, scope)
	}

	count := tsNode.NamedChildCount()
	if count == 0 {
		return n
	}

	fields := fieldsOf(tsNode)
	n.Children = make([]*Node, 0, count)

	for idx := range count {
		child := tsNode.NamedChild(idx)
		key := fieldKey{start: child.StartByte(), end: child.EndByte(), kind: child.Type()}
		n.Children = append(n.Children, c.convert(child, n, scope, fields[key]))
	}

	return n
}

func (c *converter) slice(tsNode sitter.Node) string {
	start := safeconv.MustToInt(tsNode.StartByte())
	end := safeconv.MustToInt(tsNode.EndByte())

	if start < 0 || end > len(c.source) || start > end {
		return ""
	}

	return c.source[start:end]
}

func fieldsOf(tsNode sitter.Node) map[fieldKey]string {
	var fields map[fieldKey]string

	for _, name := range trackedFields {
		child := tsNode.ChildByFieldName(name)
		if child.IsNull() {
			continue
		}

		if fields == nil {
			fields = make(map[fieldKey]string, len(trackedFields))
		}

		key := fieldKey{start: child.StartByte(), end: child.EndByte(), kind: child.Type()}
		if _, taken := fields[key]; !taken {
			fields[key] = name
		}
	}

	return fields
}

func spanOf(tsNode sitter.Node) Span {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()

	return Span{
		StartByte:   safeconv.MustToInt(tsNode.StartByte()),
		EndByte:     safeconv.MustToInt(tsNode.EndByte()),
		StartLine:   safeconv.MustToInt(start.Row) + 1,
		StartColumn: safeconv.MustToInt(start.Column) + 1,
		EndLine:     safeconv.MustToInt(end.Row) + 1,
		EndColumn:   safeconv.MustToInt(end.Column) + 1,
	}
}
