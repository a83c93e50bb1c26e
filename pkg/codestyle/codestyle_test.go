// Package codestyle_test holds repository-wide checks on source layout and
// conventions. It has no production code.
package codestyle_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	modulePath = "github.com/Sumatoshi-tech/tsguard"
	rulesDir   = "pkg/lint/rules"

	maxInterfaceMethods = 3
)

// repoRoot walks up from the test's working directory to the go.mod.
func repoRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		_, statErr := os.Stat(filepath.Join(dir, "go.mod"))
		if statErr == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		require.NotEqual(t, dir, parent, "go.mod not found above %s", dir)

		dir = parent
	}
}

// sourceFile is one parsed non-test Go file.
type sourceFile struct {
	rel  string // slash-separated, relative to the repository root.
	file *ast.File
}

func skippedDir(name string) bool {
	return name == "testdata" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}

// parseSources parses every non-test Go file below the given top-level dirs.
func parseSources(t *testing.T, root string, dirs ...string) []sourceFile {
	t.Helper()

	var files []sourceFile

	for _, dir := range dirs {
		err := filepath.WalkDir(filepath.Join(root, dir), func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				if skippedDir(entry.Name()) {
					return filepath.SkipDir
				}

				return nil
			}

			if !strings.HasSuffix(p, ".go") || strings.HasSuffix(p, "_test.go") {
				return nil
			}

			parsed, err := parser.ParseFile(token.NewFileSet(), p, nil, parser.SkipObjectResolution)
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}

			files = append(files, sourceFile{rel: filepath.ToSlash(rel), file: parsed})

			return nil
		})
		require.NoError(t, err)
	}

	require.NotEmpty(t, files)

	return files
}

// calledSelector reports "pkg.Func" for calls of the form pkg.Func(...).
func calledSelector(node ast.Node) (string, bool) {
	call, ok := node.(*ast.CallExpr)
	if !ok {
		return "", false
	}

	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok {
		return "", false
	}

	pkg, ok := sel.X.(*ast.Ident)
	if !ok {
		return "", false
	}

	return pkg.Name + "." + sel.Sel.Name, true
}

func TestNoGrabBagFilenames(t *testing.T) {
	t.Parallel()

	banned := map[string]bool{
		"types.go":     true,
		"utils.go":     true,
		"helpers.go":   true,
		"common.go":    true,
		"constants.go": true,
		"errors.go":    true,
	}

	for _, src := range parseSources(t, repoRoot(t), "cmd", "pkg") {
		assert.False(t, banned[path.Base(src.rel)],
			"%s: name the file after the domain its declarations belong to", src.rel)
	}
}

// Library packages report through returned errors and slog; only cmd/ may
// print to stdout or end the process.
func TestLibraryPackagesStayQuiet(t *testing.T) {
	t.Parallel()

	forbidden := map[string]bool{
		"fmt.Print":   true,
		"fmt.Printf":  true,
		"fmt.Println": true,
		"os.Exit":     true,
	}

	for _, src := range parseSources(t, repoRoot(t), "pkg") {
		for _, imp := range src.file.Imports {
			assert.NotEqual(t, `"log"`, imp.Path.Value, "%s: use log/slog", src.rel)
		}

		ast.Inspect(src.file, func(node ast.Node) bool {
			if name, ok := calledSelector(node); ok && forbidden[name] {
				assert.Fail(t, "library package writes to the process", "%s calls %s", src.rel, name)
			}

			return true
		})
	}
}

func TestSentinelErrorsArePackageLevel(t *testing.T) {
	t.Parallel()

	for _, src := range parseSources(t, repoRoot(t), "cmd", "pkg") {
		for _, decl := range src.file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Body == nil {
				continue
			}

			ast.Inspect(fn.Body, func(node ast.Node) bool {
				if name, ok := calledSelector(node); ok && name == "errors.New" {
					assert.Fail(t, "errors.New inside a function",
						"%s: %s should wrap a package-level Err* sentinel", src.rel, fn.Name.Name)
				}

				return true
			})
		}
	}
}

func TestInterfacesStaySmall(t *testing.T) {
	t.Parallel()

	for _, src := range parseSources(t, repoRoot(t), "cmd", "pkg") {
		ast.Inspect(src.file, func(node ast.Node) bool {
			spec, ok := node.(*ast.TypeSpec)
			if !ok {
				return true
			}

			iface, ok := spec.Type.(*ast.InterfaceType)
			if !ok {
				return true
			}

			var methods int

			for _, field := range iface.Methods.List {
				if _, isFunc := field.Type.(*ast.FuncType); isFunc {
					methods++
				}
			}

			assert.LessOrEqual(t, methods, maxInterfaceMethods,
				"%s: interface %s has %d methods", src.rel, spec.Name.Name, methods)

			return true
		})
	}
}

// exportsMeta reports whether file declares a package-level var named Meta.
func exportsMeta(file *ast.File) bool {
	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}

		for _, spec := range gen.Specs {
			value, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}

			for _, name := range value.Names {
				if name.Name == "Meta" {
					return true
				}
			}
		}
	}

	return false
}

// registeredRules returns the import paths and package.Meta references found
// in the rules table.
func registeredRules(t *testing.T, root string) (map[string]bool, map[string]bool) {
	t.Helper()

	file, err := parser.ParseFile(token.NewFileSet(),
		filepath.Join(root, rulesDir, "registry.go"), nil, parser.SkipObjectResolution)
	require.NoError(t, err)

	imports := make(map[string]bool)

	for _, imp := range file.Imports {
		importPath, unquoteErr := strconv.Unquote(imp.Path.Value)
		require.NoError(t, unquoteErr)

		imports[importPath] = true
	}

	refs := make(map[string]bool)

	ast.Inspect(file, func(node ast.Node) bool {
		sel, ok := node.(*ast.SelectorExpr)
		if !ok || sel.Sel.Name != "Meta" {
			return true
		}

		if pkg, isIdent := sel.X.(*ast.Ident); isIdent {
			refs[pkg.Name] = true
		}

		return true
	})

	return imports, refs
}

// Every rule lives in its own package under pkg/lint/rules with an exported
// Meta, an embedded options schema and fixture tests, and is listed in the
// rules table.
func TestRulePackagesAreComplete(t *testing.T) {
	t.Parallel()

	root := repoRoot(t)
	imports, refs := registeredRules(t, root)

	entries, err := os.ReadDir(filepath.Join(root, rulesDir))
	require.NoError(t, err)

	var rules int

	for _, entry := range entries {
		if !entry.IsDir() || skippedDir(entry.Name()) {
			continue
		}

		rules++

		name := entry.Name()
		dir := filepath.Join(root, rulesDir, name)

		for _, required := range []string{"rule.go", "rule_test.go", "schema.json"} {
			assert.FileExists(t, filepath.Join(dir, required), "rule package %s", name)
		}

		file, parseErr := parser.ParseFile(token.NewFileSet(),
			filepath.Join(dir, "rule.go"), nil, parser.SkipObjectResolution)
		if !assert.NoError(t, parseErr) {
			continue
		}

		assert.Equal(t, name, file.Name.Name, "package name must match directory %s", name)
		assert.True(t, exportsMeta(file), "%s/rule.go must declare var Meta", name)
		assert.True(t, imports[modulePath+"/"+rulesDir+"/"+name], "rules table does not import %s", name)
		assert.True(t, refs[name], "rules table does not register %s.Meta", name)
	}

	assert.Positive(t, rules)
}
