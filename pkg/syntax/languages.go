package syntax

import (
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
	"github.com/src-d/enry/v2"

	"github.com/alexaandru/go-sitter-forest/tsx"
	"github.com/alexaandru/go-sitter-forest/typescript"
)

// Language names understood by the parser.
const (
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
)

// languageFuncs maps language names to their tree-sitter GetLanguage functions.
var languageFuncs = map[string]func() unsafe.Pointer{
	LangTypeScript: typescript.GetLanguage,
	LangTSX:        tsx.GetLanguage,
}

// extensionLanguages maps lower-cased file extensions to language names.
var extensionLanguages = map[string]string{
	".ts":  LangTypeScript,
	".mts": LangTypeScript,
	".cts": LangTypeScript,
	".tsx": LangTSX,
}

var languageCache sync.Map

// GetLanguage returns the tree-sitter Language for the given name, or nil if not supported.
func GetLanguage(name string) *sitter.Language {
	if cached, ok := languageCache.Load(name); ok {
		lang, castOK := cached.(*sitter.Language)
		if castOK {
			return lang
		}
	}

	fn, ok := languageFuncs[name]
	if !ok {
		return nil
	}

	lang := sitter.NewLanguage(fn())
	languageCache.Store(name, lang)

	return lang
}

// LanguageFor returns the language name for a file name based on its extension.
// Declaration files (.d.ts, .d.mts, .d.cts) map to typescript.
func LanguageFor(filename string) (string, bool) {
	lang, ok := extensionLanguages[strings.ToLower(filepath.Ext(filename))]

	return lang, ok
}

// IsSupported reports whether the file name has a TypeScript extension.
func IsSupported(filename string) bool {
	_, ok := LanguageFor(filename)

	return ok
}

// IsTypeScriptContent confirms a ".ts" file really holds TypeScript. The
// extension is shared with Qt Linguist translation files, which are XML.
func IsTypeScriptContent(filename string, content []byte) bool {
	if !strings.EqualFold(filepath.Ext(filename), ".ts") {
		return IsSupported(filename)
	}

	return enry.GetLanguage(filepath.Base(filename), content) != "XML"
}
