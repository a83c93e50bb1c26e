package lint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/Sumatoshi-tech/tsguard/pkg/syntax"
)

// defaultIgnores are skipped during directory walks regardless of configuration.
var defaultIgnores = []string{
	"node_modules/",
	".git/",
	"dist/",
	"build/",
	"coverage/",
}

// ErrNoInputs is returned when discovery finds nothing to lint.
var ErrNoInputs = errors.New("no TypeScript files found")

// Discover expands roots into the TypeScript files to lint. Directories are
// walked recursively; the .gitignore at each root directory, the default
// ignores and the extra patterns are honored. Files named explicitly are kept
// even when ignored. The result is sorted and free of duplicates.
func Discover(roots []string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})

	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if _, dup := seen[clean]; dup {
			return
		}

		seen[clean] = struct{}{}
		files = append(files, clean)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("discover %s: %w", root, err)
		}

		if !info.IsDir() {
			if syntax.IsSupported(root) {
				add(root)
			}

			continue
		}

		matcher, err := loadIgnore(root, patterns)
		if err != nil {
			return nil, err
		}

		walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil || rel == "." {
				return nil //nolint:nilerr // the root itself is never ignored
			}

			rel = filepath.ToSlash(rel)

			if entry.IsDir() {
				if matcher.MatchesPath(rel + "/") {
					return filepath.SkipDir
				}

				return nil
			}

			if syntax.IsSupported(path) && !matcher.MatchesPath(rel) {
				add(path)
			}

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", root, walkErr)
		}
	}

	if len(files) == 0 {
		return nil, ErrNoInputs
	}

	sort.Strings(files)

	return files, nil
}

func loadIgnore(root string, patterns []string) (*ignore.GitIgnore, error) {
	lines := make([]string, 0, len(defaultIgnores)+len(patterns))
	lines = append(lines, defaultIgnores...)
	lines = append(lines, patterns...)

	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		matcher, compileErr := ignore.CompileIgnoreFileAndLines(gitignorePath, lines...)
		if compileErr != nil {
			return nil, fmt.Errorf("load %s: %w", gitignorePath, compileErr)
		}

		return matcher, nil
	}

	return ignore.CompileIgnoreLines(lines...), nil
}
