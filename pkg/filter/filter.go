package filter

import (
	"path/filepath"
	"strings"
)

// Filter determines whether candidate source files or symbols should be excluded
// from import suggestions. It uses glob patterns for file paths and symbol names.
type Filter struct {
	fileGlobs   []string
	symbolGlobs []string
}

// New creates a new Filter with the provided glob patterns.
//
// fileGlobs: A list of patterns to match against file paths (e.g., "*.test.ts", "*/__mocks__/*").
// symbolGlobs: A list of patterns to match against exported symbol names (e.g., "_*", "mock*").
func New(fileGlobs, symbolGlobs []string) *Filter {
	return &Filter{
		fileGlobs:   fileGlobs,
		symbolGlobs: symbolGlobs,
	}
}

// MatchesFile checks if the file path is excluded.
// Both the full path and the base name are checked, so "*.spec.ts" excludes
// "/abs/path/to/foo.spec.ts".
//
// path: The file path to check.
func (f *Filter) MatchesFile(path string) bool {
	if f == nil || path == "" {
		return false
	}
	path = filepath.ToSlash(path)
	base := filepath.Base(path)

	for _, pattern := range f.fileGlobs {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		matchedBase, errBase := filepath.Match(pattern, base)
		if errBase == nil && matchedBase {
			return true
		}
		// A bare directory name excludes everything below it ("node_modules").
		if !strings.ContainsAny(pattern, "*?[") && strings.Contains("/"+path+"/", "/"+pattern+"/") {
			return true
		}
	}
	return false
}

// MatchesSymbol checks if the symbol name is excluded.
//
// name: The exported symbol name.
func (f *Filter) MatchesSymbol(name string) bool {
	if f == nil || name == "" {
		return false
	}
	for _, pattern := range f.symbolGlobs {
		matched, err := filepath.Match(pattern, name)
		if err == nil && matched {
			return true
		}
	}
	return false
}
