// Package files provides utilities for filesystem traversal and file collection.
package files

import (
	"os"
	"path/filepath"
	"strings"
)

// SourceExtensions lists the suffixes of the script files that are collected.
var SourceExtensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
}

// IsSource reports whether name has one of SourceExtensions.
func IsSource(name string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// CollectSourceFiles collects the script files in the directory tree rooted at dir.
// node_modules and .git are skipped, as is any entry whose relative path or
// base name matches one of excludeGlobs via filepath.Match.
//
// dir: root directory to traverse.
// excludeGlobs: list of glob patterns for exclusion.
func CollectSourceFiles(dir string, excludeGlobs []string) ([]string, error) {
	var files []string
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(absDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		if excluded(rel, d.Name(), excludeGlobs) || (d.IsDir() && skipDirs[d.Name()]) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsSource(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func excluded(rel, name string, globs []string) bool {
	for _, glob := range globs {
		if match, _ := filepath.Match(glob, rel); match {
			return true
		}
		if match, _ := filepath.Match(glob, name); match {
			return true
		}
	}
	return false
}
