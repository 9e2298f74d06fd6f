// Package alias turns local file paths into import specifiers using path-mapping
// rules of the kind found in tsconfig.json "paths".
package alias

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Extensions lists the file extensions stripped from specifiers, longest first so
// that ".d.ts" wins over ".ts".
var Extensions = []string{".d.ts", ".d.mts", ".d.cts", ".tsx", ".jsx", ".mts", ".cts", ".mjs", ".cjs", ".ts", ".js"}

// ErrSelectionOutOfRange is returned by Select when an explicit index does not
// address a candidate.
var ErrSelectionOutOfRange = errors.New("selected index out of range")

// Rule maps a directory or file onto an import alias.
type Rule struct {
	// Pattern is the alias as written in import statements (e.g. "@Libs/*").
	Pattern string `yaml:"pattern" json:"pattern"`
	// Target is the aliased location relative to BaseDir (e.g. "./lib/*").
	Target string `yaml:"target" json:"target"`
	// BaseDir is the directory Target is relative to.
	BaseDir string `yaml:"base_dir" json:"base_dir"`
}

// IsWildcard reports whether the rule maps a suffix through "*".
func (r Rule) IsWildcard() bool {
	return strings.Contains(r.Pattern, "*")
}

// Dir returns the absolute location the rule points at, with the wildcard
// segment removed for wildcard rules.
func (r Rule) Dir() string {
	target := r.Target
	if r.IsWildcard() {
		if i := strings.Index(target, "*"); i >= 0 {
			target = target[:i]
		}
	}
	joined := path.Join(toSlash(r.BaseDir), toSlash(target))
	if joined == "." && r.BaseDir == "" {
		return ""
	}
	return joined
}

// Match resolves filePath through the rule.
// It returns the specifier and true when the rule applies.
//
// filePath: The file being imported, in the same coordinate space as BaseDir.
func (r Rule) Match(filePath string) (string, bool) {
	file := StripSpecifier(toSlash(filePath))
	dir := r.Dir()

	if !r.IsWildcard() {
		if file == StripSpecifier(dir) {
			return r.Pattern, true
		}
		return "", false
	}

	prefix := strings.TrimSuffix(dir, "/") + "/"
	if !strings.HasPrefix(file, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(file, prefix)
	if rest == "" {
		return "", false
	}
	// A suffix after the wildcard in the target (e.g. "./lib/*/index") is part of
	// the mapping and has to be present in the remainder as well.
	if i := strings.Index(r.Target, "*"); i >= 0 {
		tail := StripSpecifier(r.Target[i+1:])
		if tail != "" {
			if !strings.HasSuffix(rest, tail) {
				return "", false
			}
			rest = strings.TrimSuffix(rest, tail)
		}
	}
	return strings.Replace(r.Pattern, "*", rest, 1), true
}

// Resolve produces the import specifier for filePath.
// The first rule in supplied order that matches wins; callers wanting the most
// specific alias first should order rules with SortBySpecificity.
// Without a match the specifier is relative to the directory of fromFile.
//
// filePath: The file being imported.
// fromFile: The file receiving the import statement. May be empty for unsaved buffers.
// rules: The alias rules, in priority order.
func Resolve(filePath, fromFile string, rules []Rule) string {
	for _, r := range rules {
		if spec, ok := r.Match(filePath); ok {
			return spec
		}
	}
	return Relative(filePath, fromFile)
}

// Candidates returns every distinct alias specifier for filePath, in rule order.
// The relative fallback is not included.
func Candidates(filePath string, rules []Rule) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range rules {
		spec, ok := r.Match(filePath)
		if !ok || seen[spec] {
			continue
		}
		seen[spec] = true
		out = append(out, spec)
	}
	return out
}

// Relative builds a "./"-style specifier for filePath as seen from fromFile.
//
// Both paths are made absolute against the working directory before they are
// compared, so relative and absolute inputs may be mixed. An empty fromFile
// stands for an unsaved document: a relative filePath is then taken as already
// relative to it, and an absolute one is resolved from the working directory.
//
// filePath: The file being imported.
// fromFile: The file receiving the import. May be empty.
func Relative(filePath, fromFile string) string {
	p := toSlash(filePath)
	switch {
	case fromFile != "":
		p = relPath(path.Dir(absSlash(fromFile)), absSlash(filePath))
	case path.IsAbs(p):
		p = relPath(absSlash("."), p)
	}
	p = StripSpecifier(p)
	if p == "" {
		p = "."
	}
	if !strings.HasPrefix(p, ".") && !path.IsAbs(p) {
		p = "./" + p
	}
	return p
}

// StripSpecifier removes a known source extension and a trailing "/index"
// segment. It is the canonical form used to compare specifiers.
func StripSpecifier(spec string) string {
	s := spec
	for _, ext := range Extensions {
		if strings.HasSuffix(s, ext) && len(s) > len(ext) {
			s = strings.TrimSuffix(s, ext)
			break
		}
	}
	if s == "index" {
		return "."
	}
	if strings.HasSuffix(s, "/index") {
		s = strings.TrimSuffix(s, "/index")
		if s == "" {
			s = "/"
		}
	}
	return s
}

// SortBySpecificity orders rules so that the most specific one is tried first:
// longer target locations first, exact rules before wildcard rules at equal
// length. Rules that tie keep their relative order.
func SortBySpecificity(rules []Rule) {
	sort.SliceStable(rules, func(i, j int) bool {
		li, lj := len(StripSpecifier(rules[i].Dir())), len(StripSpecifier(rules[j].Dir()))
		if li != lj {
			return li > lj
		}
		return !rules[i].IsWildcard() && rules[j].IsWildcard()
	})
}

// AmbiguousMatchError reports that several specifiers are equally valid and the
// choice is left to the user.
type AmbiguousMatchError struct {
	Candidates []string
}

func (e *AmbiguousMatchError) Error() string {
	return fmt.Sprintf("ambiguous match: %d candidates (%s)", len(e.Candidates), strings.Join(e.Candidates, ", "))
}

// Select picks one candidate.
// A non-negative selected index is always honoured; a single candidate is returned
// as is; several candidates without an index yield an *AmbiguousMatchError.
// With no candidates there is nothing to select and the result is empty.
//
// candidates: The specifiers to choose from, in presentation order.
// selected: A pre-selected index, or a negative value for none.
func Select(candidates []string, selected int) (string, error) {
	if len(candidates) == 0 {
		return "", nil
	}
	if selected >= 0 {
		if selected >= len(candidates) {
			return "", fmt.Errorf("%w: %d of %d", ErrSelectionOutOfRange, selected, len(candidates))
		}
		return candidates[selected], nil
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return "", &AmbiguousMatchError{Candidates: append([]string(nil), candidates...)}
}

func relPath(base, target string) string {
	b := splitClean(base)
	t := splitClean(target)
	i := 0
	for i < len(b) && i < len(t) && b[i] == t[i] {
		i++
	}
	parts := make([]string, 0, len(b)-i+len(t)-i)
	for range b[i:] {
		parts = append(parts, "..")
	}
	parts = append(parts, t[i:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitClean(p string) []string {
	p = strings.Trim(path.Clean(p), "/")
	if p == "" || p == "." {
		return nil
	}
	return strings.Split(p, "/")
}

// absSlash returns the absolute, slash-separated form of p. When the working
// directory is unknown p is only cleaned.
func absSlash(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return path.Clean(toSlash(p))
}

func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
