// Package scan builds the symbol inventory of a project: the exports of its
// own source files and of the packages it depends on.
package scan

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

// Export is a name made available by a module.
type Export struct {
	Name      string
	IsDefault bool
}

var (
	reExportDecl    = regexp.MustCompile(`^\s*export\s+(?:declare\s+)?(?:async\s+)?(?:abstract\s+)?(?:const|let|var|function\*?|class|interface|type|enum|namespace)\s+([A-Za-z_$][\w$]*)`)
	reExportDefault = regexp.MustCompile(`^\s*export\s+default\b(?:\s+(?:async\s+)?function\b\*?\s*([A-Za-z_$][\w$]*)?|\s+(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)?|\s+([A-Za-z_$][\w$]*)\s*;?\s*(?://.*)?$)?`)
	reExportList    = regexp.MustCompile(`^\s*export\s+(?:type\s+)?\{([^}]*)\}`)
	reIdent         = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
)

// Exports extracts the exported names of a module, line by line.
// An anonymous default export is reported with an empty name; callers name it
// after the file. Names are unique and keep source order.
//
// src: The module text.
func Exports(src string) []Export {
	var out []Export
	seen := make(map[Export]bool)
	add := func(e Export) {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}

	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case reExportDefault.MatchString(line):
			m := reExportDefault.FindStringSubmatch(line)
			name := m[1] + m[2] + m[3]
			if name == "extends" || name == "implements" {
				name = ""
			}
			add(Export{Name: name, IsDefault: true})
		case reExportDecl.MatchString(line):
			add(Export{Name: reExportDecl.FindStringSubmatch(line)[1]})
		case reExportList.MatchString(line):
			for _, spec := range strings.Split(reExportList.FindStringSubmatch(line)[1], ",") {
				f := strings.Fields(spec)
				if len(f) > 0 && f[0] == "type" {
					f = f[1:]
				}
				var local, exported string
				switch {
				case len(f) == 1:
					local, exported = f[0], f[0]
				case len(f) == 3 && f[1] == "as":
					local, exported = f[0], f[2]
				default:
					continue
				}
				if exported == "default" {
					add(Export{Name: local, IsDefault: true})
					continue
				}
				if reIdent.MatchString(exported) {
					add(Export{Name: exported})
				}
			}
		}
	}
	return out
}

// DefaultName camel-cases a file or package base name into an identifier,
// for anonymous default exports and packages whose entry cannot be read.
//
// name: A base name such as "my-button" or "lodash.debounce".
func DefaultName(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if out == "" || unicode.IsDigit(rune(out[0])) {
		out = "_" + out
	}
	return out
}

// fileExportName names the anonymous default export of a file after the file,
// or after its directory for index files.
func fileExportName(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	base := path.Base(p)
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "index" {
		base = path.Base(path.Dir(p))
	}
	return DefaultName(base)
}

// packageExportName names the default export of a package after its
// unscoped name.
func packageExportName(pkg string) string {
	return DefaultName(path.Base(pkg))
}
