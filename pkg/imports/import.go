// Package imports recognizes ES module import statements in JavaScript and
// TypeScript source and decides how a new symbol is merged into them.
//
// Recognition is line oriented: one statement per physical line. Statements
// spread across several lines are detected and skipped, never rewritten.
package imports

import "strings"

// Import is one existing `import ... from '<specifier>'` statement.
type Import struct {
	// Specifier is the module string inside the quotes.
	Specifier string
	// Default is the default binding, empty when absent.
	Default string
	// Names are the named specifiers in source order, without duplicates.
	// Entries are normalized ("a", "a as b", "type T").
	Names []string
	// Namespace is the binding of a `* as ns` clause.
	Namespace string
	// TypeOnly marks `import type ...` statements.
	TypeOnly bool

	// LineStart and LineEnd delimit the statement as a half-open, 0-based line range.
	LineStart int
	LineEnd   int
	// Raw is the source line without its line terminator.
	Raw string

	// Quote is the quote character around the specifier.
	Quote byte
	// Semicolon records a terminating ';'.
	Semicolon bool
	// Indent is the leading whitespace of the line.
	Indent string
	// Trailing is a comment following the statement on the same line.
	Trailing string
}

// IsSideEffect reports whether the statement binds nothing (`import 'm'`).
func (i Import) IsSideEffect() bool {
	return i.Default == "" && len(i.Names) == 0 && i.Namespace == ""
}

// Mergeable reports whether new bindings may be added to the statement.
// Side-effect, namespace and type-only imports are never merge targets.
func (i Import) Mergeable() bool {
	return !i.IsSideEffect() && i.Namespace == "" && !i.TypeOnly
}

// HasName reports whether name is already bound by a named specifier, either as
// the imported name or as its local alias.
func (i Import) HasName(name string) bool {
	for _, n := range i.Names {
		imported, local := SplitSpecifier(n)
		if imported == name || local == name {
			return true
		}
	}
	return false
}

// IsIdentifier reports whether name can be bound by an import statement.
func IsIdentifier(name string) bool {
	return reIdent.MatchString(name)
}

// SplitSpecifier returns the imported and local names of a named specifier
// such as "a as b" or "type T".
func SplitSpecifier(spec string) (imported, local string) {
	fields := strings.Fields(spec)
	if len(fields) > 1 && fields[0] == "type" {
		fields = fields[1:]
	}
	if len(fields) == 3 && fields[1] == "as" {
		return fields[0], fields[2]
	}
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], fields[0]
}

// Skipped is a line range that looks like an import but is not recognized,
// for instance a statement spread over several lines.
type Skipped struct {
	LineStart int
	LineEnd   int
	Raw       string
	Reason    string
	// Unterminated marks a statement whose end was not found. The span covers
	// its first line only, so nothing after it is known to be outside it.
	Unterminated bool
}

// Style is the formatting convention new statements follow.
type Style struct {
	Quote     byte
	Semicolon bool
}

// DefaultStyle is used when the document has no import statement to copy from.
var DefaultStyle = Style{Quote: '\''}

// Block is the contiguous run of import statements at the top of a document.
type Block struct {
	// Imports are the recognized statements of the block, in document order.
	Imports []Import
	// Skipped are import-like spans inside the block that were not recognized.
	Skipped []Skipped
	// Start and End delimit the block as a half-open line range.
	// Both equal InsertionLine when the block is empty.
	Start int
	End   int
	// InsertionLine is where a brand-new statement goes.
	InsertionLine int
	// CanInsert is false when no safe insertion point exists: the document
	// starts with code and has no block, or the block holds an unterminated
	// statement.
	CanInsert bool
	// Style is taken from the first statement of the document.
	Style Style
}
