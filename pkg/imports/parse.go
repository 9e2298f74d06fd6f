package imports

import (
	"regexp"
	"strings"
)

var (
	// reImportLike matches any line that starts an import statement, excluding
	// dynamic `import(...)` and `import.meta`.
	reImportLike = regexp.MustCompile(`^\s*import\b`)
	reNotStatic  = regexp.MustCompile(`^\s*import\s*[(.]`)

	reSideEffect = regexp.MustCompile(`^(\s*)import\s*(?:'([^']*)'|"([^"]*)")\s*(;?)\s*(//.*|/\*.*\*/)?\s*$`)
	reFrom       = regexp.MustCompile(`^(\s*)import\b\s*(.*?)\s*\bfrom\s*(?:'([^']*)'|"([^"]*)")\s*(;?)\s*(//.*|/\*.*\*/)?\s*$`)

	reIdent     = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)
	reNamespace = regexp.MustCompile(`^\*\s*as\s+([A-Za-z_$][\w$]*)$`)
	reNamedSpec = regexp.MustCompile(`^(?:type\s+)?(?:[A-Za-z_$][\w$]*|'[^']*'|"[^"]*")(?:\s+as\s+[A-Za-z_$][\w$]*)?$`)

	// reStatementEnd matches the code of the line closing a statement: a quoted
	// specifier after `from` or on its own, or a terminating ';' or ')'.
	reStatementEnd = regexp.MustCompile(`(?:^|\bfrom)\s*(?:'[^']*'|"[^"]*")\s*;?\s*$|[;)]\s*$`)
	reDirective    = regexp.MustCompile(`^\s*(?:'use [^']*'|"use [^"]*")\s*;?\s*$`)
)

// maxContinuation bounds how far a multi-line statement is followed.
const maxContinuation = 200

type lineKind int

const (
	kindBlank lineKind = iota
	kindComment
	kindDirective
	kindImport
	kindSkipped
	kindCode
)

// entry classifies a half-open line range of the document.
type entry struct {
	kind    lineKind
	start   int
	end     int
	imp     Import
	skipped Skipped
}

// Parse extracts every import statement of the document in order.
// Unrecognized import-like lines are ignored; use ParseAll to inspect them.
//
// text: The full document.
func Parse(text string) []Import {
	imps, _ := ParseAll(text)
	return imps
}

// ParseAll extracts the import statements of the document together with the
// import-like spans that could not be recognized.
//
// text: The full document.
func ParseAll(text string) ([]Import, []Skipped) {
	var imps []Import
	var skipped []Skipped
	for _, e := range classify(SplitLines(text)) {
		switch e.kind {
		case kindImport:
			imps = append(imps, e.imp)
		case kindSkipped:
			skipped = append(skipped, e.skipped)
		}
	}
	return imps, skipped
}

// ParseLine recognizes a single-line import statement.
// The returned Import has its line range set to [line, line+1).
//
// raw: The line, with or without a trailing "\r".
// line: The 0-based line number.
func ParseLine(raw string, line int) (Import, bool) {
	src := strings.TrimSuffix(raw, "\r")
	if m := reSideEffect.FindStringSubmatch(src); m != nil {
		spec, quote := quoted(m[2], m[3])
		if spec == "" {
			return Import{}, false
		}
		return Import{
			Specifier: spec,
			LineStart: line,
			LineEnd:   line + 1,
			Raw:       src,
			Quote:     quote,
			Semicolon: m[4] == ";",
			Indent:    m[1],
			Trailing:  m[5],
		}, true
	}

	m := reFrom.FindStringSubmatch(src)
	if m == nil {
		return Import{}, false
	}
	imp := Import{
		LineStart: line,
		LineEnd:   line + 1,
		Raw:       src,
		Semicolon: m[5] == ";",
		Indent:    m[1],
		Trailing:  m[6],
	}
	imp.Specifier, imp.Quote = quoted(m[3], m[4])
	if imp.Specifier == "" {
		return Import{}, false
	}
	if !parseClause(m[2], &imp) {
		return Import{}, false
	}
	return imp, true
}

// QuoteStyle returns the quote character of the first statement, or a single
// quote when there is none.
func QuoteStyle(imps []Import) byte {
	if len(imps) == 0 || imps[0].Quote == 0 {
		return DefaultStyle.Quote
	}
	return imps[0].Quote
}

// SplitLines splits a document into lines on "\n". A trailing newline yields a
// final empty line, so joining with "\n" restores the original text.
func SplitLines(text string) []string {
	return strings.Split(text, "\n")
}

// parseClause fills the bindings of imp from the text between `import` and `from`.
func parseClause(clause string, imp *Import) bool {
	clause = strings.TrimSpace(clause)
	if rest, ok := cutKeyword(clause, "type"); ok && rest != "" && !strings.HasPrefix(rest, ",") {
		imp.TypeOnly = true
		clause = rest
	}
	if clause == "" {
		return false
	}

	head, tail := clause, ""
	if !strings.HasPrefix(clause, "{") && !strings.HasPrefix(clause, "*") {
		if i := strings.Index(clause, ","); i >= 0 {
			head, tail = strings.TrimSpace(clause[:i]), strings.TrimSpace(clause[i+1:])
			if tail == "" {
				return false
			}
		}
		if !reIdent.MatchString(head) {
			return false
		}
		imp.Default = head
		if tail == "" {
			return true
		}
		clause = tail
	}

	if m := reNamespace.FindStringSubmatch(clause); m != nil {
		imp.Namespace = m[1]
		return true
	}
	if !strings.HasPrefix(clause, "{") || !strings.HasSuffix(clause, "}") {
		return false
	}
	names, ok := splitNames(clause[1 : len(clause)-1])
	if !ok {
		return false
	}
	if len(names) == 0 && imp.Default == "" {
		// `import {} from 'm'` binds nothing and is left alone.
		return false
	}
	imp.Names = names
	return true
}

// splitNames normalizes the inside of a brace list into an ordered set.
func splitNames(inner string) ([]string, bool) {
	var names []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(inner, ",") {
		name := strings.Join(strings.Fields(part), " ")
		if name == "" {
			continue
		}
		if !reNamedSpec.MatchString(name) {
			return nil, false
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, true
}

func cutKeyword(s, kw string) (string, bool) {
	if !strings.HasPrefix(s, kw) || len(s) == len(kw) {
		return s, false
	}
	c := s[len(kw)]
	if c != ' ' && c != '\t' {
		return s, false
	}
	return strings.TrimSpace(s[len(kw):]), true
}

// quoted picks the alternative that matched; only one of the two is ever set.
func quoted(single, double string) (string, byte) {
	if double != "" {
		return double, '"'
	}
	return single, '\''
}

// classify walks the document once and groups its lines.
func classify(lines []string) []entry {
	var out []entry
	inComment := false
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSuffix(lines[i], "\r")
		trimmed := strings.TrimSpace(line)
		startsInComment := inComment
		// A statement behind a leading block comment is never rewritten.
		behindComment := inComment || strings.HasPrefix(trimmed, "/*")

		var code string
		code, inComment = stripComments(line, inComment)

		switch {
		case trimmed == "":
			out = append(out, entry{kind: kindBlank, start: i, end: i + 1})
		case i == 0 && strings.HasPrefix(trimmed, "#!"), strings.TrimSpace(code) == "":
			out = append(out, entry{kind: kindComment, start: i, end: i + 1})
		case reDirective.MatchString(code):
			out = append(out, entry{kind: kindDirective, start: i, end: i + 1})
		case reImportLike.MatchString(code) && !reNotStatic.MatchString(code):
			if !behindComment {
				if imp, ok := ParseLine(line, i); ok {
					out = append(out, entry{kind: kindImport, start: i, end: i + 1, imp: imp})
					continue
				}
			}
			s := Skipped{LineStart: i, LineEnd: i + 1, Raw: line, Reason: "unrecognized import statement"}
			if end, open, ok := continuation(lines, i, startsInComment); !ok {
				s.Reason = "unterminated import statement"
				s.Unterminated = true
			} else {
				if end > i+1 {
					s.Reason = "multi-line import statement"
				}
				s.LineEnd = end
				inComment = open
				i = end - 1
			}
			out = append(out, entry{kind: kindSkipped, start: s.LineStart, end: s.LineEnd, skipped: s})
		default:
			out = append(out, entry{kind: kindCode, start: i, end: i + 1})
		}
	}
	return out
}

// continuation follows the statement opened on line i to the line that closes
// it, ignoring comments. It returns the end of the statement and whether that
// line ends inside a block comment. ok is false when no closing line is found.
//
// inComment: Whether line i starts inside a block comment.
func continuation(lines []string, i int, inComment bool) (end int, open bool, ok bool) {
	for j := i; j < len(lines) && j <= i+maxContinuation; j++ {
		var code string
		code, inComment = stripComments(strings.TrimSuffix(lines[j], "\r"), inComment)
		if reStatementEnd.MatchString(code) {
			return j + 1, inComment, true
		}
	}
	return i + 1, false, false
}

// stripComments returns line with its comments removed. Quoted strings are kept
// as they are, so comment markers inside them do not count.
//
// inComment: Whether the line starts inside a block comment.
func stripComments(line string, inComment bool) (string, bool) {
	var b strings.Builder
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		next := byte(0)
		if i+1 < len(line) {
			next = line[i+1]
		}
		switch {
		case inComment:
			if c == '*' && next == '/' {
				inComment = false
				b.WriteByte(' ')
				i++
			}
		case quote != 0:
			b.WriteByte(c)
			if c == '\\' && next != 0 {
				b.WriteByte(next)
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
			b.WriteByte(c)
		case c == '/' && next == '/':
			return b.String(), false
		case c == '/' && next == '*':
			inComment = true
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), inComment
}
