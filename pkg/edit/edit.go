// Package edit turns merge decisions into line-based text edits and applies
// them to document snapshots.
package edit

import (
	"fmt"
	"strings"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/SamuelMarks/go-import-helper/pkg/imports"
)

// Edit replaces the half-open line range [Start, End) with Text.
// Start == End inserts before line Start. Text holds whole lines separated by
// "\n", without a final terminator.
type Edit struct {
	Start int
	End   int
	Text  string
}

// IsIdentity reports whether applying the edit leaves the document unchanged.
func (e Edit) IsIdentity() bool {
	return e.Start == e.End && e.Text == ""
}

// Plan computes the edit realizing decision within block.
//
// CreateNew inserts at block.InsertionLine and fails with
// imports.ErrNoInsertionPoint when the block cannot take new statements.
// AppendNamed and UpgradeToMixed rewrite the target statement in place.
// NoOp yields the identity edit.
//
// decision: The merge decision.
// block: The block the decision was made against.
func Plan(decision imports.Decision, block imports.Block) (Edit, error) {
	switch d := decision.(type) {
	case imports.NoOp:
		return Edit{}, nil

	case imports.CreateNew:
		if !block.CanInsert {
			return Edit{}, imports.ErrNoInsertionPoint
		}
		stmt := imports.Import{
			Specifier: d.Specifier,
			Default:   d.Default,
			Names:     d.Names,
			Quote:     block.Style.Quote,
			Semicolon: block.Style.Semicolon,
		}
		return Edit{Start: block.InsertionLine, End: block.InsertionLine, Text: Render(stmt)}, nil

	case imports.AppendNamed:
		stmt := d.Target
		stmt.Names = appendName(stmt.Names, d.Name)
		return replace(stmt), nil

	case imports.UpgradeToMixed:
		stmt := d.Target
		stmt.Default = d.Default
		if d.Name != "" {
			stmt.Names = appendName(stmt.Names, d.Name)
		}
		return replace(stmt), nil
	}
	return Edit{}, fmt.Errorf("unsupported decision %T", decision)
}

// Render serializes a statement as `import D, { a, b } from 'm'`, omitting the
// halves that are absent. Indent, semicolon and trailing comment are kept.
func Render(imp imports.Import) string {
	quote := imp.Quote
	if quote == 0 {
		quote = imports.DefaultStyle.Quote
	}

	var b strings.Builder
	b.WriteString(imp.Indent)
	b.WriteString("import ")
	if imp.TypeOnly {
		b.WriteString("type ")
	}

	var clause []string
	if imp.Default != "" {
		clause = append(clause, imp.Default)
	}
	if imp.Namespace != "" {
		clause = append(clause, "* as "+imp.Namespace)
	} else if len(imp.Names) > 0 {
		clause = append(clause, "{ "+strings.Join(imp.Names, ", ")+" }")
	}
	if len(clause) > 0 {
		b.WriteString(strings.Join(clause, ", "))
		b.WriteString(" from ")
	}

	b.WriteByte(quote)
	b.WriteString(imp.Specifier)
	b.WriteByte(quote)
	if imp.Semicolon {
		b.WriteByte(';')
	}
	if imp.Trailing != "" {
		b.WriteByte(' ')
		b.WriteString(imp.Trailing)
	}
	return b.String()
}

// Apply returns text with the edit applied. A trailing newline and "\r\n" line
// endings of the original are preserved.
//
// text: The document snapshot the edit was planned against.
// e: The edit.
func Apply(text string, e Edit) (string, error) {
	if e.IsIdentity() {
		return text, nil
	}
	lines := imports.SplitLines(text)
	if e.Start < 0 || e.End < e.Start || e.End > len(lines) {
		return "", fmt.Errorf("edit range [%d,%d) outside document of %d lines", e.Start, e.End, len(lines))
	}

	crlf := strings.Contains(text, "\r\n")
	repl := strings.Split(e.Text, "\n")
	if crlf {
		for i := range repl {
			repl[i] += "\r"
		}
	}

	// Inserting at the very end of a document without a trailing newline needs
	// a line break in front of the new text.
	if e.Start == e.End && e.Start == len(lines) {
		lines[len(lines)-1] += eol(crlf)
		repl[len(repl)-1] = strings.TrimSuffix(repl[len(repl)-1], "\r")
		lines = append(lines, repl...)
		return strings.Join(lines, "\n"), nil
	}
	// An insertion into an empty document is terminated like a normal line.
	if text == "" {
		return e.Text + "\n", nil
	}

	// The last line of a document has no terminator to carry over.
	if e.End == len(lines) && e.End > e.Start {
		repl[len(repl)-1] = strings.TrimSuffix(repl[len(repl)-1], "\r")
	}

	out := make([]string, 0, len(lines)-(e.End-e.Start)+len(repl))
	out = append(out, lines[:e.Start]...)
	out = append(out, repl...)
	out = append(out, lines[e.End:]...)
	return strings.Join(out, "\n"), nil
}

// Unified renders the difference between two snapshots of path as a unified diff.
//
// path: The file name shown in the diff header.
// before: The original content.
// after: The edited content.
func Unified(path, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(path, path, before, edits))
}

func replace(stmt imports.Import) Edit {
	text := Render(stmt)
	return Edit{Start: stmt.LineStart, End: stmt.LineEnd, Text: text}
}

func appendName(names []string, name string) []string {
	out := make([]string, 0, len(names)+1)
	out = append(out, names...)
	return append(out, name)
}

func eol(crlf bool) string {
	if crlf {
		return "\r"
	}
	return ""
}
