// Package importer performs a complete import: it resolves the module
// specifier of a target, merges it into the document's import block and hands
// the resulting edit to the buffer that owns the document.
package importer

import (
	"errors"
	"fmt"
	"log"

	"github.com/SamuelMarks/go-import-helper/pkg/alias"
	"github.com/SamuelMarks/go-import-helper/pkg/edit"
	"github.com/SamuelMarks/go-import-helper/pkg/filter"
	"github.com/SamuelMarks/go-import-helper/pkg/imports"
	"github.com/SamuelMarks/go-import-helper/pkg/inventory"
)

var (
	// ErrEmptySymbol is returned for a target without a symbol name.
	ErrEmptySymbol = errors.New("symbol name is empty")
	// ErrInvalidSymbol is returned for a symbol name that is not an identifier.
	ErrInvalidSymbol = errors.New("symbol name is not an identifier")
	// ErrNoTarget is returned when a target names neither a module nor a file.
	ErrNoTarget = errors.New("target has neither module nor file path")
	// ErrConflictingTarget is returned when a target names both a module and a file.
	ErrConflictingTarget = errors.New("target has both module and file path")
	// ErrNoCandidate is returned when the inventory knows no module exporting the symbol.
	ErrNoCandidate = errors.New("no module exports the symbol")
	// ErrChoiceCancelled is returned when the chooser declines to pick a candidate.
	ErrChoiceCancelled = errors.New("choice cancelled")
)

// Target describes the symbol to import.
// Exactly one of Module and FilePath must be set; FilePath takes part in alias
// resolution, Module is used verbatim.
type Target struct {
	Module    string
	FilePath  string
	Name      string
	IsDefault bool
}

// Chooser lets the user pick among equally valid candidates.
type Chooser interface {
	// Choose returns the index of the selected candidate.
	Choose(candidates []string) (int, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(candidates []string) (int, error)

// Choose implements Chooser.
func (f ChooserFunc) Choose(candidates []string) (int, error) {
	return f(candidates)
}

// Options configures a single import.
type Options struct {
	// Rules are the alias rules in priority order.
	Rules []alias.Rule
	// FromFile is the path of the document receiving the import, used for
	// relative specifiers. Empty for unsaved documents.
	FromFile string
	// Selected pre-selects an alias candidate, bypassing the chooser.
	Selected *int
	// Candidate pre-selects an inventory candidate in ImportSymbol.
	Candidate *int
	// Chooser resolves ambiguities when no index is pre-selected.
	Chooser Chooser
	// InsertAt places a new statement at an explicit line, for documents that
	// have no import block.
	InsertAt *int
	// Filter excludes inventory candidates in ImportSymbol.
	Filter *filter.Filter
}

// Index returns a pointer to i, for the optional fields of Options.
func Index(i int) *int {
	return &i
}

// Result describes what an import did, or would do.
type Result struct {
	// Specifier is the resolved module specifier.
	Specifier string
	// Decision is the merge decision.
	Decision imports.Decision
	// Edit is the planned edit; the identity edit when nothing changes.
	Edit edit.Edit
	// Changed reports whether Edit modifies the document.
	Changed bool
	// Skipped lists import-like lines of the block that were not understood.
	Skipped []imports.Skipped
}

// Buffer is the document an import is applied to.
type Buffer interface {
	// Text returns a snapshot of the current content.
	Text() (string, error)
	// ApplyEdit replaces the edit's line range with its text.
	ApplyEdit(e edit.Edit) error
}

// Perform plans the import of target into text without touching any buffer.
//
// A target that is already imported yields a NoOp decision and no change.
// When a new statement is needed but the document has no import block and no
// explicit InsertAt, the error wraps imports.ErrNoInsertionPoint and the result
// reports no change.
//
// text: The document snapshot.
// target: The symbol and module to import.
// opts: Alias rules, selections and placement.
func Perform(text string, target Target, opts Options) (Result, error) {
	if target.Name == "" {
		return Result{}, ErrEmptySymbol
	}
	if !imports.IsIdentifier(target.Name) {
		return Result{}, fmt.Errorf("%w: %q", ErrInvalidSymbol, target.Name)
	}
	switch {
	case target.Module == "" && target.FilePath == "":
		return Result{}, ErrNoTarget
	case target.Module != "" && target.FilePath != "":
		return Result{}, ErrConflictingTarget
	}

	spec, err := ResolveSpecifier(target, opts)
	if err != nil {
		return Result{}, err
	}

	block := imports.Locate(text)
	if opts.InsertAt != nil {
		lines := len(imports.SplitLines(text))
		if *opts.InsertAt < 0 || *opts.InsertAt > lines {
			return Result{}, fmt.Errorf("insertion line %d outside document of %d lines", *opts.InsertAt, lines)
		}
		block.InsertionLine = *opts.InsertAt
		block.CanInsert = true
	}

	res := Result{Specifier: spec, Skipped: block.Skipped}
	res.Decision = imports.Decide(spec, target.Name, target.IsDefault, block)

	e, err := edit.Plan(res.Decision, block)
	if err != nil {
		return res, fmt.Errorf("import %s from %q: %w", target.Name, spec, err)
	}
	res.Edit = e
	res.Changed = !e.IsIdentity()
	return res, nil
}

// Import performs the import against buf, applying at most one edit.
//
// buf: The document.
// target: The symbol and module to import.
// opts: Alias rules, selections and placement.
func Import(buf Buffer, target Target, opts Options) (Result, error) {
	text, err := buf.Text()
	if err != nil {
		return Result{}, fmt.Errorf("read buffer: %w", err)
	}
	res, err := Perform(text, target, opts)
	if err != nil {
		return res, err
	}
	if !res.Changed {
		return res, nil
	}
	if err := buf.ApplyEdit(res.Edit); err != nil {
		return res, fmt.Errorf("apply edit: %w", err)
	}
	return res, nil
}

// ImportSymbol looks name up in the inventory and imports it into buf.
//
// Several candidates are disambiguated by opts.Candidate, then by opts.Chooser.
// Without either, the error is an *alias.AmbiguousMatchError listing them.
//
// buf: The document.
// name: The symbol to import.
// p: The candidate inventory. May be empty.
// opts: Selections, filter, alias rules and placement.
func ImportSymbol(buf Buffer, name string, p inventory.Provider, opts Options) (Result, error) {
	if name == "" {
		return Result{}, ErrEmptySymbol
	}
	cands := inventory.Lookup(p, name, opts.Filter)
	if len(cands) == 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrNoCandidate, name)
	}

	labels := make([]string, len(cands))
	for i, c := range cands {
		labels[i] = c.Label()
	}
	idx, err := choose(labels, opts.Candidate, opts.Chooser)
	if err != nil {
		return Result{}, err
	}

	c := cands[idx]
	return Import(buf, Target{
		Module:    c.Module,
		FilePath:  c.FilePath,
		Name:      c.Name,
		IsDefault: c.IsDefault,
	}, opts)
}

// ResolveSpecifier returns the module specifier for target.
//
// Several alias candidates are disambiguated by opts.Selected, then by
// opts.Chooser. Without either the first matching rule wins.
func ResolveSpecifier(target Target, opts Options) (string, error) {
	if target.Module != "" {
		return target.Module, nil
	}

	cands := alias.Candidates(target.FilePath, opts.Rules)
	if len(cands) == 0 {
		return alias.Relative(target.FilePath, opts.FromFile), nil
	}
	if len(cands) > 1 && opts.Selected == nil && opts.Chooser == nil {
		log.Printf("Ambiguous alias for %s, using %s (candidates: %v)", target.FilePath, cands[0], cands)
		return cands[0], nil
	}
	idx, err := choose(cands, opts.Selected, opts.Chooser)
	if err != nil {
		return "", err
	}
	return cands[idx], nil
}

// choose selects an index among labels: the pre-selected one, the only one, or
// the chooser's pick.
func choose(labels []string, selected *int, chooser Chooser) (int, error) {
	sel := -1
	if selected != nil {
		sel = *selected
	}
	_, err := alias.Select(labels, sel)
	if err == nil {
		if sel < 0 {
			sel = 0
		}
		return sel, nil
	}

	var amb *alias.AmbiguousMatchError
	if !errors.As(err, &amb) || chooser == nil {
		return -1, err
	}
	idx, err := chooser.Choose(labels)
	if err != nil {
		return -1, fmt.Errorf("%w: %v", ErrChoiceCancelled, err)
	}
	if idx < 0 {
		return -1, ErrChoiceCancelled
	}
	if idx >= len(labels) {
		return -1, fmt.Errorf("%w: %d of %d", alias.ErrSelectionOutOfRange, idx, len(labels))
	}
	return idx, nil
}
