package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/SamuelMarks/go-import-helper/internal/scan"
	"github.com/SamuelMarks/go-import-helper/pkg/alias"
	"github.com/SamuelMarks/go-import-helper/pkg/edit"
	"github.com/SamuelMarks/go-import-helper/pkg/importer"
	"github.com/SamuelMarks/go-import-helper/pkg/imports"
	"github.com/SamuelMarks/go-import-helper/pkg/inventory"
	"github.com/SamuelMarks/go-import-helper/pkg/report"
)

var (
	okColor   = color.New(color.FgGreen)
	infoColor = color.New(color.FgYellow)
	delColor  = color.New(color.FgRed)
)

// AddCmd imports a named symbol from a module or a file.
type AddCmd struct {
	File string `arg:"" type:"path" help:"File receiving the import."`

	Name    string `name:"name" short:"n" required:"" help:"Symbol to import."`
	Module  string `name:"module" short:"m" xor:"source" required:"" help:"Package specifier, used verbatim (e.g. react)."`
	Path    string `name:"path" short:"p" type:"path" xor:"source" required:"" help:"File to import from, resolved through path aliases."`
	Default bool   `name:"default" short:"d" help:"Import the symbol as the default export."`

	Alias  AliasFlags  `embed:""`
	Output OutputFlags `embed:""`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals) error {
	rules, err := c.Alias.load(c.File)
	if err != nil {
		return fmt.Errorf("load aliases: %w", err)
	}
	opts := importer.Options{
		Rules:    rules,
		FromFile: c.File,
		Selected: index(c.Alias.Select),
		Chooser:  g.chooser(),
		InsertAt: index(c.Output.InsertAt),
	}
	target := importer.Target{
		Module:    c.Module,
		FilePath:  c.Path,
		Name:      c.Name,
		IsDefault: c.Default,
	}

	return apply(g, c.File, c.Output, func(buf importer.Buffer) (importer.Result, error) {
		return importer.Import(buf, target, opts)
	})
}

// ResolveCmd prints the specifier of a file.
type ResolveCmd struct {
	Path string `arg:"" type:"path" help:"File to resolve."`
	From string `name:"from" type:"path" help:"File the import would be written to, for relative specifiers."`

	All   bool       `name:"all" help:"List every matching alias instead of choosing one."`
	Alias AliasFlags `embed:""`
}

// Run executes the resolve command.
func (c *ResolveCmd) Run(g *Globals) error {
	near := c.From
	if near == "" {
		near = c.Path
	}
	rules, err := c.Alias.load(near)
	if err != nil {
		return fmt.Errorf("load aliases: %w", err)
	}

	if c.All {
		for _, spec := range alias.Candidates(c.Path, rules) {
			fmt.Fprintln(g.Out, spec)
		}
		if c.From != "" {
			fmt.Fprintln(g.Out, alias.Relative(c.Path, c.From))
		}
		return nil
	}

	spec, err := importer.ResolveSpecifier(importer.Target{FilePath: c.Path}, importer.Options{
		Rules:    rules,
		FromFile: c.From,
		Selected: index(c.Alias.Select),
		Chooser:  g.chooser(),
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(g.Out, spec)
	return nil
}

// FindCmd imports a symbol chosen from the project inventory.
type FindCmd struct {
	Symbol string `arg:"" help:"Symbol to import."`
	File   string `arg:"" type:"path" help:"File receiving the import."`

	Root      string `name:"root" type:"path" default:"." help:"Project root holding the sources and package.json."`
	Candidate int    `name:"candidate" short:"c" default:"-1" help:"Index of the inventory candidate to import when several match."`

	Filter FilterFlags `embed:""`
	Alias  AliasFlags  `embed:""`
	Output OutputFlags `embed:""`
}

// Run executes the find command.
func (c *FindCmd) Run(g *Globals) error {
	store := inventory.NewStore()
	if err := store.Refresh(context.Background(), scan.Inventory(c.Root, c.Filter.ExcludeGlob)); err != nil {
		return fmt.Errorf("scan %s: %w", c.Root, err)
	}
	log.Printf("Scanned %d source exports and %d package exports",
		len(store.ListSourceModules()), len(store.ListPackageModules()))

	rules, err := c.Alias.load(c.File)
	if err != nil {
		return fmt.Errorf("load aliases: %w", err)
	}
	opts := importer.Options{
		Rules:     rules,
		FromFile:  c.File,
		Selected:  index(c.Alias.Select),
		Candidate: index(c.Candidate),
		Chooser:   g.chooser(),
		InsertAt:  index(c.Output.InsertAt),
		Filter:    c.Filter.filter(),
	}

	err = apply(g, c.File, c.Output, func(buf importer.Buffer) (importer.Result, error) {
		return importer.ImportSymbol(buf, c.Symbol, store, opts)
	})
	var amb *alias.AmbiguousMatchError
	if errors.As(err, &amb) {
		for i, cand := range amb.Candidates {
			infoColor.Fprintf(g.Out, "  [%d] %s\n", i, cand)
		}
		return fmt.Errorf("%w; pick one with --candidate", err)
	}
	return err
}

// ScanCmd prints the inventory of a project.
type ScanCmd struct {
	Dir string `arg:"" optional:"" type:"path" default:"." help:"Project root to scan."`

	Filter FilterFlags `embed:""`
}

// Run executes the scan command.
func (c *ScanCmd) Run(g *Globals) error {
	store := inventory.NewStore()
	if err := store.Refresh(context.Background(), scan.Inventory(c.Dir, c.Filter.ExcludeGlob)); err != nil {
		return fmt.Errorf("scan %s: %w", c.Dir, err)
	}

	snap := store.Snapshot()
	flt := c.Filter.filter()
	out := inventory.Snapshot{Taken: snap.Taken}
	for _, s := range snap.Sources {
		if !flt.MatchesFile(s.FilePath) && !flt.MatchesSymbol(s.Name) {
			out.Sources = append(out.Sources, s)
		}
	}
	for _, p := range snap.Packages {
		if !flt.MatchesSymbol(p.Name) {
			out.Packages = append(out.Packages, p)
		}
	}

	enc := yaml.NewEncoder(g.Out)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

// apply runs do against the file, or against an in-memory copy for dry runs,
// and reports the outcome.
func apply(g *Globals, file string, o OutputFlags, do func(importer.Buffer) (importer.Result, error)) error {
	fb := importer.FileBuffer{Path: file}
	var buf importer.Buffer = fb
	var mem *importer.MemBuffer
	before := ""
	if o.DryRun {
		text, err := fb.Text()
		if err != nil {
			return err
		}
		before = text
		mem = importer.NewMemBuffer(text)
		buf = mem
	}

	res, err := do(buf)
	for _, s := range res.Skipped {
		log.Printf("%s:%d: skipped %s", file, s.LineStart+1, s.Reason)
	}
	if errors.Is(err, imports.ErrNoInsertionPoint) {
		infoColor.Fprintf(g.Out, "Nothing changed: %s has no import block; use --insert-at\n", file)
		return nil
	}
	if err != nil {
		return err
	}

	rep := report.New()
	rep.AddSkipped(len(res.Skipped))
	rep.AddSpecifier(res.Specifier)
	switch {
	case !res.Changed:
		rep.IncUnchanged()
		infoColor.Fprintf(g.Out, "Nothing changed: %v\n", res.Decision)
	case o.DryRun:
		rep.IncAdded()
		printDiff(g, edit.Unified(file, before, mem.String()))
	default:
		rep.IncAdded()
		rep.AddFile(file)
		okColor.Fprintf(g.Out, "Updated %s: %v\n", file, res.Decision)
	}

	if o.JSON {
		return rep.WriteJSON(g.Out)
	}
	return nil
}

// printDiff colours added and removed lines of a unified diff.
func printDiff(g *Globals, diff string) {
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(g.Out, line)
		case strings.HasPrefix(line, "+"):
			okColor.Fprint(g.Out, line)
		case strings.HasPrefix(line, "-"):
			delColor.Fprint(g.Out, line)
		default:
			fmt.Fprint(g.Out, line)
		}
	}
}
