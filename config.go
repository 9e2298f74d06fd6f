package main

import (
	"errors"
	"io"
	"log"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/SamuelMarks/go-import-helper/internal/loader"
	"github.com/SamuelMarks/go-import-helper/pkg/alias"
	"github.com/SamuelMarks/go-import-helper/pkg/filter"
	"github.com/SamuelMarks/go-import-helper/pkg/importer"
)

// Config holds the complete configuration mapping to CLI flags and subcommands.
type Config struct {
	Globals

	Add     AddCmd     `cmd:"" help:"Add an import statement to a file."`
	Resolve ResolveCmd `cmd:"" help:"Print the module specifier a file would be imported by."`
	Find    FindCmd    `cmd:"" help:"Look a symbol up in the project inventory and import it."`
	Scan    ScanCmd    `cmd:"" help:"Print the project inventory as YAML."`
}

// Globals are the flags shared by every subcommand, plus the streams the
// commands talk to.
type Globals struct {
	// NoColor disables coloured status output.
	NoColor bool `name:"no-color" help:"Disable coloured output."`

	// Interactive prompts on the input stream when candidates are ambiguous.
	// Set automatically when standard input is a terminal.
	Interactive bool `name:"interactive" short:"i" help:"Prompt for a choice when several candidates match."`

	// Get the version of the package, defaults to `dev`
	Version kong.VersionFlag `name:"version" help:"Print version information and exit."`

	Out io.Writer `kong:"-"`
	In  io.Reader `kong:"-"`
}

// chooser returns the terminal chooser when prompting is enabled.
func (g *Globals) chooser() importer.Chooser {
	if !g.Interactive || g.In == nil {
		return nil
	}
	return &promptChooser{in: g.In, out: g.Out}
}

// AliasFlags select the alias rules used to build specifiers.
type AliasFlags struct {
	// TSConfig is read for compilerOptions.paths. When neither TSConfig nor Rules
	// is given, the nearest tsconfig.json or jsconfig.json is used.
	TSConfig string `name:"tsconfig" type:"path" help:"tsconfig.json or jsconfig.json to read path aliases from." xor:"rules"`

	// Rules is a YAML list of pattern/target/base_dir entries, kept in file order.
	Rules string `name:"rules" type:"path" help:"YAML file with alias rules, tried in order." xor:"rules"`

	// NoDiscovery disables the lookup of the nearest project config.
	NoDiscovery bool `name:"no-discovery" help:"Do not search parent directories for a tsconfig.json."`

	// Select pre-selects an alias candidate by index.
	Select int `name:"select" default:"-1" help:"Index of the alias to use when several match."`
}

// load returns the configured rules. near is a file or directory of the project,
// used to discover the config when none is given.
func (a AliasFlags) load(near string) ([]alias.Rule, error) {
	switch {
	case a.Rules != "":
		return loader.LoadRulesFile(a.Rules)
	case a.TSConfig != "":
		return loader.LoadTSConfig(a.TSConfig)
	case a.NoDiscovery || near == "":
		return nil, nil
	}

	cfg, err := loader.FindTSConfig(filepath.Dir(near))
	if errors.Is(err, loader.ErrConfigNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	log.Printf("Using path aliases from %s", cfg)
	return loader.LoadTSConfig(cfg)
}

// OutputFlags control how the result of an import is presented.
type OutputFlags struct {
	// DryRun prints a unified diff instead of writing the file.
	DryRun bool `name:"dry-run" help:"Print changes to stdout instead of writing files."`

	// JSON writes the report as JSON.
	JSON bool `name:"json" help:"Write a JSON report of the run to stdout."`

	// InsertAt places a new statement at an explicit 0-based line.
	InsertAt int `name:"insert-at" default:"-1" help:"0-based line for a new import statement, for files without imports."`
}

// FilterFlags exclude inventory candidates.
type FilterFlags struct {
	// ExcludeGlob is a list of file glob patterns to exclude from the inventory.
	ExcludeGlob []string `name:"exclude-glob" help:"Glob patterns to exclude files (e.g. '*.test.ts')."`

	// ExcludeSymbolGlob is a list of symbol glob patterns to exclude.
	ExcludeSymbolGlob []string `name:"exclude-symbol-glob" help:"Glob patterns to exclude symbols (e.g. 'mock*')."`

	// UseDefaultExclusions applies the default file globs (tests, specs, stories).
	// Disable with --no-default-exclusions to offer everything.
	UseDefaultExclusions bool `name:"default-exclusions" negatable:"" help:"Use standard exclusion list (tests, specs, stories, mocks)." default:"true"`
}

func (f FilterFlags) filter() *filter.Filter {
	globs := f.ExcludeGlob
	if f.UseDefaultExclusions {
		globs = append(filter.GetDefaults(), globs...)
	}
	return filter.New(globs, f.ExcludeSymbolGlob)
}

// index converts a flag value to an optional index; negative means unset.
func index(v int) *int {
	if v < 0 {
		return nil
	}
	return importer.Index(v)
}
