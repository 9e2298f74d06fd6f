package scan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/SamuelMarks/go-import-helper/internal/files"
	"github.com/SamuelMarks/go-import-helper/pkg/inventory"
)

// Parallelism bounds the number of files read at once.
var Parallelism = 16

// Sources scans the script files under dir and returns one SourceModule per export.
// Results follow the order of the file walk regardless of scheduling.
//
// ctx: Cancels the scan.
// dir: The project root.
// excludeGlobs: Globs of files and directories to leave out.
func Sources(ctx context.Context, dir string, excludeGlobs []string) ([]inventory.SourceModule, error) {
	paths, err := files.CollectSourceFiles(dir, excludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("collect sources: %w", err)
	}

	results := make([][]inventory.SourceModule, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Parallelism)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			for _, e := range Exports(string(data)) {
				name := e.Name
				if name == "" {
					name = fileExportName(p)
				}
				results[i] = append(results[i], inventory.SourceModule{
					Name:      name,
					FilePath:  p,
					IsDefault: e.IsDefault,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

type packageJSON struct {
	Name            string            `json:"name"`
	Types           string            `json:"types"`
	Typings         string            `json:"typings"`
	Module          string            `json:"module"`
	Main            string            `json:"main"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Packages lists the exports of the packages declared in dir/package.json.
// Each installed package contributes the exports of its first readable entry
// among types, typings, module and main; a package without one contributes a
// default export named after it. A missing package.json yields no packages.
//
// ctx: Cancels the scan.
// dir: The project root holding package.json and node_modules.
func Packages(ctx context.Context, dir string) ([]inventory.PackageModule, error) {
	var root packageJSON
	if err := readJSON(filepath.Join(dir, "package.json"), &root); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for name := range root.Dependencies {
		names = append(names, name)
	}
	for name := range root.DevDependencies {
		if _, ok := root.Dependencies[name]; !ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)

	results := make([][]inventory.PackageModule, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Parallelism)
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = packageExports(filepath.Join(dir, "node_modules", filepath.FromSlash(name)), name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.Concat(results...), nil
}

// packageExports never fails: an unreadable package falls back to its name.
func packageExports(pkgDir, name string) []inventory.PackageModule {
	fallback := []inventory.PackageModule{{Name: packageExportName(name), Module: name, IsDefault: true}}

	var meta packageJSON
	if err := readJSON(filepath.Join(pkgDir, "package.json"), &meta); err != nil {
		return fallback
	}
	for _, entry := range []string{meta.Types, meta.Typings, meta.Module, meta.Main} {
		if entry == "" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(pkgDir, filepath.FromSlash(entry)))
		if err != nil {
			log.Printf("Skipping entry %s of %s: %v", entry, name, err)
			continue
		}
		exports := Exports(string(data))
		if len(exports) == 0 {
			continue
		}
		out := make([]inventory.PackageModule, 0, len(exports))
		for _, e := range exports {
			n := e.Name
			if n == "" {
				n = packageExportName(name)
			}
			out = append(out, inventory.PackageModule{Name: n, Module: name, IsDefault: e.IsDefault})
		}
		return out
	}
	return fallback
}

// Inventory returns a ScanFunc that scans sources and packages of dir.
//
// dir: The project root.
// excludeGlobs: Globs passed to Sources.
func Inventory(dir string, excludeGlobs []string) inventory.ScanFunc {
	return func(ctx context.Context) (*inventory.Snapshot, error) {
		var snap inventory.Snapshot
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			src, err := Sources(ctx, dir, excludeGlobs)
			snap.Sources = src
			return err
		})
		g.Go(func() error {
			pkgs, err := Packages(ctx, dir)
			snap.Packages = pkgs
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return &snap, nil
	}
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
