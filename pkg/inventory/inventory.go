// Package inventory holds the read-only snapshots of importable symbols that
// candidates are proposed from.
package inventory

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/SamuelMarks/go-import-helper/pkg/filter"
)

// SourceModule is a symbol exported by a local source file.
type SourceModule struct {
	Name      string `yaml:"name" json:"name"`
	FilePath  string `yaml:"file_path" json:"file_path"`
	IsDefault bool   `yaml:"is_default,omitempty" json:"is_default,omitempty"`
}

// PackageModule is a symbol exported by an installed package.
type PackageModule struct {
	Name      string `yaml:"name" json:"name"`
	Module    string `yaml:"module" json:"module"`
	IsDefault bool   `yaml:"is_default,omitempty" json:"is_default,omitempty"`
}

// Provider lists the known symbols. Implementations may return empty slices.
type Provider interface {
	ListSourceModules() []SourceModule
	ListPackageModules() []PackageModule
}

// Snapshot is an immutable inventory.
type Snapshot struct {
	Sources  []SourceModule  `yaml:"sources" json:"sources"`
	Packages []PackageModule `yaml:"packages" json:"packages"`
	// Taken is when the snapshot was produced.
	Taken time.Time `yaml:"taken" json:"taken"`
}

// ListSourceModules implements Provider.
func (s *Snapshot) ListSourceModules() []SourceModule {
	if s == nil {
		return nil
	}
	return s.Sources
}

// ListPackageModules implements Provider.
func (s *Snapshot) ListPackageModules() []PackageModule {
	if s == nil {
		return nil
	}
	return s.Packages
}

// Store publishes the latest snapshot to readers without locking. Writers swap
// in whole snapshots, so readers observe either the old or the new inventory.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns a Store serving an empty snapshot.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&Snapshot{})
	return s
}

// Snapshot returns the current inventory.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// ListSourceModules implements Provider against the current snapshot.
func (s *Store) ListSourceModules() []SourceModule {
	return s.Snapshot().ListSourceModules()
}

// ListPackageModules implements Provider against the current snapshot.
func (s *Store) ListPackageModules() []PackageModule {
	return s.Snapshot().ListPackageModules()
}

// Replace publishes snap as the current inventory.
func (s *Store) Replace(snap *Snapshot) {
	if snap == nil {
		snap = &Snapshot{}
	}
	s.current.Store(snap)
}

// ScanFunc produces a fresh snapshot.
type ScanFunc func(ctx context.Context) (*Snapshot, error)

// Refresh runs scan and publishes its result. On error the previous snapshot
// stays in place.
//
// ctx: Cancels the scan.
// scan: The scanner producing the new snapshot.
func (s *Store) Refresh(ctx context.Context, scan ScanFunc) error {
	snap, err := scan(ctx)
	if err != nil {
		return err
	}
	if snap.Taken.IsZero() {
		snap.Taken = time.Now()
	}
	s.Replace(snap)
	return nil
}

// Candidate is one way of importing a symbol.
type Candidate struct {
	Name      string
	FilePath  string
	Module    string
	IsDefault bool
}

// Label describes the candidate for a chooser.
func (c Candidate) Label() string {
	if c.Module != "" {
		return c.Name + " from " + c.Module
	}
	return c.Name + " from " + c.FilePath
}

// Lookup returns the candidates exporting name: local sources first, then
// packages, each in inventory order. flt may be nil.
//
// p: The inventory to search.
// name: The symbol to find.
// flt: Optional exclusions applied to source file paths and symbol names.
func Lookup(p Provider, name string, flt *filter.Filter) []Candidate {
	if p == nil {
		return nil
	}
	var out []Candidate
	if flt != nil && flt.MatchesSymbol(name) {
		return nil
	}
	for _, m := range p.ListSourceModules() {
		if m.Name != name {
			continue
		}
		if flt != nil && flt.MatchesFile(m.FilePath) {
			continue
		}
		out = append(out, Candidate{Name: m.Name, FilePath: m.FilePath, IsDefault: m.IsDefault})
	}
	for _, m := range p.ListPackageModules() {
		if m.Name != name {
			continue
		}
		out = append(out, Candidate{Name: m.Name, Module: m.Module, IsDefault: m.IsDefault})
	}
	return out
}
