package imports

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SamuelMarks/go-import-helper/pkg/alias"
)

// ErrNoInsertionPoint is returned when a new statement is needed but the
// document offers no safe place for it.
var ErrNoInsertionPoint = errors.New("no import block and no safe insertion point")

// Decision is the outcome of merging a symbol into a block.
// It is one of AppendNamed, UpgradeToMixed, CreateNew or NoOp.
type Decision interface {
	fmt.Stringer
	decision()
}

// AppendNamed adds Name at the end of the named specifiers of Target.
type AppendNamed struct {
	Target Import
	Name   string
}

// UpgradeToMixed turns a single-kind statement into `import D, { ... }`.
// Default is the default binding of the result. Name is the named specifier to
// append, empty when the upgrade only adds the default.
type UpgradeToMixed struct {
	Target  Import
	Default string
	Name    string
}

// CreateNew inserts a brand-new statement.
type CreateNew struct {
	Specifier string
	Default   string
	Names     []string
}

// NoOp leaves the document unchanged.
type NoOp struct {
	Reason string
}

func (AppendNamed) decision()    {}
func (UpgradeToMixed) decision() {}
func (CreateNew) decision()      {}
func (NoOp) decision()           {}

func (d AppendNamed) String() string {
	return fmt.Sprintf("append %s to import from %q (line %d)", d.Name, d.Target.Specifier, d.Target.LineStart+1)
}

func (d UpgradeToMixed) String() string {
	if d.Name == "" {
		return fmt.Sprintf("add default %s to import from %q (line %d)", d.Default, d.Target.Specifier, d.Target.LineStart+1)
	}
	return fmt.Sprintf("add %s next to default %s from %q (line %d)", d.Name, d.Default, d.Target.Specifier, d.Target.LineStart+1)
}

func (d CreateNew) String() string {
	bindings := append([]string(nil), d.Names...)
	if d.Default != "" {
		bindings = append([]string{d.Default}, bindings...)
	}
	return fmt.Sprintf("create import of %s from %q", strings.Join(bindings, ", "), d.Specifier)
}

func (d NoOp) String() string {
	return "nothing to do: " + d.Reason
}

// Decide chooses how to make name importable from specifier.
//
// Local specifiers (starting with ".", "/", "~" or "#") are compared after
// stripping extensions and a trailing "/index". Package specifiers are compared
// verbatim, since "highlight.js" and "highlight" name different packages.
// Only the first mergeable statement for the specifier is considered; side-effect,
// namespace and type-only statements never receive new bindings.
//
// specifier: The resolved module specifier.
// name: The symbol to import.
// isDefault: Whether name is the module's default export.
// block: The located import block.
func Decide(specifier, name string, isDefault bool, block Block) Decision {
	target, ok := findTarget(specifier, block.Imports)
	if !ok {
		d := CreateNew{Specifier: specifier}
		if isDefault {
			d.Default = name
		} else {
			d.Names = []string{name}
		}
		return d
	}

	if isDefault {
		if target.Default != "" {
			return NoOp{Reason: fmt.Sprintf("default %s already imported from %q", target.Default, target.Specifier)}
		}
		if target.HasName(name) {
			return NoOp{Reason: fmt.Sprintf("%s already bound by a named import from %q", name, target.Specifier)}
		}
		return UpgradeToMixed{Target: target, Default: name}
	}

	if target.HasName(name) || target.Default == name {
		return NoOp{Reason: fmt.Sprintf("%s already imported from %q", name, target.Specifier)}
	}
	if len(target.Names) == 0 {
		return UpgradeToMixed{Target: target, Default: target.Default, Name: name}
	}
	return AppendNamed{Target: target, Name: name}
}

func findTarget(specifier string, imps []Import) (Import, bool) {
	want := canonical(specifier)
	for _, imp := range imps {
		if !imp.Mergeable() {
			continue
		}
		if canonical(imp.Specifier) == want {
			return imp, true
		}
	}
	return Import{}, false
}

// canonical returns the form of spec used to match statements.
func canonical(spec string) string {
	if spec == "" || !strings.ContainsRune("./~#", rune(spec[0])) {
		return spec
	}
	return alias.StripSpecifier(spec)
}
