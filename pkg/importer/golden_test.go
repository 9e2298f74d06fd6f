package importer

import (
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/SamuelMarks/go-import-helper/pkg/alias"
	"github.com/SamuelMarks/go-import-helper/pkg/edit"
	"github.com/SamuelMarks/go-import-helper/pkg/imports"
)

// scenario is one golden archive: the target in the comment, an input
// document and the expected document.
type scenario struct {
	target  Target
	opts    Options
	sort    bool
	wantErr string
	input   string
	want    string
}

// loadScenario parses the archive comment ("key: value" lines) and files.
func loadScenario(t *testing.T, path string) scenario {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	if err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}

	var sc scenario
	for _, line := range strings.Split(string(ar.Comment), "\n") {
		key, value, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "name":
			sc.target.Name = value
		case "module":
			sc.target.Module = value
		case "path":
			sc.target.FilePath = value
		case "default":
			sc.target.IsDefault = value == "true"
		case "from":
			sc.opts.FromFile = value
		case "select":
			n, err := strconv.Atoi(value)
			if err != nil {
				t.Fatalf("%s: bad select %q", path, value)
			}
			sc.opts.Selected = Index(n)
		case "insert":
			n, err := strconv.Atoi(value)
			if err != nil {
				t.Fatalf("%s: bad insert %q", path, value)
			}
			sc.opts.InsertAt = Index(n)
		case "rule":
			f := strings.Fields(value)
			if len(f) != 3 {
				t.Fatalf("%s: rule needs pattern, target and base dir: %q", path, value)
			}
			sc.opts.Rules = append(sc.opts.Rules, alias.Rule{Pattern: f[0], Target: f[1], BaseDir: f[2]})
		case "sort":
			sc.sort = value == "true"
		case "error":
			sc.wantErr = value
		}
	}

	for _, f := range ar.Files {
		switch {
		case strings.HasPrefix(f.Name, "input."):
			sc.input = string(f.Data)
		case strings.HasPrefix(f.Name, "want."):
			sc.want = string(f.Data)
		}
	}
	return sc
}

// TestGolden runs every archive under testdata through Perform and Apply.
func TestGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no golden archives found")
	}

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			sc := loadScenario(t, path)
			if sc.sort {
				alias.SortBySpecificity(sc.opts.Rules)
			}

			res, err := Perform(sc.input, sc.target, sc.opts)
			switch sc.wantErr {
			case "":
				if err != nil {
					t.Fatalf("Perform() error: %v", err)
				}
			case "no-insertion-point":
				if !errors.Is(err, imports.ErrNoInsertionPoint) {
					t.Fatalf("expected ErrNoInsertionPoint, got %v", err)
				}
			default:
				t.Fatalf("unknown error kind %q", sc.wantErr)
			}

			got, err := edit.Apply(sc.input, res.Edit)
			if err != nil {
				t.Fatalf("Apply() error: %v", err)
			}
			if got != sc.want {
				t.Errorf("document mismatch\n--- got ---\n%s\n--- want ---\n%s", got, sc.want)
			}

			// Repeating the import must not change the result.
			again, err := Perform(got, sc.target, sc.opts)
			if sc.wantErr == "" && err != nil {
				t.Fatalf("second Perform() error: %v", err)
			}
			if again.Changed {
				t.Errorf("second import changed the document: %v", again.Decision)
			}
		})
	}
}
