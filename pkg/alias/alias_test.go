package alias

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

// TestResolve verifies alias and relative resolution of local file paths.
func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		filePath string
		fromFile string
		rules    []Rule
		want     string
	}{
		{
			name:     "BareRelative",
			filePath: "dinah_widdoes",
			want:     "./dinah_widdoes",
		},
		{
			name:     "StripIndex",
			filePath: "./component/x/index",
			want:     "./component/x",
		},
		{
			name:     "StripExtensionAndIndex",
			filePath: "./component/x/index.tsx",
			want:     "./component/x",
		},
		{
			name:     "AbsoluteSameDir",
			filePath: "/proj/src/util.ts",
			fromFile: "/proj/src/app.ts",
			want:     "./util",
		},
		{
			name:     "AbsoluteParentDir",
			filePath: "/proj/lib/helpers/index.js",
			fromFile: "/proj/src/app.ts",
			want:     "../lib/helpers",
		},
		{
			name:     "Wildcard",
			filePath: "/base_dir/test_playground/lib/a/b/c.ts",
			rules: []Rule{
				{Pattern: "@Libs/*", Target: "./test_playground/lib/*", BaseDir: "/base_dir"},
			},
			want: "@Libs/a/b/c",
		},
		{
			name:     "ExactFile",
			filePath: "/base_dir/app/components/z.ts",
			rules: []Rule{
				{Pattern: "@z_component", Target: "./app/components/z.ts", BaseDir: "/base_dir"},
			},
			want: "@z_component",
		},
		{
			name:     "ExactDirectoryIndex",
			filePath: "/base_dir/app/components/index.ts",
			rules: []Rule{
				{Pattern: "@components", Target: "./app/components", BaseDir: "/base_dir"},
			},
			want: "@components",
		},
		{
			name:     "ExactDirectoryDoesNotMatchChild",
			filePath: "/base_dir/app/components/y.ts",
			fromFile: "/base_dir/app/main.ts",
			rules: []Rule{
				{Pattern: "@components", Target: "./app/components", BaseDir: "/base_dir"},
			},
			want: "./components/y",
		},
		{
			name:     "FirstRuleWins",
			filePath: "/base_dir/app/components/z.ts",
			rules: []Rule{
				{Pattern: "@components/*", Target: "./app/components/*", BaseDir: "/base_dir"},
				{Pattern: "@z_component", Target: "./app/components/z.ts", BaseDir: "/base_dir"},
			},
			want: "@components/z",
		},
		{
			name:     "WildcardWithSuffix",
			filePath: "/base_dir/pkgs/ui/src/index.ts",
			rules: []Rule{
				{Pattern: "@pkg/*", Target: "./pkgs/*/src", BaseDir: "/base_dir"},
			},
			want: "@pkg/ui",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.filePath, tt.fromFile, tt.rules)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.filePath, got, tt.want)
			}
		})
	}
}

// TestRelative verifies that relative and absolute paths are compared in the
// same coordinate space.
func TestRelative(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	tests := []struct {
		name     string
		filePath string
		fromFile string
		want     string
	}{
		{
			name:     "AbsoluteFileRelativeFrom",
			filePath: filepath.Join(dir, "app", "x.ts"),
			fromFile: "app/main.ts",
			want:     "./x",
		},
		{
			name:     "RelativeFileAbsoluteFrom",
			filePath: "lib/y.ts",
			fromFile: filepath.Join(dir, "app", "main.ts"),
			want:     "../lib/y",
		},
		{
			name:     "BothRelative",
			filePath: "src/util.ts",
			fromFile: "src/app.ts",
			want:     "./util",
		},
		{
			name:     "FromOutsideWorkingDir",
			filePath: "src/b.ts",
			fromFile: "../other/a.ts",
			want:     "../" + filepath.Base(dir) + "/src/b",
		},
		{
			name:     "AbsoluteFileUnsavedDocument",
			filePath: filepath.Join(dir, "app", "x.ts"),
			want:     "./app/x",
		},
		{
			name:     "RelativeFileUnsavedDocument",
			filePath: "../shared/index.ts",
			want:     "../shared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Relative(tt.filePath, tt.fromFile); got != tt.want {
				t.Errorf("Relative(%q, %q) = %q, want %q", tt.filePath, tt.fromFile, got, tt.want)
			}
		})
	}
}

// TestSortBySpecificity verifies that the exact file alias outranks a directory wildcard.
func TestSortBySpecificity(t *testing.T) {
	rules := []Rule{
		{Pattern: "@components/*", Target: "./app/components/*", BaseDir: "/base_dir"},
		{Pattern: "@components", Target: "./app/components", BaseDir: "/base_dir"},
		{Pattern: "@z_component", Target: "./app/components/z.ts", BaseDir: "/base_dir"},
	}
	SortBySpecificity(rules)

	want := []string{"@z_component", "@components", "@components/*"}
	var got []string
	for _, r := range rules {
		got = append(got, r.Pattern)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}

	if spec := Resolve("/base_dir/app/components/z.ts", "", rules); spec != "@z_component" {
		t.Errorf("Resolve() = %q, want @z_component", spec)
	}
	if spec := Resolve("/base_dir/app/components/index.ts", "", rules); spec != "@components" {
		t.Errorf("Resolve() = %q, want @components", spec)
	}
}

// TestCandidates verifies deduplication and rule ordering of alias candidates.
func TestCandidates(t *testing.T) {
	rules := []Rule{
		{Pattern: "@app/*", Target: "./src/*", BaseDir: "/p"},
		{Pattern: "~/*", Target: "./src/*", BaseDir: "/p"},
		{Pattern: "@app/*", Target: "./src/*", BaseDir: "/p"},
		{Pattern: "@other/*", Target: "./other/*", BaseDir: "/p"},
	}
	got := Candidates("/p/src/feature/list.tsx", rules)
	want := []string{"@app/feature/list", "~/feature/list"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() = %v, want %v", got, want)
	}
}

// TestSelect covers explicit index, single candidate, and ambiguity.
func TestSelect(t *testing.T) {
	cands := []string{"@a/x", "@b/x"}

	got, err := Select(cands, 1)
	if err != nil || got != "@b/x" {
		t.Errorf("Select(1) = %q, %v", got, err)
	}

	got, err = Select(cands[:1], -1)
	if err != nil || got != "@a/x" {
		t.Errorf("Select(single) = %q, %v", got, err)
	}

	got, err = Select(nil, 0)
	if err != nil || got != "" {
		t.Errorf("Select(empty) = %q, %v", got, err)
	}

	_, err = Select(cands, -1)
	var amb *AmbiguousMatchError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguousMatchError, got %v", err)
	}
	if len(amb.Candidates) != 2 {
		t.Errorf("ambiguity lists %d candidates", len(amb.Candidates))
	}

	if _, err := Select(cands, 5); !errors.Is(err, ErrSelectionOutOfRange) {
		t.Errorf("expected ErrSelectionOutOfRange, got %v", err)
	}
}

// TestStripSpecifier checks canonicalization of specifiers.
func TestStripSpecifier(t *testing.T) {
	tests := map[string]string{
		"./a/index":        "./a",
		"./a/index.ts":     "./a",
		"./a/b.d.ts":       "./a/b",
		"./index":          ".",
		"react":            "react",
		"lodash.debounce":  "lodash.debounce",
		"@scope/pkg/index": "@scope/pkg",
		"./x.module.css":   "./x.module.css",
	}
	for in, want := range tests {
		if got := StripSpecifier(in); got != want {
			t.Errorf("StripSpecifier(%q) = %q, want %q", in, got, want)
		}
	}
}
