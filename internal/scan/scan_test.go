package scan

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/SamuelMarks/go-import-helper/pkg/inventory"
)

func TestExports(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Export
	}{
		{
			name: "Declarations",
			src: `export const a = 1
export async function load() {}
export class Store {}
export interface Props {}
export type Id = string
export enum Color { Red }
export declare function declared(): void
const hidden = 2`,
			want: []Export{{Name: "a"}, {Name: "load"}, {Name: "Store"}, {Name: "Props"}, {Name: "Id"}, {Name: "Color"}, {Name: "declared"}},
		},
		{
			name: "NamedDefault",
			src:  "export default function Button() {}\n",
			want: []Export{{Name: "Button", IsDefault: true}},
		},
		{
			name: "IdentifierDefault",
			src:  "const App = () => null\nexport default App;\n",
			want: []Export{{Name: "App", IsDefault: true}},
		},
		{
			name: "AnonymousDefault",
			src:  "export default {\n  name: 'x',\n}\n",
			want: []Export{{IsDefault: true}},
		},
		{
			name: "AnonymousClassDefault",
			src:  "export default class extends Base {}\n",
			want: []Export{{IsDefault: true}},
		},
		{
			name: "CallDefault",
			src:  "export default connect(mapState)(View)\n",
			want: []Export{{IsDefault: true}},
		},
		{
			name: "List",
			src:  "export { a, b as c, type T, d as default }\nexport { a }\n",
			want: []Export{{Name: "a"}, {Name: "c"}, {Name: "T"}, {Name: "d", IsDefault: true}},
		},
		{
			name: "NotExports",
			src:  "import { a } from 'a'\n// export const commented = 1\nexportable()\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Exports(tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Exports() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultNames(t *testing.T) {
	if got := DefaultName("lodash.debounce"); got != "lodashDebounce" {
		t.Errorf("DefaultName() = %q", got)
	}
	if got := packageExportName("@scope/my-lib"); got != "myLib" {
		t.Errorf("packageExportName() = %q", got)
	}
	if got := fileExportName("/p/src/date-picker.tsx"); got != "datePicker" {
		t.Errorf("fileExportName() = %q", got)
	}
	if got := fileExportName("/p/src/modal/index.ts"); got != "modal" {
		t.Errorf("fileExportName(index) = %q", got)
	}
	if got := DefaultName("3d"); got != "_3d" {
		t.Errorf("DefaultName(3d) = %q", got)
	}
}

func writeTree(t *testing.T, dir string, tree map[string]string) {
	t.Helper()
	for name, content := range tree {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"src/a.ts":                "export const alpha = 1\n",
		"src/b/index.tsx":         "export default () => null\n",
		"src/a.test.ts":           "export const testOnly = 1\n",
		"node_modules/x/index.js": "export const ignored = 1\n",
	})

	got, err := Sources(context.Background(), dir, []string{"*.test.*"})
	if err != nil {
		t.Fatalf("Sources() error: %v", err)
	}
	want := []inventory.SourceModule{
		{Name: "alpha", FilePath: filepath.Join(dir, "src", "a.ts")},
		{Name: "b", FilePath: filepath.Join(dir, "src", "b", "index.tsx"), IsDefault: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sources() = %+v, want %+v", got, want)
	}
}

func TestSources_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{"a.ts": "export const a = 1\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sources(ctx, dir, nil); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestPackages(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json": `{
  "dependencies": {"react": "^18.0.0", "left-pad": "1.0.0", "@scope/my-lib": "1.0.0"},
  "devDependencies": {"typed": "1.0.0"}
}`,
		"node_modules/react/package.json":         `{"main": "index.js"}`,
		"node_modules/react/index.js":             "export function useState() {}\nexport default React\n",
		"node_modules/typed/package.json":         `{"types": "dist/index.d.ts", "main": "missing.js"}`,
		"node_modules/typed/dist/index.d.ts":      "export declare const typed: number\n",
		"node_modules/@scope/my-lib/package.json": `{"main": "lib.js"}`,
	})

	got, err := Packages(context.Background(), dir)
	if err != nil {
		t.Fatalf("Packages() error: %v", err)
	}
	want := []inventory.PackageModule{
		{Name: "myLib", Module: "@scope/my-lib", IsDefault: true},
		{Name: "leftPad", Module: "left-pad", IsDefault: true},
		{Name: "useState", Module: "react"},
		{Name: "React", Module: "react", IsDefault: true},
		{Name: "typed", Module: "typed"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Packages() = %+v\nwant %+v", got, want)
	}
}

func TestPackages_NoManifest(t *testing.T) {
	got, err := Packages(context.Background(), t.TempDir())
	if err != nil || got != nil {
		t.Errorf("Packages() = %v, %v; want nil, nil", got, err)
	}
}

func TestInventory(t *testing.T) {
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json":                    `{"dependencies": {"react": "18"}}`,
		"node_modules/react/package.json": `{"main": "index.js"}`,
		"node_modules/react/index.js":     "export function useEffect() {}\n",
		"src/hooks.ts":                    "export function useToggle() {}\n",
	})

	store := inventory.NewStore()
	if err := store.Refresh(context.Background(), Inventory(dir, nil)); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if c := inventory.Lookup(store, "useEffect", nil); len(c) != 1 || c[0].Module != "react" {
		t.Errorf("package lookup = %+v", c)
	}
	if c := inventory.Lookup(store, "useToggle", nil); len(c) != 1 || c[0].FilePath != filepath.Join(dir, "src", "hooks.ts") {
		t.Errorf("source lookup = %+v", c)
	}
}
