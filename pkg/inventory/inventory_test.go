package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/SamuelMarks/go-import-helper/pkg/filter"
)

func sampleSnapshot() *Snapshot {
	return &Snapshot{
		Sources: []SourceModule{
			{Name: "Button", FilePath: "/p/src/Button.tsx", IsDefault: true},
			{Name: "Button", FilePath: "/p/src/Button.stories.tsx"},
			{Name: "useTheme", FilePath: "/p/src/theme/index.ts"},
		},
		Packages: []PackageModule{
			{Name: "Button", Module: "@mui/material"},
			{Name: "useState", Module: "react"},
		},
	}
}

// TestLookup verifies ordering, filtering and empty inventories.
func TestLookup(t *testing.T) {
	snap := sampleSnapshot()

	got := Lookup(snap, "Button", nil)
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got))
	}
	if got[0].FilePath != "/p/src/Button.tsx" || !got[0].IsDefault {
		t.Errorf("first candidate = %+v", got[0])
	}
	if got[2].Module != "@mui/material" {
		t.Errorf("packages should come last, got %+v", got[2])
	}

	flt := filter.New(filter.GetDefaults(), nil)
	got = Lookup(snap, "Button", flt)
	if len(got) != 2 {
		t.Errorf("expected stories file to be filtered, got %d candidates", len(got))
	}

	flt = filter.New(nil, []string{"use*"})
	if got := Lookup(snap, "useState", flt); len(got) != 0 {
		t.Errorf("expected symbol exclusion, got %v", got)
	}

	if got := Lookup(&Snapshot{}, "Button", nil); len(got) != 0 {
		t.Errorf("empty inventory returned %v", got)
	}
	if got := Lookup(nil, "Button", nil); got != nil {
		t.Errorf("nil provider returned %v", got)
	}
}

// TestCandidate_Label checks the chooser labels.
func TestCandidate_Label(t *testing.T) {
	c := Candidate{Name: "useState", Module: "react"}
	if c.Label() != "useState from react" {
		t.Errorf("Label() = %q", c.Label())
	}
	c = Candidate{Name: "x", FilePath: "./x.ts"}
	if c.Label() != "x from ./x.ts" {
		t.Errorf("Label() = %q", c.Label())
	}
}

// TestStore_Refresh verifies publishing and error handling of refreshes.
func TestStore_Refresh(t *testing.T) {
	s := NewStore()
	if len(s.ListSourceModules()) != 0 {
		t.Fatal("new store should be empty")
	}

	err := s.Refresh(context.Background(), func(ctx context.Context) (*Snapshot, error) {
		return sampleSnapshot(), nil
	})
	if err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	if len(s.ListPackageModules()) != 2 {
		t.Errorf("packages = %d, want 2", len(s.ListPackageModules()))
	}
	if s.Snapshot().Taken.IsZero() {
		t.Error("Taken not set")
	}

	boom := errors.New("scan failed")
	err = s.Refresh(context.Background(), func(ctx context.Context) (*Snapshot, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Refresh() error = %v", err)
	}
	if len(s.ListSourceModules()) != 3 {
		t.Error("failed refresh replaced the snapshot")
	}
}

// TestStore_Concurrency checks that readers and writers can overlap.
func TestStore_Concurrency(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Replace(sampleSnapshot())
		}()
		go func() {
			defer wg.Done()
			_ = Lookup(s, "Button", nil)
		}()
	}
	wg.Wait()
	if len(Lookup(s, "Button", nil)) != 3 {
		t.Error("final snapshot not visible")
	}
}
