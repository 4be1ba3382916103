package resolver

import (
	"errors"
	"testing"

	"github.com/texman/texman"
)

func names(pkgs []*texman.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}

func TestResolveBasic(t *testing.T) {
	idx := texman.Index{
		"a": {Name: "a"},
		"b": {Name: "b", Depends: []string{"a"}},
	}
	got, err := Resolve(idx, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b"}
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("got %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("got %v, want %v", gotNames, want)
		}
	}
}

func TestResolveCycle(t *testing.T) {
	idx := texman.Index{
		"a": {Name: "a", Depends: []string{"b"}},
		"b": {Name: "b", Depends: []string{"a"}},
	}
	_, err := Resolve(idx, "a")
	if err == nil {
		t.Fatal("expected a cycle error")
	}
	var terr *texman.Error
	if !errors.As(err, &terr) || terr.Kind != texman.ErrCycle {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestResolveMissingDependency(t *testing.T) {
	idx := texman.Index{
		"a": {Name: "a", Depends: []string{"missing"}},
	}
	_, err := Resolve(idx, "a")
	var terr *texman.Error
	if !errors.As(err, &terr) || terr.Kind != texman.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveDeduplicatesDiamond(t *testing.T) {
	// a -> b, c; b -> d; c -> d. d must appear once.
	idx := texman.Index{
		"a": {Name: "a", Depends: []string{"b", "c"}},
		"b": {Name: "b", Depends: []string{"d"}},
		"c": {Name: "c", Depends: []string{"d"}},
		"d": {Name: "d"},
	}
	got, err := Resolve(idx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count := map[string]int{}
	for _, p := range got {
		count[p.Name]++
	}
	for name, c := range count {
		if c != 1 {
			t.Errorf("package %s appears %d times, want 1", name, c)
		}
	}
	if got[len(got)-1].Name != "a" {
		t.Errorf("last element = %s, want a", got[len(got)-1].Name)
	}
	// d must precede both b and c.
	index := func(n string) int {
		for i, p := range got {
			if p.Name == n {
				return i
			}
		}
		return -1
	}
	if index("d") > index("b") || index("d") > index("c") {
		t.Errorf("d must precede b and c, got order %v", names(got))
	}
}

func TestResolveSelfCycle(t *testing.T) {
	idx := texman.Index{
		"a": {Name: "a", Depends: []string{"a"}},
	}
	_, err := Resolve(idx, "a")
	if err == nil {
		t.Fatal("expected a cycle error")
	}
}
