package query

import (
	"testing"

	"github.com/texman/texman"
)

func TestSearchDescriptionFlag(t *testing.T) {
	idx := texman.Index{
		"bar": {Name: "bar", Description: "a package about Foo things"},
		"baz": {Name: "baz", Description: "unrelated"},
	}
	got := Search(idx, "foo", SearchFlags{Description: true})
	if len(got) != 1 || got[0].Name != "bar" {
		t.Fatalf("got %v, want [bar]", namesOf(got))
	}
}

func TestSearchNameAlwaysMatches(t *testing.T) {
	idx := texman.Index{
		"foobar": {Name: "foobar"},
		"baz":    {Name: "baz", Description: "mentions foobar in passing"},
	}
	got := Search(idx, "foobar", SearchFlags{})
	if len(got) != 1 || got[0].Name != "foobar" {
		t.Fatalf("got %v, want [foobar] (description shouldn't match without the flag)", namesOf(got))
	}
}

func TestSearchEmptyResultNotError(t *testing.T) {
	idx := texman.Index{"a": {Name: "a"}}
	got := Search(idx, "nonexistent", SearchFlags{Description: true, LongDesc: true, Depends: true})
	if len(got) != 0 {
		t.Fatalf("got %v, want none", namesOf(got))
	}
}

func TestSearchDependsFlag(t *testing.T) {
	idx := texman.Index{
		"a": {Name: "a", Depends: []string{"zzfoo"}},
	}
	got := Search(idx, "foo", SearchFlags{Depends: true})
	if len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("got %v, want [a]", namesOf(got))
	}
	got = Search(idx, "foo", SearchFlags{})
	if len(got) != 0 {
		t.Fatalf("got %v, want none without the depends flag", namesOf(got))
	}
}

func namesOf(pkgs []*texman.Package) []string {
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Name
	}
	return out
}
