// Package resolver produces a topologically ordered install plan from a
// package index and a requested package name.
package resolver

import (
	"github.com/texman/texman"
)

// Resolve returns the transitive dependency closure of name, in post-order:
// every node's dependencies appear strictly before it, and name is the
// last element.
//
// It fails with a not-found error if name or any transitive dependency is
// absent from idx, and with a cycle error if the dependency graph is not
// acyclic.
func Resolve(idx texman.Index, name string) ([]*texman.Package, error) {
	var resolved []*texman.Package
	visited := make(map[string]bool)
	resolvedSet := make(map[string]bool)

	if err := visit(idx, name, visited, resolvedSet, &resolved); err != nil {
		return nil, err
	}
	return resolved, nil
}

func visit(idx texman.Index, name string, visited, resolved map[string]bool, out *[]*texman.Package) error {
	if visited[name] && !resolved[name] {
		return texman.DependencyCycle(name)
	}
	if resolved[name] {
		return nil
	}
	pkg, ok := idx[name]
	if !ok {
		return texman.PackageNotFound(name)
	}
	visited[name] = true

	for _, dep := range pkg.Depends {
		if resolved[dep] {
			continue
		}
		if err := visit(idx, dep, visited, resolved, out); err != nil {
			return err
		}
	}

	resolved[name] = true
	*out = append(*out, pkg)
	return nil
}
