package relation

import (
	"sort"

	"github.com/nsxbet/ddl-analyzer/pkg/types"
)

// SortByDependencies orders tables so that a table comes after the tables it
// references. Self references are ignored. When every remaining table waits
// on another one, the cycle is broken by taking the table with the fewest
// pending references, ties going to the smallest name.
func SortByDependencies(tables []string, relations types.RelationMap) []string {
	names := make([]string, len(tables))
	copy(names, tables)
	sort.Strings(names)

	dependencies := make(map[string][]string, len(names))
	for _, name := range names {
		for target := range relations[name] {
			if target != name {
				dependencies[name] = append(dependencies[name], target)
			}
		}
	}

	processed := make(map[string]bool, len(names))
	pending := func(name string) int {
		n := 0
		for _, dep := range dependencies[name] {
			if !processed[dep] {
				n++
			}
		}
		return n
	}

	var sorted []string
	for len(sorted) < len(names) {
		added := false
		for _, name := range names {
			if processed[name] || pending(name) > 0 {
				continue
			}
			sorted = append(sorted, name)
			processed[name] = true
			added = true
		}
		if added {
			continue
		}

		best, bestPending := "", -1
		for _, name := range names {
			if processed[name] {
				continue
			}
			if n := pending(name); bestPending < 0 || n < bestPending {
				best, bestPending = name, n
			}
		}
		sorted = append(sorted, best)
		processed[best] = true
	}
	return sorted
}
