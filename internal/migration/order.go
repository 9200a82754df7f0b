package migration

import (
	"errors"
	"fmt"
	"slices"

	"kontent-migrator/internal/element"
)

var errReferenceCycle = errors.New("content types reference each other in a cycle")

// orderByReferences sorts types so that a type allowed in another type's
// linked items element comes first. References match a type by ID or by
// codename; references to types outside the list are ignored. Otherwise
// the input order is kept.
func orderByReferences(types []element.ContentType) ([]element.ContentType, error) {
	byID := make(map[string]int, len(types))
	byCodename := make(map[string]int, len(types))

	for i, ct := range types {
		if ct.ID != "" {
			byID[ct.ID] = i
		}

		if ct.Codename != "" {
			byCodename[ct.Codename] = i
		}
	}

	lookup := func(r element.Reference) (int, bool) {
		if j, ok := byID[r.ID]; ok && r.ID != "" {
			return j, true
		}

		j, ok := byCodename[r.Codename]

		return j, ok && r.Codename != ""
	}

	order, err := topoSort(len(types), func(i int) []int {
		var deps []int

		for _, d := range types[i].Elements {
			linked, ok := d.ConstraintsFor().(element.LinkedItemsConstraints)
			if !ok {
				continue
			}

			for _, ref := range linked.AllowedContentTypes {
				if j, ok := lookup(ref); ok && j != i && !slices.Contains(deps, j) {
					deps = append(deps, j)
				}
			}
		}

		return deps
	})
	if err != nil {
		return types, err
	}

	out := make([]element.ContentType, 0, len(types))
	for _, i := range order {
		out = append(out, types[i])
	}

	return out, nil
}

// topoSort returns node indices so that depsFn(i) come before i.
// Among available nodes the smallest index is picked first.
func topoSort(n int, depsFn func(i int) []int) ([]int, error) {
	if n <= 0 {
		return nil, nil
	}

	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
			if d < 0 || d >= n {
				return nil, fmt.Errorf("dependency index out of range: %d depends on %d", i, d)
			}

			indeg[i]++
			out[d] = append(out[d], i)
		}
	}

	var ready []int

	for i := range n {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]int, 0, n)

	for len(ready) > 0 {
		i := ready[0]
		ready = ready[1:]

		order = append(order, i)

		for _, j := range out[i] {
			indeg[j]--
			if indeg[j] == 0 {
				k, _ := slices.BinarySearch(ready, j)
				ready = slices.Insert(ready, k, j)
			}
		}
	}

	if len(order) != n {
		return nil, errReferenceCycle
	}

	return order, nil
}
