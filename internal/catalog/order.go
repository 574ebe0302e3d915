package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInheritanceCycle = errors.New("inheritance cycle")

// topoSort returns node indices so that every node comes after its
// dependencies. depsFn(i) yields indices that must come before i.
//
// The result is deterministic: when multiple nodes are available, the
// smallest index is picked. On a cycle the nodes that could not be ordered
// are returned instead.
func topoSort(n int, depsFn func(i int) []int) (order, cyclic []int) {
	indeg := make([]int, n)
	out := make([][]int, n)

	for i := range n {
		for _, d := range depsFn(i) {
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

	order = make([]int, 0, n)

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

	for i := range n {
		if indeg[i] > 0 {
			cyclic = append(cyclic, i)
		}
	}

	return order, cyclic
}

// classOrder returns class indices with parents before children. Unknown
// parents are ignored here; Validate reports them.
func classOrder(f *File) ([]int, error) {
	order, cyclic := topoSort(len(f.Classes), func(i int) []int {
		if p := f.Index(f.Classes[i].Extends); p >= 0 && f.Classes[i].Extends != "" {
			return []int{p}
		}

		return nil
	})

	if len(cyclic) > 0 {
		names := make([]string, len(cyclic))
		for i, idx := range cyclic {
			names[i] = f.Classes[idx].Name
		}

		return nil, fmt.Errorf("%w: %s", ErrInheritanceCycle, strings.Join(names, ", "))
	}

	return order, nil
}
