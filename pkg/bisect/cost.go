package bisect

import (
	"math"
	"sort"

	"github.com/matzehuels/graphorder/pkg/errors"
	"github.com/matzehuels/graphorder/pkg/graph"
	"github.com/matzehuels/graphorder/pkg/perm"
)

// LogGapCost estimates the size in bits of the gap-encoded adjacency lists
// under the node order given by p. Each successor list is relabeled through
// p, sorted, and charged log2(gap+1) bits per delta between consecutive
// labels. Pass nil to evaluate the identity order.
//
// The absolute number is a model, not an exact codec size, but differences
// between orders track real compressed sizes closely and that is what the
// reordering optimizes.
func LogGapCost(g *graph.Graph, p perm.Permutation) (float64, error) {
	n := g.NumNodes()
	if p != nil && len(p) != n {
		return 0, errors.New(errors.ErrCodeInvalidInput,
			"permutation length %d does not match %d nodes", len(p), n)
	}

	var total float64
	labels := make([]uint32, 0, 64)
	for u := 0; u < n; u++ {
		succs := g.Successors(uint32(u))
		if len(succs) == 0 {
			continue
		}
		labels = labels[:0]
		for _, v := range succs {
			if p != nil {
				labels = append(labels, p[v])
			} else {
				labels = append(labels, v)
			}
		}
		sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

		prev := uint32(0)
		for i, l := range labels {
			gap := uint64(l - prev)
			if i > 0 && gap == 0 {
				// Duplicate arc after relabeling: one bit.
				total++
				continue
			}
			total += math.Log2(float64(gap) + 1)
			prev = l
		}
	}
	return total, nil
}
