package bisect

import (
	"sort"

	"github.com/matzehuels/graphorder/pkg/graph"
)

// candidate is one node considered for a swap, with its window position
// and its move gain at ranking time.
type candidate struct {
	idx  int
	node uint32
	gain float64
}

// localSearch optimizes the split of window at mid by repeatedly swapping
// node pairs across the halves. Each pass scores every node's move gain,
// ranks both sides, and walks the ranked pairs: a pair is swapped when its
// combined gain, re-evaluated against the incrementally updated term
// counts, is strictly positive. Swaps are always paired, so the half sizes
// never change.
//
// The search converges when a pass applies no swap, or after maxIters
// passes. Hitting the pass budget accepts the partial result; it is a
// deliberate accuracy/time trade-off, not a failure.
//
// Returns the number of passes run and swaps applied.
func localSearch(g *graph.Graph, window []uint32, mid int, gain gainFunc, maxIters int) (iters, swaps int) {
	if mid <= 0 || mid >= len(window) {
		return 0, 0
	}

	table := newGainTable(g, window, mid)
	left := make([]candidate, 0, mid)
	right := make([]candidate, 0, len(window)-mid)

	for iters < maxIters {
		iters++

		left = left[:0]
		right = right[:0]
		for i, node := range window {
			if i < mid {
				left = append(left, candidate{i, node, gain(table, g.Successors(node), true)})
			} else {
				right = append(right, candidate{i, node, gain(table, g.Successors(node), false)})
			}
		}
		rankCandidates(left)
		rankCandidates(right)

		swapped := 0
		pairs := min(len(left), len(right))
		for k := 0; k < pairs; k++ {
			u, v := left[k], right[k]
			// Ranked gains are an optimistic bound; once they cannot
			// combine to a positive value, no later pair can either.
			if u.gain+v.gain <= 0 {
				break
			}

			// Re-evaluate against current counts: u first, then v with
			// u's terms already moved, so shared terms are not double
			// counted.
			uTerms := g.Successors(u.node)
			vTerms := g.Successors(v.node)
			gu := gain(table, uTerms, true)
			table.moveLeftToRight(uTerms)
			gv := gain(table, vTerms, false)
			if gu+gv <= 0 {
				table.moveRightToLeft(uTerms)
				break
			}

			table.moveRightToLeft(vTerms)
			window[u.idx], window[v.idx] = window[v.idx], window[u.idx]
			swapped++
		}

		swaps += swapped
		if swapped == 0 {
			break
		}
	}
	return iters, swaps
}

// rankCandidates orders candidates by descending gain, breaking ties by
// the lower original node id so runs are reproducible.
func rankCandidates(c []candidate) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].gain != c[j].gain {
			return c[i].gain > c[j].gain
		}
		return c[i].node < c[j].node
	})
}
