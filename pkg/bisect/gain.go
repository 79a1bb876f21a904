package bisect

import (
	"math"

	"github.com/matzehuels/graphorder/pkg/graph"
)

// The gain model estimates how the gap-encoded size of the adjacency lists
// changes when a node moves to the opposite half. Each out-neighbor of a
// node is a "term"; terms whose occurrences concentrate in one half produce
// small gaps after relabeling, so the model scores co-occurrence.
//
// The per-side encoding estimate for a term with d occurrences among n
// slots is d * log2(n / (d+1)): the expected cost of d gaps drawn from a
// range of n positions. A move's gain is the cost before the move minus
// the cost after; positive gain predicts a strictly smaller encoding.

// sideCount tracks how many occurrences of one term sit in each half.
type sideCount struct {
	left  int32
	right int32
}

// gainTable is the per-invocation scratch state of one bisection level:
// term occurrence counts per half and the two half sizes. It is owned by
// the partition context being optimized and discarded when the level
// returns; no other goroutine ever sees it.
type gainTable struct {
	counts map[uint32]*sideCount
	nl, nr float64
}

// newGainTable counts term occurrences across the two halves of window
// (split at mid).
func newGainTable(g *graph.Graph, window []uint32, mid int) *gainTable {
	t := &gainTable{
		counts: make(map[uint32]*sideCount),
		nl:     float64(mid),
		nr:     float64(len(window) - mid),
	}
	for i, node := range window {
		for _, term := range g.Successors(node) {
			c := t.counts[term]
			if c == nil {
				c = &sideCount{}
				t.counts[term] = c
			}
			if i < mid {
				c.left++
			} else {
				c.right++
			}
		}
	}
	return t
}

// moveLeftToRight updates the counts after a node with the given terms
// moved from the left half to the right half.
func (t *gainTable) moveLeftToRight(terms []uint32) {
	for _, term := range terms {
		c := t.counts[term]
		c.left--
		c.right++
	}
}

// moveRightToLeft updates the counts after a node with the given terms
// moved from the right half to the left half.
func (t *gainTable) moveRightToLeft(terms []uint32) {
	for _, term := range terms {
		c := t.counts[term]
		c.left++
		c.right--
	}
}

// gainFunc scores moving a node with the given terms to the opposite half.
// fromLeft reports which half currently holds the node. Higher is better;
// zero is neutral.
type gainFunc func(t *gainTable, terms []uint32, fromLeft bool) float64

// resolve maps a validated Strategy to its gain function.
func (s Strategy) resolve() gainFunc {
	switch s {
	case StrategyApprox1:
		return gainApprox1
	case StrategyApprox2:
		return gainApprox2
	default:
		return gainDefault
	}
}

// gapCost estimates the encoded size of d term occurrences among n slots.
func gapCost(d int32, n float64) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) * math.Log2(n/float64(d+1))
}

// gainDefault is the exact marginal cost delta: for every term of the
// node, the encoding cost of the current occurrence split minus the cost
// after moving one occurrence across.
func gainDefault(t *gainTable, terms []uint32, fromLeft bool) float64 {
	var gain float64
	for _, term := range terms {
		c := t.counts[term]
		if fromLeft {
			gain += gapCost(c.left, t.nl) + gapCost(c.right, t.nr) -
				gapCost(c.left-1, t.nl) - gapCost(c.right+1, t.nr)
		} else {
			gain += gapCost(c.left, t.nl) + gapCost(c.right, t.nr) -
				gapCost(c.left+1, t.nl) - gapCost(c.right-1, t.nr)
		}
	}
	return gain
}

// log2TableSize covers the degree counts seen in practice; larger values
// fall back to math.Log2.
const log2TableSize = 4096

// log2Table caches log2 of small integers for the approx-1 strategy.
var log2Table = func() [log2TableSize]float64 {
	var t [log2TableSize]float64
	for i := 1; i < log2TableSize; i++ {
		t[i] = math.Log2(float64(i))
	}
	return t
}()

// log2i returns log2(i) from the cache when possible.
func log2i(i int32) float64 {
	if i > 0 && i < log2TableSize {
		return log2Table[i]
	}
	return math.Log2(float64(i))
}

// quantCost is gapCost with table-served logarithms. The half size n is
// rounded to an integer once, which quantizes the cost surface slightly.
func quantCost(d int32, n int32) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) * (log2i(n) - log2i(d+1))
}

// gainApprox1 mirrors gainDefault with quantized logarithms.
func gainApprox1(t *gainTable, terms []uint32, fromLeft bool) float64 {
	nl, nr := int32(t.nl), int32(t.nr)
	var gain float64
	for _, term := range terms {
		c := t.counts[term]
		if fromLeft {
			gain += quantCost(c.left, nl) + quantCost(c.right, nr) -
				quantCost(c.left-1, nl) - quantCost(c.right+1, nr)
		} else {
			gain += quantCost(c.left, nl) + quantCost(c.right, nr) -
				quantCost(c.left+1, nl) - quantCost(c.right-1, nr)
		}
	}
	return gain
}

// gainApprox2 drops the logarithmic weighting entirely and scores the move
// by how many more of the node's term occurrences already sit on the other
// side. A node whose terms cluster in its own half gets a negative gain.
func gainApprox2(t *gainTable, terms []uint32, fromLeft bool) float64 {
	var gain float64
	for _, term := range terms {
		c := t.counts[term]
		if fromLeft {
			gain += float64(c.right - (c.left - 1))
		} else {
			gain += float64(c.left - (c.right - 1))
		}
	}
	return gain
}
