package bisect

import (
	"testing"

	"github.com/matzehuels/graphorder/pkg/graph"
)

// crossedGraph puts node 0 in a cluster with nodes 4 and 5 (shared term 8)
// and node 3 in a cluster with nodes 1 and 2 (shared term 9). With the
// window [0 1 2 | 3 4 5] both clusters straddle the split, and swapping
// nodes 0 and 3 resolves both at once.
func crossedGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.FromAdjacency([][]uint32{
		{8}, // 0
		{9}, // 1
		{9}, // 2
		{9}, // 3
		{8}, // 4
		{8}, // 5
		{},  // 6
		{},  // 7
		{},  // 8
		{},  // 9
	})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}
	return g
}

func TestLocalSearch_SwapsCrossedClusters(t *testing.T) {
	g := crossedGraph(t)
	window := []uint32{0, 1, 2, 3, 4, 5}

	iters, swaps := localSearch(g, window, 3, gainDefault, DefaultMaxIterations)
	if swaps != 1 {
		t.Errorf("swaps = %d, want 1", swaps)
	}
	if iters < 2 {
		t.Errorf("iters = %d, want >= 2 (one swapping pass plus the converging pass)", iters)
	}

	left := map[uint32]bool{window[0]: true, window[1]: true, window[2]: true}
	if !left[1] || !left[2] || !left[3] {
		t.Errorf("left half = %v, want {1,2,3}", window[:3])
	}
	right := map[uint32]bool{window[3]: true, window[4]: true, window[5]: true}
	if !right[0] || !right[4] || !right[5] {
		t.Errorf("right half = %v, want {0,4,5}", window[3:])
	}
}

func TestLocalSearch_Idempotence(t *testing.T) {
	g := crossedGraph(t)
	window := []uint32{0, 1, 2, 3, 4, 5}

	localSearch(g, window, 3, gainDefault, DefaultMaxIterations)

	converged := append([]uint32(nil), window...)
	iters, swaps := localSearch(g, window, 3, gainDefault, DefaultMaxIterations)
	if swaps != 0 {
		t.Errorf("swaps on converged window = %d, want 0", swaps)
	}
	if iters != 1 {
		t.Errorf("iters on converged window = %d, want 1", iters)
	}
	for i := range window {
		if window[i] != converged[i] {
			t.Fatalf("window changed on converged input: %v", window)
		}
	}
}

// totalSplitCost sums the model's encoding estimate over every term of
// the window under the current split.
func totalSplitCost(g *graph.Graph, window []uint32, mid int) float64 {
	t := newGainTable(g, window, mid)
	var total float64
	for _, c := range t.counts {
		total += gapCost(c.left, t.nl) + gapCost(c.right, t.nr)
	}
	return total
}

func TestLocalSearch_NeverIncreasesCost(t *testing.T) {
	g := crossedGraph(t)
	window := []uint32{0, 1, 2, 3, 4, 5}

	before := totalSplitCost(g, window, 3)
	localSearch(g, window, 3, gainDefault, DefaultMaxIterations)
	after := totalSplitCost(g, window, 3)

	if after > before {
		t.Errorf("split cost after search = %v, want <= %v", after, before)
	}
}

func TestLocalSearch_PreservesHalfSizes(t *testing.T) {
	g := crossedGraph(t)
	window := []uint32{0, 1, 2, 3, 4, 5}

	localSearch(g, window, 3, gainDefault, DefaultMaxIterations)

	if len(window) != 6 {
		t.Fatalf("window length changed: %d", len(window))
	}
	seen := map[uint32]int{}
	for _, n := range window {
		seen[n]++
	}
	for n := uint32(0); n < 6; n++ {
		if seen[n] != 1 {
			t.Errorf("node %d appears %d times, want 1", n, seen[n])
		}
	}
}

func TestLocalSearch_ConvergedSymmetricPairs(t *testing.T) {
	// Mutually connected pairs already co-located: nothing to improve.
	g, err := graph.FromAdjacency([][]uint32{
		{1}, {0}, // pair in left half
		{3}, {2}, // pair in right half
	})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}
	window := []uint32{0, 1, 2, 3}

	_, swaps := localSearch(g, window, 2, gainDefault, DefaultMaxIterations)
	if swaps != 0 {
		t.Errorf("swaps = %d, want 0", swaps)
	}
}

func TestLocalSearch_ZeroIterationBudget(t *testing.T) {
	g := crossedGraph(t)
	window := []uint32{0, 1, 2, 3, 4, 5}

	iters, swaps := localSearch(g, window, 3, gainDefault, 0)
	if iters != 0 || swaps != 0 {
		t.Errorf("localSearch with zero budget = (%d, %d), want (0, 0)", iters, swaps)
	}
}

func TestGain_EmptyTermsNeutral(t *testing.T) {
	g := crossedGraph(t)
	table := newGainTable(g, []uint32{0, 1, 2, 3, 4, 5}, 3)

	for _, strategy := range []Strategy{StrategyDefault, StrategyApprox1, StrategyApprox2} {
		fn := strategy.resolve()
		if got := fn(table, nil, true); got != 0 {
			t.Errorf("%s: gain of node without terms = %v, want 0", strategy, got)
		}
	}
}

func TestGain_StrategiesAgreeOnClearMove(t *testing.T) {
	// Node 0's term sits mostly on the right, so every strategy must score
	// moving it right as strictly positive.
	g := crossedGraph(t)
	table := newGainTable(g, []uint32{0, 1, 2, 3, 4, 5}, 3)

	for _, strategy := range []Strategy{StrategyDefault, StrategyApprox1, StrategyApprox2} {
		fn := strategy.resolve()
		if got := fn(table, g.Successors(0), true); got <= 0 {
			t.Errorf("%s: gain for node 0 = %v, want > 0", strategy, got)
		}
	}
}
