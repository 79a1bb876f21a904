// Package bisect computes a node relabeling for a directed graph that
// minimizes the gap-encoded size of its adjacency lists, using recursive
// graph bisection: split the node set into two balanced halves, improve
// the split by local search under a pluggable gain model, and recurse into
// each half until subsets reach the leaf size.
//
// The graph is read-only and shared; every piece of mutable state (the
// node order window, the gain table) is owned by exactly one partition
// context at a time, so independent subtrees run concurrently without
// locks. Sibling subtrees write disjoint label ranges, which makes the
// output byte-identical regardless of scheduling.
//
// # Usage
//
//	opts := bisect.DefaultOptions()
//	p, err := bisect.New(g, opts)
//	if err != nil {
//	    return err
//	}
//	permutation, err := p.Run(ctx)
package bisect

import (
	"context"
	"math/bits"
	"sort"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/graphorder/pkg/errors"
	"github.com/matzehuels/graphorder/pkg/graph"
	"github.com/matzehuels/graphorder/pkg/observability"
	"github.com/matzehuels/graphorder/pkg/perm"
)

// Stats reports what a run did. Counters are aggregated across all
// subtrees; read them only after Run returns.
type Stats struct {
	Splits     int64 // bisection levels processed
	Leaves     int64 // leaf ranges committed
	Iterations int64 // local search passes across all levels
	Swaps      int64 // swaps applied across all levels
}

// Partitioner runs recursive graph bisection over one graph.
// A Partitioner is single-use: create one per Run.
type Partitioner struct {
	g    *graph.Graph
	opts Options
	gain gainFunc
	asm  *perm.Assembler

	// parallelDepth bounds concurrent fan-out: levels at or beyond it run
	// sequentially in the calling goroutine.
	parallelDepth int

	splits     atomic.Int64
	leaves     atomic.Int64
	iterations atomic.Int64
	swaps      atomic.Int64
}

// New creates a Partitioner for g. Options are validated and defaulted;
// the gain strategy is resolved here, once, and never switched per call.
func New(g *graph.Graph, opts Options) (*Partitioner, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Partitioner{
		g:             g,
		opts:          opts,
		gain:          opts.Strategy.resolve(),
		asm:           perm.NewAssembler(g.NumNodes()),
		parallelDepth: bits.Len(uint(opts.Parallelism) - 1), // ceil(log2)
	}, nil
}

// Stats returns the run counters.
func (p *Partitioner) Stats() Stats {
	return Stats{
		Splits:     p.splits.Load(),
		Leaves:     p.leaves.Load(),
		Iterations: p.iterations.Load(),
		Swaps:      p.swaps.Load(),
	}
}

// Run computes the permutation. The result maps each original node id to
// its new label and is always a bijection on [0, N); any violation inside
// the recursion surfaces as an INTERNAL_ERROR.
//
// Cancelling ctx abandons the run between partition contexts and returns
// the context's error; no partial permutation is returned.
func (p *Partitioner) Run(ctx context.Context) (perm.Permutation, error) {
	n := p.g.NumNodes()
	observability.Bisection().OnRunStart(ctx, n)

	order, active := p.arrange()

	// Zero-degree nodes form a fixed tail leaf outside the optimization.
	if active < n {
		p.leaves.Add(1)
		if err := p.asm.Commit(order[active:], active); err != nil {
			observability.Bisection().OnRunDone(ctx, n, err)
			return nil, err
		}
		observability.Bisection().OnLeaf(ctx, 0, n-active)
	}

	if active > 0 {
		if err := p.bisect(ctx, order[:active], 0, 0); err != nil {
			observability.Bisection().OnRunDone(ctx, n, err)
			return nil, err
		}
	}

	result, err := p.asm.Finish()
	observability.Bisection().OnRunDone(ctx, n, err)
	return result, err
}

// Reorder is a convenience wrapper: one call from graph to permutation.
func Reorder(ctx context.Context, g *graph.Graph, opts Options) (perm.Permutation, error) {
	p, err := New(g, opts)
	if err != nil {
		return nil, err
	}
	return p.Run(ctx)
}

// arrange produces the initial node order and the size of its active
// prefix. With DegreeSort, nodes go by descending out-degree (ties by
// ascending id) and the zero-degree suffix is excluded from optimization;
// otherwise the order is the identity and every node is active.
func (p *Partitioner) arrange() (order []uint32, active int) {
	n := p.g.NumNodes()
	order = make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}
	if !p.opts.DegreeSort {
		return order, n
	}

	sort.Slice(order, func(i, j int) bool {
		di, dj := p.g.Degree(order[i]), p.g.Degree(order[j])
		if di != dj {
			return di > dj
		}
		return order[i] < order[j]
	})

	active = n
	for active > 0 && p.g.Degree(order[active-1]) == 0 {
		active--
	}
	return order, active
}

// bisect processes one partition context: the window of the order slice
// holding the subset, whose first node receives label lo. The window is
// exclusively owned by this call; it is split into two child windows that
// are never shared across siblings.
func (p *Partitioner) bisect(ctx context.Context, window []uint32, lo, depth int) error {
	size := len(window)
	if size == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if size <= p.opts.MinPartitionSize || size == 1 || depth >= p.opts.MaxDepth {
		return p.commitLeaf(ctx, window, lo, depth)
	}

	// Left half takes the extra node of an odd subset.
	mid := (size + 1) / 2
	if diff := mid - (size - mid); diff < -1 || diff > 1 {
		return errors.New(errors.ErrCodeInternal,
			"unbalanced split at depth %d: halves %d and %d", depth, mid, size-mid)
	}
	p.splits.Add(1)
	observability.Bisection().OnSplit(ctx, depth, size)

	// A two-node subset gets one node per side; there is nothing for the
	// local search to improve.
	if size > 2 {
		iters, swaps := localSearch(p.g, window, mid, p.gain, p.opts.MaxIterations)
		p.iterations.Add(int64(iters))
		p.swaps.Add(int64(swaps))
		observability.Bisection().OnLevelConverged(ctx, depth, size, iters, swaps)
	}

	left, right := window[:mid], window[mid:]
	if p.runParallel(size, depth) {
		var eg errgroup.Group
		eg.Go(func() error { return p.bisect(ctx, left, lo, depth+1) })
		eg.Go(func() error { return p.bisect(ctx, right, lo+mid, depth+1) })
		return eg.Wait()
	}
	if err := p.bisect(ctx, left, lo, depth+1); err != nil {
		return err
	}
	return p.bisect(ctx, right, lo+mid, depth+1)
}

// runParallel reports whether the two children of a context should be
// dispatched concurrently. Fan-out is bounded by recursion depth (at most
// 2^parallelDepth concurrent subtrees) and small subsets always run
// sequentially because goroutine overhead would dominate.
func (p *Partitioner) runParallel(size, depth int) bool {
	return depth < p.parallelDepth && size >= p.opts.ParallelThreshold
}

// commitLeaf fixes the order of a terminal subset and hands its label
// range to the assembler.
func (p *Partitioner) commitLeaf(ctx context.Context, window []uint32, lo, depth int) error {
	if p.opts.SortLeaves {
		sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
	}
	p.leaves.Add(1)
	observability.Bisection().OnLeaf(ctx, depth, len(window))
	return p.asm.Commit(window, lo)
}
