// Package graph provides the immutable adjacency representation that the
// bisection core reads.
//
// A Graph stores out-neighbor lists for N nodes in compressed sparse row
// form: one flat arc array plus per-node offsets. Node identifiers are dense
// integers in [0, N). Duplicate arcs and self-loops are allowed. The graph
// is read-only after construction and safe to share across goroutines
// without locking.
//
// Two on-disk codecs are provided: the uncompressed "bin" layout (see
// [ReadBin] and [WriteBin]) and a line-oriented plain-text adjacency format
// (see [ReadAdjacency] and [WriteAdjacency]). Neither is the compressed
// webgraph format; decoding that is the job of an external toolchain.
package graph

import (
	"math"

	"github.com/matzehuels/graphorder/pkg/errors"
)

// MaxNodes is the largest node count a Graph can hold. Arc targets are
// stored as uint32, so node ids must fit in 32 bits.
const MaxNodes = math.MaxUint32

// Graph is an immutable directed graph in compressed sparse row form.
// The successors of node u occupy arcs[offsets[u]:offsets[u+1]].
//
// The zero value is an empty graph with no nodes. Use Builder to construct
// a validated instance.
type Graph struct {
	offsets []uint64
	arcs    []uint32
}

// NumNodes returns the number of nodes N. Node ids are [0, N).
func (g *Graph) NumNodes() int {
	if len(g.offsets) == 0 {
		return 0
	}
	return len(g.offsets) - 1
}

// NumArcs returns the total number of arcs M.
func (g *Graph) NumArcs() uint64 { return uint64(len(g.arcs)) }

// Degree returns the out-degree of node u.
func (g *Graph) Degree(u uint32) int {
	return int(g.offsets[u+1] - g.offsets[u])
}

// Successors returns the out-neighbors of node u in list order.
// The returned slice aliases the graph's backing array and must not be
// modified.
func (g *Graph) Successors(u uint32) []uint32 {
	return g.arcs[g.offsets[u]:g.offsets[u+1]]
}

// MaxDegree returns the largest out-degree in the graph, or 0 for an empty
// graph.
func (g *Graph) MaxDegree() int {
	maxDeg := 0
	for u := 0; u < g.NumNodes(); u++ {
		if d := g.Degree(uint32(u)); d > maxDeg {
			maxDeg = d
		}
	}
	return maxDeg
}

// Builder accumulates adjacency lists in node order and produces a
// validated Graph. Lists must be added for nodes 0, 1, 2, ... in sequence;
// Build validates every arc target against the final node count.
type Builder struct {
	offsets []uint64
	arcs    []uint32
}

// NewBuilder creates a Builder with capacity hints for the expected node
// and arc counts. Both hints may be zero.
func NewBuilder(numNodes int, numArcs uint64) *Builder {
	b := &Builder{
		offsets: make([]uint64, 1, numNodes+1),
		arcs:    make([]uint32, 0, numArcs),
	}
	return b
}

// AddList appends the adjacency list of the next node.
// Successors are stored as given; order, duplicates and self-loops are
// preserved.
func (b *Builder) AddList(successors []uint32) {
	b.arcs = append(b.arcs, successors...)
	b.offsets = append(b.offsets, uint64(len(b.arcs)))
}

// NumNodes returns the number of lists added so far.
func (b *Builder) NumNodes() int { return len(b.offsets) - 1 }

// Build validates the accumulated adjacency data and returns the Graph.
// It returns an INVALID_GRAPH error if any arc target is outside [0, N)
// where N is the number of lists added. The Builder must not be reused
// after Build.
func (b *Builder) Build() (*Graph, error) {
	n := uint64(len(b.offsets) - 1)
	if n > MaxNodes {
		return nil, errors.New(errors.ErrCodeResourceExhausted, "node count %d exceeds maximum %d", n, uint64(MaxNodes))
	}
	for i, target := range b.arcs {
		if uint64(target) >= n {
			return nil, errors.New(errors.ErrCodeInvalidGraph,
				"arc %d: target %d out of range [0, %d)", i, target, n)
		}
	}
	return &Graph{offsets: b.offsets, arcs: b.arcs}, nil
}

// FromAdjacency builds a Graph from in-memory adjacency lists, one per
// node. It is a convenience wrapper around Builder, mostly used in tests.
func FromAdjacency(lists [][]uint32) (*Graph, error) {
	var arcs uint64
	for _, l := range lists {
		arcs += uint64(len(l))
	}
	b := NewBuilder(len(lists), arcs)
	for _, l := range lists {
		b.AddList(l)
	}
	return b.Build()
}
