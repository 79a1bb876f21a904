package perm

import (
	"math"

	"github.com/matzehuels/graphorder/pkg/errors"
)

// unassigned marks a permutation slot no leaf has claimed yet.
const unassigned = math.MaxUint32

// Assembler collects leaf orderings from the bisection recursion into one
// global permutation. Each leaf commits its node sequence together with the
// first output position of the contiguous range it owns.
//
// Leaves own disjoint position ranges by construction of the recursion, so
// concurrent Commit calls from different subtrees never write the same slot
// and need no locking. Finish verifies the range-disjointness and coverage
// invariants after all recursion completes.
type Assembler struct {
	perm Permutation
}

// NewAssembler creates an assembler for a graph of n nodes.
// All positions start unassigned.
func NewAssembler(n int) *Assembler {
	p := make(Permutation, n)
	for i := range p {
		p[i] = unassigned
	}
	return &Assembler{perm: p}
}

// Len returns the permutation length N.
func (a *Assembler) Len() int { return len(a.perm) }

// Commit records the final ordering of one leaf: the node at nodes[i]
// receives label lo+i. The caller must own the position range
// [lo, lo+len(nodes)).
//
// Commit returns an INTERNAL_ERROR if the range exceeds [0, N), if a node
// id is out of range, or if a node was already assigned by an earlier
// commit — all symptoms of a partitioning bug, not recoverable conditions.
func (a *Assembler) Commit(nodes []uint32, lo int) error {
	n := len(a.perm)
	if lo < 0 || lo+len(nodes) > n {
		return errors.New(errors.ErrCodeInternal,
			"leaf range [%d, %d) outside permutation bounds [0, %d)", lo, lo+len(nodes), n)
	}
	for i, node := range nodes {
		if int(node) >= n {
			return errors.New(errors.ErrCodeInternal,
				"leaf contains node %d, outside [0, %d)", node, n)
		}
		if a.perm[node] != unassigned {
			return errors.New(errors.ErrCodeInternal,
				"node %d assigned twice (labels %d and %d)", node, a.perm[node], lo+i)
		}
		a.perm[node] = uint32(lo + i)
	}
	return nil
}

// Finish validates full coverage and returns the assembled permutation.
// Every position in [0, N) must have been written exactly once; a leftover
// unassigned node or a duplicate label is an INTERNAL_ERROR. The assembler
// must not be used after Finish.
func (a *Assembler) Finish() (Permutation, error) {
	for node, label := range a.perm {
		if label == unassigned {
			return nil, errors.New(errors.ErrCodeInternal, "node %d never assigned a label", node)
		}
	}
	if err := a.perm.Validate(); err != nil {
		return nil, err
	}
	return a.perm, nil
}
