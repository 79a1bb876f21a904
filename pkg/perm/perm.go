// Package perm provides the permutation type produced by the bisection
// core, the assembler that collects leaf orderings into it, and file I/O in
// the layout downstream relabeling tools consume.
package perm

import (
	"github.com/matzehuels/graphorder/pkg/errors"
)

// Permutation maps original node ids to new labels: p[orig] = new.
// A valid permutation is a bijection on [0, N).
type Permutation []uint32

// Identity returns the identity permutation of length n.
func Identity(n int) Permutation {
	p := make(Permutation, n)
	for i := range p {
		p[i] = uint32(i)
	}
	return p
}

// Inverse returns the inverse mapping: for q = p.Inverse(), q[new] = orig.
// The receiver must be a valid permutation; call Validate first if the
// source is untrusted.
func (p Permutation) Inverse() Permutation {
	inv := make(Permutation, len(p))
	for orig, newLabel := range p {
		inv[newLabel] = uint32(orig)
	}
	return inv
}

// Validate checks that p is a bijection on [0, len(p)).
// It returns an INTERNAL_ERROR naming the first violation found: a label
// out of range or a label assigned twice.
func (p Permutation) Validate() error {
	n := len(p)
	seen := make([]bool, n)
	for orig, newLabel := range p {
		if int(newLabel) >= n {
			return errors.New(errors.ErrCodeInternal,
				"permutation not a bijection: node %d has label %d, outside [0, %d)", orig, newLabel, n)
		}
		if seen[newLabel] {
			return errors.New(errors.ErrCodeInternal,
				"permutation not a bijection: label %d assigned more than once (node %d)", newLabel, orig)
		}
		seen[newLabel] = true
	}
	return nil
}
