package bisect

import (
	"context"
	"math"
	"testing"

	"github.com/matzehuels/graphorder/pkg/graph"
	"github.com/matzehuels/graphorder/pkg/perm"
)

func TestLogGapCost_Identity(t *testing.T) {
	g, err := graph.FromAdjacency([][]uint32{
		{1}, // gap 2 -> 1 bit
		{},
	})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}

	cost, err := LogGapCost(g, nil)
	if err != nil {
		t.Fatalf("LogGapCost() error = %v", err)
	}
	if want := math.Log2(2); math.Abs(cost-want) > 1e-9 {
		t.Errorf("LogGapCost() = %v, want %v", cost, want)
	}
}

func TestLogGapCost_PermutationChangesCost(t *testing.T) {
	// Node 0 points at a far label under identity, a near one after swap.
	g, err := graph.FromAdjacency([][]uint32{
		{3},
		{},
		{},
		{},
	})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}

	identity, err := LogGapCost(g, perm.Identity(4))
	if err != nil {
		t.Fatalf("LogGapCost(identity) error = %v", err)
	}
	swapped, err := LogGapCost(g, perm.Permutation{0, 3, 2, 1})
	if err != nil {
		t.Fatalf("LogGapCost(swapped) error = %v", err)
	}
	if swapped >= identity {
		t.Errorf("cost after moving successor closer = %v, want < %v", swapped, identity)
	}
}

func TestLogGapCost_LengthMismatch(t *testing.T) {
	g, err := graph.FromAdjacency([][]uint32{{0}, {1}})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}
	if _, err := LogGapCost(g, perm.Permutation{0}); err == nil {
		t.Error("LogGapCost() error = nil, want INVALID_INPUT")
	}
}

func TestReorder_DoesNotHurtClusteredGraph(t *testing.T) {
	// Two tight clusters scattered across the id space: reordering should
	// never produce a worse gap cost than the identity on such inputs.
	lists := make([][]uint32, 40)
	for u := 0; u < 40; u += 2 {
		partner := uint32((u + 20) % 40)
		lists[u] = append(lists[u], partner)
		lists[partner] = append(lists[partner], uint32(u))
	}
	g, err := graph.FromAdjacency(lists)
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}

	before, err := LogGapCost(g, nil)
	if err != nil {
		t.Fatalf("LogGapCost(identity) error = %v", err)
	}

	p, err := Reorder(context.Background(), g, testOptions())
	if err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	after, err := LogGapCost(g, p)
	if err != nil {
		t.Fatalf("LogGapCost(reordered) error = %v", err)
	}

	if after > before {
		t.Errorf("cost after reordering = %v, want <= %v", after, before)
	}
}
