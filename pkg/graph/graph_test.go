package graph

import (
	"bytes"
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/graphorder/pkg/errors"
)

func TestBuilder_Valid(t *testing.T) {
	g, err := FromAdjacency([][]uint32{
		{1, 2},
		{0},
		{3},
		{2},
	})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}

	if g.NumNodes() != 4 {
		t.Errorf("NumNodes() = %d, want 4", g.NumNodes())
	}
	if g.NumArcs() != 5 {
		t.Errorf("NumArcs() = %d, want 5", g.NumArcs())
	}
	if g.Degree(0) != 2 {
		t.Errorf("Degree(0) = %d, want 2", g.Degree(0))
	}
	if g.Degree(1) != 1 {
		t.Errorf("Degree(1) = %d, want 1", g.Degree(1))
	}

	succs := g.Successors(0)
	if len(succs) != 2 || succs[0] != 1 || succs[1] != 2 {
		t.Errorf("Successors(0) = %v, want [1 2]", succs)
	}
	if g.MaxDegree() != 2 {
		t.Errorf("MaxDegree() = %d, want 2", g.MaxDegree())
	}
}

func TestBuilder_ArcOutOfRange(t *testing.T) {
	_, err := FromAdjacency([][]uint32{
		{1},
		{5}, // only 2 nodes
	})
	if err == nil {
		t.Fatal("FromAdjacency() error = nil, want INVALID_GRAPH")
	}
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("error code = %v, want INVALID_GRAPH", errors.GetCode(err))
	}
}

func TestBuilder_SelfLoopsAndDuplicates(t *testing.T) {
	g, err := FromAdjacency([][]uint32{
		{0, 1, 1},
		{},
	})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}
	succs := g.Successors(0)
	if len(succs) != 3 || succs[0] != 0 || succs[1] != 1 || succs[2] != 1 {
		t.Errorf("Successors(0) = %v, want [0 1 1]", succs)
	}
}

func TestBuilder_Empty(t *testing.T) {
	g, err := FromAdjacency(nil)
	if err != nil {
		t.Fatalf("FromAdjacency(nil) error = %v", err)
	}
	if g.NumNodes() != 0 {
		t.Errorf("NumNodes() = %d, want 0", g.NumNodes())
	}
	if g.NumArcs() != 0 {
		t.Errorf("NumArcs() = %d, want 0", g.NumArcs())
	}
	if g.MaxDegree() != 0 {
		t.Errorf("MaxDegree() = %d, want 0", g.MaxDegree())
	}
}

func TestBinRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		lists [][]uint32
	}{
		{"empty", nil},
		{"single node no arcs", [][]uint32{{}}},
		{"small", [][]uint32{{1, 2}, {0}, {3}, {2}}},
		{"self loops", [][]uint32{{0, 0}, {1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromAdjacency(tt.lists)
			if err != nil {
				t.Fatalf("FromAdjacency() error = %v", err)
			}

			var buf bytes.Buffer
			if err := WriteBin(g, &buf); err != nil {
				t.Fatalf("WriteBin() error = %v", err)
			}

			got, err := ReadBin(&buf)
			if err != nil {
				t.Fatalf("ReadBin() error = %v", err)
			}
			if got.NumNodes() != g.NumNodes() {
				t.Errorf("NumNodes() = %d, want %d", got.NumNodes(), g.NumNodes())
			}
			if got.NumArcs() != g.NumArcs() {
				t.Errorf("NumArcs() = %d, want %d", got.NumArcs(), g.NumArcs())
			}
			for u := 0; u < g.NumNodes(); u++ {
				want := g.Successors(uint32(u))
				have := got.Successors(uint32(u))
				if len(want) != len(have) {
					t.Fatalf("node %d: Successors() = %v, want %v", u, have, want)
				}
				for i := range want {
					if want[i] != have[i] {
						t.Fatalf("node %d: Successors() = %v, want %v", u, have, want)
					}
				}
			}
		})
	}
}

func TestReadBin_BadFingerprint(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(999))
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	binary.Write(&buf, binary.LittleEndian, uint64(0))

	_, err := ReadBin(&buf)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadBin() error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadBin_Truncated(t *testing.T) {
	g, err := FromAdjacency([][]uint32{{1}, {0}})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}
	var buf bytes.Buffer
	if err := WriteBin(g, &buf); err != nil {
		t.Fatalf("WriteBin() error = %v", err)
	}

	full := buf.Bytes()
	// Cut off at every prefix length that drops at least one arc.
	for _, cut := range []int{0, 4, 8, 12, 20, len(full) - 2} {
		_, err := ReadBin(bytes.NewReader(full[:cut]))
		if err == nil {
			t.Errorf("ReadBin(prefix %d bytes) error = nil, want truncation error", cut)
			continue
		}
		if !errors.IsLoadError(err) {
			t.Errorf("ReadBin(prefix %d bytes) error = %v, want load error", cut, err)
		}
	}
}

func TestReadBin_OverdeclaredArcCount(t *testing.T) {
	// The last offset declares vastly more arcs than the stream holds. The
	// reader must report truncation rather than attempt the allocation.
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, binFingerprint)
	binary.Write(&buf, binary.LittleEndian, uint32(1))
	binary.Write(&buf, binary.LittleEndian, []uint64{0, 1 << 62})

	_, err := ReadBin(&buf)
	if !errors.Is(err, errors.ErrCodeTruncatedInput) {
		t.Errorf("ReadBin() error = %v, want TRUNCATED_INPUT", err)
	}
}

func TestReadBin_OverdeclaredNodeCount(t *testing.T) {
	// A 12-byte image declaring 2^32-1 nodes has no offsets at all; the
	// reader must fail on the missing offsets, not allocate for the count.
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, binFingerprint)
	binary.Write(&buf, binary.LittleEndian, uint32(math.MaxUint32))

	_, err := ReadBin(&buf)
	if !errors.Is(err, errors.ErrCodeTruncatedInput) {
		t.Errorf("ReadBin() error = %v, want TRUNCATED_INPUT", err)
	}
}

func TestReadBin_ArcOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, binFingerprint)
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, []uint64{0, 1, 1})
	binary.Write(&buf, binary.LittleEndian, []uint32{7}) // target out of range

	_, err := ReadBin(&buf)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("ReadBin() error = %v, want INVALID_GRAPH", err)
	}
}

func TestReadBin_NonMonotonicOffsets(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, binFingerprint)
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, []uint64{0, 5, 1})

	_, err := ReadBin(&buf)
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("ReadBin() error = %v, want INVALID_GRAPH", err)
	}
}

func TestAdjacencyRoundTrip(t *testing.T) {
	g, err := FromAdjacency([][]uint32{{1, 2}, {}, {0, 2}})
	if err != nil {
		t.Fatalf("FromAdjacency() error = %v", err)
	}

	var buf bytes.Buffer
	if err := WriteAdjacency(g, &buf); err != nil {
		t.Fatalf("WriteAdjacency() error = %v", err)
	}

	got, err := ReadAdjacency(&buf)
	if err != nil {
		t.Fatalf("ReadAdjacency() error = %v", err)
	}
	if got.NumNodes() != 3 {
		t.Errorf("NumNodes() = %d, want 3", got.NumNodes())
	}
	if got.Degree(1) != 0 {
		t.Errorf("Degree(1) = %d, want 0", got.Degree(1))
	}
	succs := got.Successors(2)
	if len(succs) != 2 || succs[0] != 0 || succs[1] != 2 {
		t.Errorf("Successors(2) = %v, want [0 2]", succs)
	}
}

func TestReadAdjacency_Comments(t *testing.T) {
	in := "# header\n1\n# mid\n0\n"
	g, err := ReadAdjacency(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadAdjacency() error = %v", err)
	}
	if g.NumNodes() != 2 {
		t.Errorf("NumNodes() = %d, want 2", g.NumNodes())
	}
}

func TestReadAdjacency_BadToken(t *testing.T) {
	_, err := ReadAdjacency(strings.NewReader("1 x\n"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ReadAdjacency() error = %v, want INVALID_FORMAT", err)
	}
}

func TestReadAdjacency_OutOfRange(t *testing.T) {
	_, err := ReadAdjacency(strings.NewReader("9\n0\n"))
	if !errors.Is(err, errors.ErrCodeInvalidGraph) {
		t.Errorf("ReadAdjacency() error = %v, want INVALID_GRAPH", err)
	}
}
