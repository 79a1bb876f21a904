package graph

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/graphorder/pkg/errors"
)

// The bin layout is a flat, little-endian image of the CSR arrays that can
// be read sequentially or mapped into memory:
//
//   - 8 bytes of fingerprint
//   - 4 bytes holding the number of nodes N
//   - N+1 8-byte integers with the index of the first arc of each adjacency
//     list; the last of these is the total number of arcs M
//   - M 4-byte integers with the target node of each arc
//
// The fingerprint encodes the two integer widths so that readers reject
// images written with a different layout.
const binFingerprint uint64 = (8 << 4) | 4

// ReadBin reads a graph in the bin layout from r.
// It validates the fingerprint, offset monotonicity and every arc target,
// returning a load error (INVALID_FORMAT, TRUNCATED_INPUT or INVALID_GRAPH)
// on malformed input.
func ReadBin(r io.Reader) (*Graph, error) {
	br := bufio.NewReader(r)

	var fingerprint uint64
	if err := binary.Read(br, binary.LittleEndian, &fingerprint); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncatedInput, err, "reading fingerprint")
	}
	if fingerprint != binFingerprint {
		return nil, errors.New(errors.ErrCodeInvalidFormat,
			"invalid fingerprint: expected %d, got %d", binFingerprint, fingerprint)
	}

	var numNodes uint32
	if err := binary.Read(br, binary.LittleEndian, &numNodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncatedInput, err, "reading node count")
	}

	n := int(numNodes)
	offsets, err := readWords[uint64](br, uint64(n)+1)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncatedInput, err, "reading offsets")
	}
	if offsets[0] != 0 {
		return nil, errors.New(errors.ErrCodeInvalidGraph, "first offset must be 0, got %d", offsets[0])
	}
	for i := 1; i <= n; i++ {
		if offsets[i] < offsets[i-1] {
			return nil, errors.New(errors.ErrCodeInvalidGraph,
				"offsets not monotonic: offset[%d]=%d < offset[%d]=%d", i, offsets[i], i-1, offsets[i-1])
		}
	}

	numArcs := offsets[n]
	arcs, err := readWords[uint32](br, numArcs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncatedInput, err, "reading %d arcs", numArcs)
	}
	for i, target := range arcs {
		if target >= numNodes {
			return nil, errors.New(errors.ErrCodeInvalidGraph,
				"arc %d: target %d out of range [0, %d)", i, target, numNodes)
		}
	}

	return &Graph{offsets: offsets, arcs: arcs}, nil
}

// readChunk bounds how many words readWords requests per binary.Read call.
const readChunk = 1 << 16

// readWords reads exactly count little-endian words from r. The count comes
// from the input image itself, so reading in bounded chunks keeps a corrupt
// count from forcing a giant allocation: a short stream fails with an EOF
// after at most one chunk beyond the data actually present.
func readWords[T uint32 | uint64](r io.Reader, count uint64) ([]T, error) {
	out := make([]T, 0, min(count, readChunk))
	buf := make([]T, min(count, readChunk))
	for uint64(len(out)) < count {
		batch := buf[:min(uint64(len(buf)), count-uint64(len(out)))]
		if err := binary.Read(r, binary.LittleEndian, batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}

// ReadBinFile reads a bin-layout graph from path.
func ReadBinFile(path string) (*Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadBin(f)
}

// WriteBin writes g in the bin layout to w.
func WriteBin(g *Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, binary.LittleEndian, binFingerprint); err != nil {
		return fmt.Errorf("write fingerprint: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(g.NumNodes())); err != nil {
		return fmt.Errorf("write node count: %w", err)
	}
	offsets := g.offsets
	if len(offsets) == 0 {
		offsets = []uint64{0}
	}
	if err := binary.Write(bw, binary.LittleEndian, offsets); err != nil {
		return fmt.Errorf("write offsets: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, g.arcs); err != nil {
		return fmt.Errorf("write arcs: %w", err)
	}
	return bw.Flush()
}

// WriteBinFile writes g in the bin layout to path, creating parent
// directories as needed. The file is created with 0644 permissions.
func WriteBinFile(g *Graph, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteBin(g, f)
}
