package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/graphorder/pkg/errors"
)

// ReadAdjacency reads a graph from a line-oriented adjacency listing: one
// line per node, with the node's successors as space-separated integers.
// An empty line is a node with no successors. Lines starting with '#' are
// ignored.
//
// Arc targets are validated against the final node count; out-of-range
// targets yield an INVALID_GRAPH error.
func ReadAdjacency(r io.Reader) (*Graph, error) {
	b := NewBuilder(0, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		var succs []uint32
		if line != "" {
			fields := strings.Fields(line)
			succs = make([]uint32, 0, len(fields))
			for _, f := range fields {
				v, err := strconv.ParseUint(f, 10, 32)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err,
						"line %d: invalid node id %q", lineNo, f)
				}
				succs = append(succs, uint32(v))
			}
		}
		b.AddList(succs)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTruncatedInput, err, "reading adjacency lines")
	}

	return b.Build()
}

// ReadAdjacencyFile reads a plain-text adjacency listing from path.
func ReadAdjacencyFile(path string) (*Graph, error) {
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
	return ReadAdjacency(f)
}

// WriteAdjacency writes g as a line-oriented adjacency listing to w.
// The output round-trips through ReadAdjacency.
func WriteAdjacency(g *Graph, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for u := 0; u < g.NumNodes(); u++ {
		for i, succ := range g.Successors(uint32(u)) {
			if i > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return fmt.Errorf("write node %d: %w", u, err)
				}
			}
			if _, err := bw.WriteString(strconv.FormatUint(uint64(succ), 10)); err != nil {
				return fmt.Errorf("write node %d: %w", u, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write node %d: %w", u, err)
		}
	}
	return bw.Flush()
}

// WriteAdjacencyFile writes g as a plain-text adjacency listing to path,
// creating parent directories as needed.
func WriteAdjacencyFile(g *Graph, path string) error {
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
	return WriteAdjacency(g, f)
}

// ensureParentDir creates all parent directories of the given file path.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
