package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/graphorder/pkg/errors"
	"github.com/matzehuels/graphorder/pkg/graph"
)

const (
	formatBin   = "bin"
	formatASCII = "ascii"
)

// detectFormat picks a graph format from an explicit flag value or, when
// empty, from the file extension. Binary is the default because that is
// what the large inputs ship as.
func detectFormat(path, format string) (string, error) {
	switch format {
	case formatBin, formatASCII:
		return format, nil
	case "":
	default:
		return "", errors.New(errors.ErrCodeInvalidInput,
			"unknown format %q (must be %q or %q)", format, formatBin, formatASCII)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".adj", ".ascii":
		return formatASCII, nil
	default:
		return formatBin, nil
	}
}

// parseGraph decodes an in-memory graph file.
func parseGraph(data []byte, path, format string) (*graph.Graph, error) {
	f, err := detectFormat(path, format)
	if err != nil {
		return nil, err
	}
	if f == formatASCII {
		return graph.ReadAdjacency(bytes.NewReader(data))
	}
	return graph.ReadBin(bytes.NewReader(data))
}

// loadGraphFile reads and decodes a graph file.
func loadGraphFile(path, format string) (*graph.Graph, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "graph file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return parseGraph(data, path, format)
}
