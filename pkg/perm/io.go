package perm

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/graphorder/pkg/errors"
)

// Write writes p to w in the layout downstream relabeling tools read:
// one big-endian 64-bit integer per node, where the value at index i is
// the new label of original node i.
func (p Permutation) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	var word [8]byte
	for _, label := range p {
		binary.BigEndian.PutUint64(word[:], uint64(label))
		if _, err := bw.Write(word[:]); err != nil {
			return fmt.Errorf("write permutation word: %w", err)
		}
	}
	return bw.Flush()
}

// WriteFile writes p to path, creating parent directories as needed.
func (p Permutation) WriteFile(path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return p.Write(f)
}

// Read reads a permutation of exactly n entries from r and validates that
// it is a bijection on [0, n).
func Read(r io.Reader, n int) (Permutation, error) {
	br := bufio.NewReader(r)
	p := make(Permutation, n)
	var word [8]byte
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(br, word[:]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTruncatedInput, err,
				"reading permutation entry %d of %d", i, n)
		}
		v := binary.BigEndian.Uint64(word[:])
		if v >= uint64(n) {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"permutation entry %d: label %d outside [0, %d)", i, v, n)
		}
		p[i] = uint32(v)
	}
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "permutation is not a bijection")
	}
	return p, nil
}

// ReadFile reads a permutation of exactly n entries from path.
func ReadFile(path string, n int) (Permutation, error) {
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
	return Read(f, n)
}
