package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PermKeyOpts captures every reordering setting that influences the
// resulting permutation. Two runs with equal graph hashes and equal
// PermKeyOpts are guaranteed to produce identical output, which is what
// makes the cache sound.
type PermKeyOpts struct {
	Strategy         string `json:"strategy"`
	MaxIterations    int    `json:"max_iterations"`
	MinPartitionSize int    `json:"min_partition_size"`
	MaxDepth         int    `json:"max_depth"`
	SortLeaves       bool   `json:"sort_leaves"`
	DegreeSort       bool   `json:"degree_sort"`
}

// PermKey generates a cache key for a computed permutation from the
// content hash of the input graph and the settings used to reorder it.
func PermKey(graphHash string, opts PermKeyOpts) string {
	return hashKey("perm:"+graphHash, opts)
}

// hashKey generates a key of the form prefix:hash(parts...).
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
