package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Hash computes the SHA-256 hash of data as a 64-character hex string.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// hashKey builds "prefix:hash(parts...)". The full 256-bit hash keeps
// distinct inputs from ever sharing a key.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	h := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(h[:]))
}

// DiagramKey is the cache key for a parsed diagram, derived from the raw
// source bytes so any edit invalidates the entry.
func DiagramKey(source []byte) string {
	return "diagram:" + Hash(source)
}

// LayoutKeyOpts are the layout inputs that change the computed geometry.
// Identical diagram hash plus identical opts means an identical result.
type LayoutKeyOpts struct {
	Direction        string  `json:"direction"`
	RankSpacing      float64 `json:"rank_spacing"`
	SiblingSpacing   float64 `json:"sibling_spacing"`
	ContainerPadding float64 `json:"container_padding"`
	GridSpacing      float64 `json:"grid_spacing"`

	// JitterSeed is 0 when jitter is off; any other value selects a
	// distinct cosmetic variant of the same layout.
	JitterSeed uint64 `json:"jitter_seed,omitempty"`
}

// LayoutKey is the cache key for a computed layout.
func LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts)
}

// ArtifactKeyOpts distinguish rendered artifacts of the same layout.
type ArtifactKeyOpts struct {
	Format   string `json:"format"` // "json", "dot", "svg", "png"
	Detailed bool   `json:"detailed,omitempty"`
}

// ArtifactKey is the cache key for a rendered artifact.
func ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
