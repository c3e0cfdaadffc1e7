package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys. Implementations must return the same key for
// the same inputs and different keys whenever an option changes the value.
type Keyer interface {
	// ResolveKey identifies a resolved reference map for a document.
	ResolveKey(docHash string, opts ResolveKeyOpts) string
	// ArtifactKey identifies a rendered output for a resolved map.
	ArtifactKey(refsHash string, opts ArtifactKeyOpts) string
}

// ResolveKeyOpts are the resolver settings that change a resolved map.
type ResolveKeyOpts struct {
	ViewportW float64 `json:"vw"`
	ViewportH float64 `json:"vh"`
	AnchorW   float64 `json:"aw"`
	AnchorH   float64 `json:"ah"`
	Strict    bool    `json:"strict"`
	Measurer  string  `json:"measurer"`
}

// ArtifactKeyOpts are the sink settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"bg,omitempty"`
	EmbedFonts bool    `json:"fonts,omitempty"`
	Rasterizer string  `json:"raster,omitempty"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ResolveKey returns "resolve:<sha256>".
func (DefaultKeyer) ResolveKey(docHash string, opts ResolveKeyOpts) string {
	return hashKey("resolve", docHash, opts)
}

// ArtifactKey returns "artifact:<format>:<sha256>".
func (DefaultKeyer) ArtifactKey(refsHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), refsHash, opts)
}

// Hash returns the hex SHA-256 of data. Documents and reference maps are
// hashed with it before keying.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey folds the JSON encoding of parts into "<prefix>:<sha256>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
