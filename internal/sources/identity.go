package sources

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SourceID computes a deterministic identifier from a stable composite key.
// The digest covers only content that never changes between runs (URLs,
// titles), so identical origin content always hashes to the same ID.
func SourceID(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "_")))
	return hex.EncodeToString(h[:])
}
