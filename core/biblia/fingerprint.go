package biblia

import (
	"encoding/hex"
	"strings"

	"github.com/zeebo/blake3"
)

// Fingerprint derives a deterministic cache key from an operation
// discriminator and its normalized parameters. Parameters are trimmed
// and lower-cased before hashing so that surface casing differences
// collapse to one cache slot.
func Fingerprint(op string, parts ...string) string {
	elems := make([]string, 0, len(parts)+1)
	elems = append(elems, op)
	for _, p := range parts {
		elems = append(elems, strings.ToLower(strings.TrimSpace(p)))
	}
	sum := blake3.Sum256([]byte(strings.Join(elems, "|")))
	return hex.EncodeToString(sum[:])
}
