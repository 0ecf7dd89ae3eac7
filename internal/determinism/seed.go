package determinism

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// GenerateSeed creates a deterministic uint64 seed from a strategy ID and
// catalog name. The seed is derived from a SHA-256 hash of the concatenated
// inputs, so sampling the same catalog against the same strategy always picks
// the same vectors.
// The returned value is guaranteed to be <= math.MaxInt64 so it can be fed to
// APIs that take signed int64 seeds.
func GenerateSeed(strategyID, catalog string) uint64 {
	// Concatenate with a delimiter to ensure unique combinations
	input := fmt.Sprintf("%s|%s", strategyID, catalog)

	hash := sha256.Sum256([]byte(input))

	seed := binary.BigEndian.Uint64(hash[:8])

	// Mask off the high bit so the value fits in int64
	seed = seed & 0x7FFFFFFFFFFFFFFF

	return seed
}
