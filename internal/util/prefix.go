package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPrefixHex returns the first prefixBytes bytes of the SHA-256 digest of
// key, hex-encoded. The output width is fixed (2*prefixBytes characters) for
// every key, which keeps lookup URLs identical in shape and length.
func HashPrefixHex(key string, prefixBytes int) string {
	sum := sha256.Sum256([]byte(key))
	if prefixBytes > len(sum) {
		prefixBytes = len(sum)
	}
	return hex.EncodeToString(sum[:prefixBytes])
}
