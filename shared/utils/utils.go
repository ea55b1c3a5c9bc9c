package utils

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/multiformats/go-multihash"
)

// HashLength is the length of a hex-encoded content hash.
const HashLength = 64

// HashContent returns the hex sha2-256 digest of content.
func HashContent(content []byte) string {
	mh, err := multihash.Sum(content, multihash.SHA2_256, -1)
	if err != nil {
		// sha2-256 is always registered
		panic(fmt.Sprintf("multihash sum: %v", err))
	}
	decoded, err := multihash.Decode(mh)
	if err != nil {
		panic(fmt.Sprintf("multihash decode: %v", err))
	}
	return hex.EncodeToString(decoded.Digest)
}

// IsHash reports whether s looks like a full hex content hash.
func IsHash(s string) bool {
	if len(s) != HashLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}

// SortedKeys returns the keys of a map sorted alphabetically.
func SortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ShortID abbreviates a hash for display.
func ShortID(id string) string {
	if len(id) <= 7 {
		return id
	}
	return id[:7]
}
