package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashStrings returns a SHA256 hash of the provided strings with newline separators.
func HashStrings(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashContext fingerprints a combined document context so runs over the same
// uploads can be grouped without storing the text. Empty context hashes to "".
func HashContext(context string) string {
	if context == "" {
		return ""
	}
	return HashStrings(context)
}
