package jobqueue

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID returns a random 16-byte hex identifier. No UUID library appears
// anywhere in the retrieved pack, so identifiers follow the same shape
// as pkg/hashutil's content-addressed filenames elsewhere in this repo
// — a fixed-width hex string, just from randomness instead of a content
// hash.
func NewID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on the stdlib reader only fails if the OS
		// entropy source is unavailable; there is no meaningful
		// degraded mode for an identifier generator to fall back to.
		panic("jobqueue: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
