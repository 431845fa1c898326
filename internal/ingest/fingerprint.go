package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"jobscout-engine/internal/normalize"
)

// DefaultDescriptionPrefixLen bounds how much of the description feeds
// the fingerprint: enough to tell near-duplicates apart, short enough
// to tolerate trailing text drift between re-scrapes.
const DefaultDescriptionPrefixLen = 200

// Fingerprint derives the cross-source dedup key from normalized title
// plus a description prefix. The same posting syndicated to several
// boards (different external ids) collapses to one key.
func Fingerprint(title, description string, prefixLen int) string {
	if prefixLen <= 0 {
		prefixLen = DefaultDescriptionPrefixLen
	}

	t := strings.ToLower(normalize.CleanText(title))
	d := strings.ToLower(normalize.CleanText(description))
	// prefix in runes, never splitting a multi-byte sequence
	if r := []rune(d); len(r) > prefixLen {
		d = string(r[:prefixLen])
	}

	sum := sha256.Sum256([]byte(t + "\x00" + d))
	return hex.EncodeToString(sum[:])
}
