package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// hashVersion tags the hash format. Bumping it invalidates every stored hash,
// forcing a full re-sync of all items on the next run.
const hashVersion = "v1"

// hashDelimiter separates fields in the digested payload. The ASCII unit
// separator cannot appear in titles or ISO-8601 dates, so field boundaries
// stay unambiguous.
const hashDelimiter = "\x1f"

// ItemHash returns the deterministic content fingerprint of an item. It is a
// pure function of title, start, end and description; any change to one of
// those fields changes the hash. Used for change detection only, not
// security.
func ItemHash(item Item) string {
	payload := strings.Join([]string{
		hashVersion,
		item.Title,
		item.Start,
		item.End,
		item.Description,
	}, hashDelimiter)

	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
