package sync

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint digests the existence+edit-time state of the whole collection
// into a single string. Two collections with the same ids and last-edited
// timestamps produce the same fingerprint, so an unchanged fingerprint lets
// the orchestrator skip the fetch-diff-apply path entirely.
//
// Stamps may contain duplicate ids when the feed overlaps across pages; the
// last occurrence wins. The pairs are sorted by id so page ordering never
// changes the result.
func Fingerprint(stamps []EditStamp) string {
	merged := make(map[string]string, len(stamps))
	for _, s := range stamps {
		merged[s.ID] = s.LastEdited
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "COUNT:%d\n", len(ids))
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte('|')
		b.WriteString(merged[id])
		b.WriteByte('\n')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
