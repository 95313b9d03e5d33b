package sync

// massDeleteThreshold is the number of synced records above which an empty
// snapshot is treated as an upstream failure instead of a legitimate wipe.
const massDeleteThreshold = 10

// Allow is the mass-delete guard. An empty fetch over a well-populated
// mapping almost always means the source query failed or is misconfigured,
// not that the user deleted everything, so the run is vetoed unless forced.
// The cost of the trade-off is that a legitimate bulk delete waits for an
// operator to re-run with force.
func Allow(snapshotLen, recordCount int, forced bool) bool {
	if forced {
		return true
	}
	return !(snapshotLen == 0 && recordCount > massDeleteThreshold)
}
