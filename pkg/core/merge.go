package core

// MergeStats summarizes a MergeImport.
type MergeStats struct {
	Existing   int // notes stored before the merge
	Incoming   int // notes offered by the batch
	Added      int // incoming notes whose id was new
	Duplicates int // incoming notes dropped because their id was already present
	Total      int // notes stored after the merge
}

// Merge reconciles incoming notes against existing ones.
//
// The two sequences are concatenated (existing first) and only the first note bearing
// each id is kept, so an existing note always wins over an imported note with the same id.
// The result is sorted by recency.
func Merge(existing, incoming []Note) ([]Note, MergeStats) {
	stats := MergeStats{
		Existing: len(existing),
		Incoming: len(incoming),
	}

	seen := make(map[int64]struct{}, len(existing)+len(incoming))
	merged := make([]Note, 0, len(existing)+len(incoming))

	for _, n := range existing {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		merged = append(merged, n)
	}

	for _, n := range incoming {
		if _, dup := seen[n.ID]; dup {
			stats.Duplicates++
			continue
		}
		seen[n.ID] = struct{}{}
		merged = append(merged, n)
		stats.Added++
	}

	SortByRecency(merged)
	stats.Total = len(merged)
	return merged, stats
}
