package reconcile

import (
	"sort"

	"github.com/threatscope/threatscope/pkg/intel"
)

// Rank orders canonical records for presentation: records confirmed by more
// sources first, then by source descriptor in descending lexicographic
// order so same-provenance entries sit together. The sort is stable, so
// ties keep the Merge (first-seen) order. The input slice is not modified.
func Rank(records []intel.CanonicalRecord) []intel.CanonicalRecord {
	ranked := make([]intel.CanonicalRecord, len(records))
	copy(ranked, records)

	sort.SliceStable(ranked, func(i, j int) bool {
		if len(ranked[i].ConfirmedIn) != len(ranked[j].ConfirmedIn) {
			return len(ranked[i].ConfirmedIn) > len(ranked[j].ConfirmedIn)
		}
		return ranked[i].SourceLabel > ranked[j].SourceLabel
	})

	return ranked
}
