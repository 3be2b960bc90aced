// Package reconcile folds per-source match results into canonical
// threat-group records and ranks them by corroboration.
//
// The structured feed is authoritative: curated identifiers and canonical
// naming. Tabular feeds are noisy corroborating signals. Merging therefore
// never lets a later source overwrite the identifying fields of an earlier
// (higher-priority) one; it only adds corroboration: the confirming label,
// a combined source descriptor, and a cross-reference note.
package reconcile

import (
	"sort"
	"strings"

	"github.com/threatscope/threatscope/pkg/intel"
)

// Input is one source's contribution to a reconciliation pass: the records
// its matcher produced, tagged with the source's priority rank. Lower ranks
// fold first and win the identifying fields on key collisions.
type Input struct {
	Priority int
	Records  []intel.Record
}

// Merge folds the inputs into canonical records keyed by normalized name.
//
// Inputs are processed in ascending priority order (stable for equal ranks).
// The first record seen for a key seeds the canonical entry; every later
// record under the same key from a source label not yet in ConfirmedIn
// appends that label, recomputes the combined source descriptor, and adds a
// cross-reference note pointing at the later record's reference URL.
// Re-confirmation by an already-listed label is a no-op, so duplicate rows
// within a source contribute nothing new.
//
// Records with an empty normalized key are skipped: matchers drop them at
// the boundary, and a blank key must never reach the canonical map.
//
// The result is in first-seen-key order. Callers wanting corroboration
// order apply Rank. Merge never mutates its inputs and the returned records
// share no state with them.
func Merge(inputs []Input) []intel.CanonicalRecord {
	ordered := make([]Input, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority < ordered[j].Priority
	})

	byKey := make(map[string]*intel.CanonicalRecord)
	var keys []string

	for _, input := range ordered {
		for _, rec := range input.Records {
			if rec.NormalizedKey == "" {
				continue
			}

			existing, seen := byKey[rec.NormalizedKey]
			if !seen {
				canonical := seed(rec)
				byKey[rec.NormalizedKey] = &canonical
				keys = append(keys, rec.NormalizedKey)
				continue
			}
			if existing.Confirmed(rec.SourceLabel) {
				continue
			}

			existing.ConfirmedIn = append(existing.ConfirmedIn, rec.SourceLabel)
			existing.SourceLabel = intel.Label(combinedLabel(existing.ConfirmedIn))
			existing.DetailText += crossReference(rec)
		}
	}

	merged := make([]intel.CanonicalRecord, 0, len(keys))
	for _, key := range keys {
		merged = append(merged, *byKey[key])
	}
	return merged
}

// seed builds a fresh canonical record from the first match for a key.
// Aliases are cloned so the canonical record aliases nothing the matcher
// handed out.
func seed(rec intel.Record) intel.CanonicalRecord {
	canonical := intel.CanonicalRecord{
		Record:      rec,
		ConfirmedIn: []intel.Label{rec.SourceLabel},
	}
	canonical.Aliases = append([]string(nil), rec.Aliases...)
	return canonical
}

// combinedLabel renders the confirming labels as a single descriptor,
// e.g. "MITRE + Google Sheet".
func combinedLabel(confirmed []intel.Label) string {
	parts := make([]string, len(confirmed))
	for i, label := range confirmed {
		parts[i] = string(label)
	}
	return strings.Join(parts, " + ")
}

// crossReference renders the detail-text note for a corroborating source.
func crossReference(rec intel.Record) string {
	return " [also tracked in " + string(rec.SourceLabel) + ": " + rec.ReferenceURL + "]"
}
