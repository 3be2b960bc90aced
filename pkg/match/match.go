// Package match selects keyword hits from raw feed payloads and shapes
// them into intermediate records. Two matchers share one contract: the
// structured variant understands the knowledge-base object schema and
// applies synonym-expanded terms; the tabular variant knows nothing about
// row semantics and therefore matches the raw term only.
//
// Matchers never fail: malformed input shapes produce zero-value fields,
// and records that cannot be reconciled (no usable name) are dropped here
// rather than handed downstream.
package match

import (
	"strings"
)

const (
	// DetailTextLimit bounds detail_text at the matcher boundary.
	// Merged records may grow past it through cross-reference notes.
	DetailTextLimit = 300

	// IntrusionSetType is the object type carrying threat groups in the
	// structured feed.
	IntrusionSetType = "intrusion-set"

	// AuthorityName is the external-reference source that carries curated
	// group identifiers in the structured feed.
	AuthorityName = "mitre-attack"

	// NoExternalID marks a structured record without an authority entry.
	NoExternalID = "N/A"

	// NoTabularID marks records from feeds that carry no authority IDs.
	NoTabularID = "N/A (tabular source)"

	// PlaceholderURL stands in when no reference link exists.
	PlaceholderURL = "#"

	// GlobalRegion tags records from the structured feed, which has no
	// per-tab provenance.
	GlobalRegion = "Global"
)

// authorityURLPrefix templates an external ID into its public group page.
const authorityURLPrefix = "https://attack.mitre.org/groups/"

// Snippet normalizes descriptive text into a bounded, newline-free
// snippet suitable for detail_text.
func Snippet(s string) string {
	s = newlines.Replace(s)
	runes := []rune(s)
	if len(runes) > DetailTextLimit {
		return string(runes[:DetailTextLimit])
	}
	return s
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// containsAny reports whether any non-empty term occurs in blob.
func containsAny(blob string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(blob, term) {
			return true
		}
	}
	return false
}
