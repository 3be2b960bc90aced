// Package intel defines the record model shared by the matching,
// reconciliation, and reporting stages: raw feed shapes, the intermediate
// record each source matcher emits, and the canonical record the
// reconciler produces.
package intel

// Label identifies an origin feed in provenance fields.
type Label string

// Well-known feed labels.
const (
	// LabelMITRE is the structured knowledge-base feed.
	LabelMITRE Label = "MITRE"

	// LabelSheet is the tabular spreadsheet feed. All tabs of one
	// spreadsheet share this label; RegionTag tells them apart.
	LabelSheet Label = "Google Sheet"
)

// String returns the label as a plain string.
func (l Label) String() string {
	return string(l)
}

// Record is the intermediate record a source matcher emits for one hit.
// It is created fresh per matcher invocation and not mutated afterwards
// except by the reconciler while folding sources together.
type Record struct {
	// SourceLabel tags the origin feed; the reconciler rewrites it to a
	// combined descriptor when several feeds confirm the same entity.
	SourceLabel Label `json:"source_label" yaml:"source_label"`

	// DisplayName is the best-effort human-readable group name.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// NormalizedKey is the deduplication identity derived from
	// DisplayName. Internal only; never serialized into reports.
	NormalizedKey string `json:"-" yaml:"-"`

	// Aliases lists known alternate names, possibly empty.
	Aliases []string `json:"aliases" yaml:"aliases"`

	// DetailText is a newline-free descriptive snippet, bounded at the
	// matcher boundary; merging may append cross-reference notes.
	DetailText string `json:"detail_text" yaml:"detail_text"`

	// ExternalID is the identifier in an external authority, or a
	// "not available" sentinel.
	ExternalID string `json:"external_id" yaml:"external_id"`

	// ReferenceURL is a dereferenceable link, or a placeholder.
	ReferenceURL string `json:"reference_url" yaml:"reference_url"`

	// RegionTag is a provenance hint: the tab name for tabular feeds,
	// "Global" for the structured feed.
	RegionTag string `json:"region_tag" yaml:"region_tag"`
}

// CanonicalRecord is a Record plus corroboration tracking.
type CanonicalRecord struct {
	Record `yaml:",inline"`

	// ConfirmedIn lists the distinct feed labels that matched this
	// entity, in insertion order. Never empty, never duplicated.
	ConfirmedIn []Label `json:"confirmed_in" yaml:"confirmed_in"`
}

// Confirmed reports whether label already corroborates this record.
func (r *CanonicalRecord) Confirmed(label Label) bool {
	for _, l := range r.ConfirmedIn {
		if l == label {
			return true
		}
	}
	return false
}
