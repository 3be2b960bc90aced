package match

import (
	"strings"

	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/normalize"
)

// Structured selects intrusion-set objects matching any of the expanded
// terms and maps them into intermediate records. Deprecated objects and
// objects of other types are skipped. Terms must already be lower-cased.
func Structured(label intel.Label, objects []intel.StructuredObject, terms []string) []intel.Record {
	records := make([]intel.Record, 0)
	for _, obj := range objects {
		if obj.Type != IntrusionSetType || obj.Deprecated {
			continue
		}

		blob := strings.ToLower(obj.Name + " " + obj.Description + " " + strings.Join(obj.Aliases, " "))
		if !containsAny(blob, terms) {
			continue
		}

		key := normalize.Key(obj.Name)
		if key == "" {
			// A record without a usable name has no reconciliation
			// identity; drop it here rather than downstream.
			continue
		}

		externalID, refURL := authorityRef(obj.ExternalReferences)

		aliases := obj.Aliases
		if aliases == nil {
			aliases = []string{}
		}

		records = append(records, intel.Record{
			SourceLabel:   label,
			DisplayName:   obj.Name,
			NormalizedKey: key,
			Aliases:       aliases,
			DetailText:    Snippet(obj.Description),
			ExternalID:    externalID,
			ReferenceURL:  refURL,
			RegionTag:     GlobalRegion,
		})
	}
	return records
}

// authorityRef finds the curated authority entry in a reference list and
// derives the public group URL from its ID. Without such an entry the
// record gets the "not available" sentinel and a placeholder link.
func authorityRef(refs []intel.ExternalReference) (string, string) {
	for _, ref := range refs {
		if ref.SourceName != AuthorityName {
			continue
		}
		id := ref.ExternalID
		if id == "" {
			id = NoExternalID
		}
		return id, authorityURLPrefix + id + "/"
	}
	return NoExternalID, PlaceholderURL
}
