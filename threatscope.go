// Package threatscope aggregates threat-group intelligence from multiple
// feeds. A search expands the keyword through a synonym table, matches it
// against every source, reconciles the per-source hits into canonical
// records keyed by normalized name, and ranks the result by how many
// sources corroborate each group.
package threatscope

import (
	"strings"

	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/match"
	"github.com/threatscope/threatscope/pkg/reconcile"
)

// Search runs the full pipeline for one keyword over the given sources.
//
// Structured sources are matched against every expanded term; tabular
// sources see only the raw keyword, since free-text rows would inflate
// false positives under synonym expansion. Sources fold in priority order
// regardless of their position in the slice. A source that contributed no
// records (unreachable feed, no hits) simply adds nothing; it never
// blocks the others.
//
// The returned records are ranked: most-corroborated first, stable beyond
// that. An empty result is a valid outcome, not an error; Search fails only
// on a blank keyword or a misconfigured option.
func Search(keyword string, sources []intel.Source, opts ...Option) ([]intel.CanonicalRecord, error) {
	cfg := defaultConfig()
	if err := cfg.apply(opts...); err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(keyword))
	if term == "" {
		return nil, &errors.ValidationError{
			Field:   "keyword",
			Value:   keyword,
			Message: "search keyword must not be empty",
		}
	}

	terms := cfg.table.Expand(term)
	cfg.logger.Debug().
		Str("keyword", term).
		Strs("terms", terms).
		Msg("expanded search terms")

	inputs := make([]reconcile.Input, 0, len(sources))
	for _, src := range sources {
		records := matchSource(src, terms, term)
		cfg.logger.Debug().
			Str("source", string(src.Label)).
			Int("priority", src.Priority).
			Int("matches", len(records)).
			Msg("matched source")
		inputs = append(inputs, reconcile.Input{Priority: src.Priority, Records: records})
	}

	return reconcile.Rank(reconcile.Merge(inputs)), nil
}

// matchSource dispatches to the matcher variant for the source kind.
func matchSource(src intel.Source, terms []string, raw string) []intel.Record {
	switch src.Kind {
	case intel.KindStructured:
		return match.Structured(src.Label, src.Objects, terms)
	case intel.KindTabular:
		return match.Tabular(src.Label, src.Tab, raw)
	default:
		return nil
	}
}
