// Package synonyms expands sector keywords into equivalent search terms.
// The table is process-wide static configuration: resolved once at startup
// (defaults, optionally replaced from the config file) and injected as a
// read-only lookup, never mutated during a run.
package synonyms

import (
	"sort"
	"strings"
)

// Table maps a canonical sector keyword to related terms.
type Table struct {
	entries map[string][]string
}

// defaultEntries mirrors the sector vocabulary the search was built around.
var defaultEntries = map[string][]string{
	"healthcare":    {"hospital", "pharmaceutical", "clinic", "medical", "health care"},
	"finance":       {"banking", "financial", "insurance"},
	"energy":        {"energy", "oil", "gas", "utility"},
	"government":    {"government", "state", "public sector"},
	"telecom":       {"telecom", "communication", "isp"},
	"manufacturing": {"manufacturing", "industrial"},
}

// Default returns a table with the built-in sector vocabulary.
func Default() *Table {
	return New(defaultEntries)
}

// WithOverrides returns the built-in table with overrides applied: an
// override replaces that category's synonym list wholesale, an unknown
// category is added. Passing no overrides is equivalent to Default.
func WithOverrides(overrides map[string][]string) *Table {
	merged := make(map[string][]string, len(defaultEntries)+len(overrides))
	for key, terms := range defaultEntries {
		merged[key] = terms
	}
	for key, terms := range overrides {
		merged[strings.ToLower(key)] = terms
	}
	return New(merged)
}

// New builds a table from entries. Keys and terms are lower-cased and the
// input map is copied, so callers cannot mutate the table afterwards.
func New(entries map[string][]string) *Table {
	t := &Table{entries: make(map[string][]string, len(entries))}
	for key, terms := range entries {
		copied := make([]string, 0, len(terms))
		for _, term := range terms {
			copied = append(copied, strings.ToLower(term))
		}
		t.entries[strings.ToLower(key)] = copied
	}
	return t
}

// Expand returns the search terms for term: the lower-cased term itself,
// followed by its configured synonyms in table order, duplicates removed.
// Unknown terms expand to just themselves. The order is deterministic so
// logs and tests can rely on it; matching itself is order-insensitive.
func (t *Table) Expand(term string) []string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	expanded := []string{term}
	if t == nil || t.entries == nil {
		return expanded
	}

	seen := map[string]bool{term: true}
	for _, syn := range t.entries[term] {
		if seen[syn] {
			continue
		}
		seen[syn] = true
		expanded = append(expanded, syn)
	}
	return expanded
}

// Synonyms returns the configured synonyms for term without the term
// itself, for logging which extra words joined the search.
func (t *Table) Synonyms(term string) []string {
	if t == nil || t.entries == nil {
		return nil
	}
	return t.entries[strings.ToLower(strings.TrimSpace(term))]
}

// Categories returns the table's keys, sorted for stable display.
func (t *Table) Categories() []string {
	if t == nil || t.entries == nil {
		return nil
	}
	keys := make([]string, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
