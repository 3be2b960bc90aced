package match

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/normalize"
)

// codeCell matches cells that read as bare row codes rather than names:
// an optional single letter followed by digits, like "T001" or "2015".
var codeCell = regexp.MustCompile(`^[A-Za-z]?[0-9]+$`)

// Tabular selects rows containing the raw search term and maps them into
// intermediate records. Row semantics are unknown, so no synonym
// expansion is applied here: expanded terms over free-text cells would
// inflate false positives.
func Tabular(label intel.Label, tab intel.Tab, term string) []intel.Record {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	records := make([]intel.Record, 0)
	for _, row := range tab.Rows {
		blob := strings.ToLower(strings.Join(row, " "))
		if !strings.Contains(blob, term) {
			continue
		}

		name := displayName(row)
		if name == "" {
			// Matched on free text but no cell reads as a name;
			// nothing usable to report.
			continue
		}

		key := normalize.Key(name)
		if key == "" {
			continue
		}

		records = append(records, intel.Record{
			SourceLabel:   label,
			DisplayName:   name,
			NormalizedKey: key,
			Aliases:       []string{},
			DetailText:    Snippet(joinCells(row)),
			ExternalID:    NoTabularID,
			ReferenceURL:  tab.EditURL,
			RegionTag:     tab.Name,
		})
	}
	return records
}

// displayName picks the first cell that reads as a name: non-empty,
// trimmed length over 2, and not a bare row code. Short codes and ID
// cells precede the real name column in the known spreadsheet layouts.
func displayName(row intel.Row) string {
	for _, cell := range row {
		cell = strings.TrimSpace(cell)
		if utf8.RuneCountInString(cell) <= 2 {
			continue
		}
		if codeCell.MatchString(cell) {
			continue
		}
		return cell
	}
	return ""
}

// joinCells pipe-joins the non-empty cells of a row.
func joinCells(row intel.Row) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		if trimmed := strings.TrimSpace(cell); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " | ")
}
