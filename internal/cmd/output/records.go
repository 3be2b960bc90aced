package output

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/report"
)

// detailColumnLimit keeps wide-table detail cells readable.
const detailColumnLimit = 80

// header turns a wire field name into a table header, so columns keep the
// exact vocabulary of the JSON report ("display_name" -> "Display Name").
func header(wireName string) string {
	caser := cases.Title(language.English)
	return caser.String(strings.ReplaceAll(wireName, "_", " "))
}

// RecordsToTableData converts ranked records into table rows. The wide
// variant adds aliases, the reference link, and a trimmed detail column.
func RecordsToTableData(records []intel.CanonicalRecord, wide bool) Data {
	headers := []string{
		header("display_name"),
		header("source_label"),
		header("confirmed_in"),
		header("external_id"),
		header("region_tag"),
	}
	if wide {
		headers = append(headers, header("aliases"), header("reference_url"), header("detail_text"))
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{
			rec.DisplayName,
			string(rec.SourceLabel),
			strconv.Itoa(len(rec.ConfirmedIn)),
			placeholder(rec.ExternalID),
			placeholder(rec.RegionTag),
		}
		if wide {
			row = append(row,
				placeholder(strings.Join(rec.Aliases, ", ")),
				placeholder(rec.ReferenceURL),
				placeholder(trimDetail(rec.DetailText)),
			)
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows}
}

// FormatReport writes a finished report in the requested format. Tables
// show just the records; JSON and YAML carry the whole envelope so a
// redirected run produces the same document a --save run persists.
func FormatReport(w io.Writer, format Format, rep *report.Report) error {
	formatter := NewFormatter(format)

	switch format {
	case FormatTable, FormatWide, "":
		return formatter.Format(w, RecordsToTableData(rep.Records, format == FormatWide))
	default:
		return formatter.Format(w, rep)
	}
}

func placeholder(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func trimDetail(s string) string {
	if len(s) > detailColumnLimit {
		return s[:detailColumnLimit-3] + "..."
	}
	return s
}
