// Package output renders search results for the CLI: human tables on a
// terminal, JSON or YAML for pipes and files.
package output

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"

	"github.com/threatscope/threatscope/pkg/errors"
)

// Format selects an output rendering.
type Format string

// Supported formats.
const (
	// FormatTable renders a compact human-readable table.
	FormatTable Format = "table"
	// FormatWide renders the table with alias, link, and detail columns.
	FormatWide Format = "wide"
	// FormatJSON renders the full report envelope as JSON.
	FormatJSON Format = "json"
	// FormatYAML renders the full report envelope as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(s))
	switch format {
	case FormatTable, FormatWide, FormatJSON, FormatYAML, "":
		return format, nil
	default:
		return "", &errors.ValidationError{
			Field:   "output",
			Value:   s,
			Message: "must be one of: table, wide, json, yaml",
		}
	}
}

// DetectFormat resolves the effective format: an explicit choice wins,
// otherwise terminals get a table and pipes get JSON.
func DetectFormat(explicit Format) Format {
	if explicit != "" {
		return explicit
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}
	return FormatJSON
}

// Formatter renders one value to a writer.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates the formatter for a format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter renders indented JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter renders YAML.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// TableFormatter renders Data as an ASCII table.
type TableFormatter struct{}

// Format implements Formatter. Non-Data values fall back to JSON, so a
// command never silently drops output it has no table shape for.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	tableData, ok := data.(Data)
	if !ok {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}

	table := tablewriter.NewTable(w)

	headers := make([]any, len(tableData.Headers))
	for i, h := range tableData.Headers {
		headers[i] = h
	}
	table.Header(headers...)

	for _, row := range tableData.Rows {
		cells := make([]any, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		if err := table.Append(cells...); err != nil {
			return err
		}
	}

	return table.Render()
}

// Data is a rendered table: headers plus string rows.
type Data struct {
	Headers []string
	Rows    [][]string
}
