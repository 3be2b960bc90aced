// Package expand implements the expand command: show how a keyword is
// widened with sector synonyms before it hits the structured catalog.
package expand

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/threatscope/threatscope/internal/cmd/output"
	"github.com/threatscope/threatscope/pkg/synonyms"
)

// AppContext defines the interface that the expand command needs from the app.
type AppContext interface {
	Logger() *zerolog.Logger
	Synonyms() *synonyms.Table
	OutputFormat() string
}

// expansion is the machine-readable shape of one expanded keyword.
type expansion struct {
	Term          string   `json:"term"           yaml:"term"`
	ExpandedTerms []string `json:"expanded_terms" yaml:"expanded_terms"`
}

// category is the machine-readable shape of one synonym group.
type category struct {
	Category string   `json:"category" yaml:"category"`
	Synonyms []string `json:"synonyms" yaml:"synonyms"`
}

// NewCommand creates the expand command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "expand [term]",
		GroupID: "core",
		Short:   "Show the synonym expansion of a search term",
		Long: `Expand shows the terms a keyword is widened to before matching the
structured catalog. Without a term it lists every configured synonym
category (the built-in vocabulary plus any overrides from the config
file).

Spreadsheet tabs never see the expansion; they are matched on the raw
keyword only.`,
		Example: `  threatscope expand healthcare   # hospital, medical, ...
  threatscope expand              # List all synonym categories
  threatscope expand energy -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table := app.Synonyms()
			if len(args) == 0 {
				return listCategories(cmd, app, table)
			}
			return expandTerm(cmd, app, table, args[0])
		},
	}
}

// expandTerm prints the expansion of one term.
func expandTerm(cmd *cobra.Command, app AppContext, table *synonyms.Table, term string) error {
	terms := table.Expand(term)
	app.Logger().Debug().Str("term", term).Strs("expanded", terms).Msg("expanded term")

	rows := make([][]string, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, []string{t})
	}

	return render(cmd, app,
		output.Data{Headers: []string{"Search Term"}, Rows: rows},
		expansion{Term: term, ExpandedTerms: terms},
	)
}

// listCategories prints every synonym category the table knows.
func listCategories(cmd *cobra.Command, app AppContext, table *synonyms.Table) error {
	categories := table.Categories()

	rows := make([][]string, 0, len(categories))
	envelope := make([]category, 0, len(categories))
	for _, name := range categories {
		syns := table.Synonyms(name)
		rows = append(rows, []string{name, strings.Join(syns, ", ")})
		envelope = append(envelope, category{Category: name, Synonyms: syns})
	}

	return render(cmd, app,
		output.Data{Headers: []string{"Category", "Synonyms"}, Rows: rows},
		envelope,
	)
}

// render writes either the tabular or the machine-readable shape,
// depending on the requested format.
func render(cmd *cobra.Command, app AppContext, table output.Data, envelope any) error {
	format := output.FormatTable
	if requested := app.OutputFormat(); requested != "" {
		parsed, err := output.ParseFormat(requested)
		if err != nil {
			return err
		}
		format = parsed
	}

	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), envelope)
	default:
		return output.NewFormatter(output.FormatTable).Format(cmd.OutOrStdout(), table)
	}
}
