// Package search implements the search command: query every configured
// feed for a keyword and print the reconciled, ranked report.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/threatscope/threatscope"
	"github.com/threatscope/threatscope/internal/cmd/output"
	"github.com/threatscope/threatscope/internal/feeds/attack"
	"github.com/threatscope/threatscope/internal/feeds/sheets"
	"github.com/threatscope/threatscope/internal/storage"
	"github.com/threatscope/threatscope/pkg/errors"
	"github.com/threatscope/threatscope/pkg/intel"
	"github.com/threatscope/threatscope/pkg/logging"
	"github.com/threatscope/threatscope/pkg/report"
	"github.com/threatscope/threatscope/pkg/synonyms"
)

// AppContext defines the interface that the search command needs from the app.
// This allows for better testability and decoupling from the full app.
type AppContext interface {
	Logger() *zerolog.Logger
	AttackClient() *attack.Client
	SheetsClient() *sheets.Client
	AttackVersion() string
	Sheet() sheets.Spreadsheet
	Synonyms() *synonyms.Table
	StorageConfig() storage.Config
	OutputFormat() string
}

// NewCommand creates the search command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "search <keyword>",
		GroupID: "core",
		Short:   "Search threat intelligence feeds for matching groups",
		Long: `Search queries the MITRE ATT&CK intrusion-set catalog and the
configured tracking spreadsheet for groups matching a keyword.

The keyword is expanded with sector synonyms before matching the
structured catalog (searching "healthcare" also tries "hospital",
"medical", and so on). Spreadsheet tabs are matched on the raw keyword
only. Groups found in more than one feed rank above single-feed hits.

A feed that cannot be reached is skipped with a warning; the search
fails only when no feed at all is available.`,
		Example: `  threatscope search healthcare                 # Search all feeds
  threatscope search energy -o json             # Machine-readable report
  threatscope search telecom --attack-version 17.0
  threatscope search finance --tabs China,Russia
  threatscope search defense --save --store s3  # Archive the report`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0])
		},
	}

	cmd.Flags().String("attack-version", "", "ATT&CK release to search (defaults to configured version)")
	cmd.Flags().String("sheet", "", "tracking spreadsheet ID (defaults to configured sheet)")
	cmd.Flags().StringSlice("tabs", nil, "restrict the spreadsheet search to the named tabs")
	cmd.Flags().Bool("skip-sheet", false, "search the ATT&CK catalog only")
	cmd.Flags().Bool("skip-attack", false, "search the tracking spreadsheet only")
	cmd.Flags().Bool("save", false, "persist the report to configured storage")
	cmd.Flags().String("store", "", "storage backend override: local or s3")
	cmd.Flags().String("out", "", "directory for locally saved reports")

	return cmd
}

// run executes the full pipeline: collect sources, search, print, persist.
func run(cmd *cobra.Command, app AppContext, keyword string) error {
	log := app.Logger()
	ctx := logging.WithLogger(cmd.Context(), log)
	ctx = logging.WithKeyword(ctx, keyword)

	version := mustGetString(cmd, "attack-version")
	if version == "" {
		version = app.AttackVersion()
	}

	sources, err := collectSources(ctx, cmd, app, version)
	if err != nil {
		return err
	}

	records, err := threatscope.Search(keyword, sources,
		threatscope.WithSynonyms(app.Synonyms()),
		threatscope.WithLogger(log),
	)
	if err != nil {
		return err
	}

	rep := report.New(keyword, version, records)
	if err := printReport(cmd, app, rep); err != nil {
		return err
	}

	// An empty report is a legitimate answer, not a failure. Say so on
	// stderr where it cannot corrupt piped output.
	if len(records) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(),
			"No threat groups matched %q in any feed.\nCheck the spelling, or try an English sector keyword ('threatscope expand' lists them).\n",
			keyword)
	}

	if mustGetBool(cmd, "save") {
		return saveReport(ctx, cmd, app, rep)
	}
	return nil
}

// collectSources gathers every reachable feed. Feed outages degrade the
// search instead of failing it; only a search with zero reachable feeds
// (or an ATT&CK version that does not exist) is an error.
func collectSources(ctx context.Context, cmd *cobra.Command, app AppContext, version string) ([]intel.Source, error) {
	log := logging.FromContext(ctx)

	skipAttack := mustGetBool(cmd, "skip-attack")
	skipSheet := mustGetBool(cmd, "skip-sheet")
	if skipAttack && skipSheet {
		return nil, &errors.ValidationError{
			Field:   "flags",
			Message: "--skip-attack and --skip-sheet together leave nothing to search",
		}
	}

	var sources []intel.Source

	if !skipAttack {
		src, err := app.AttackClient().Source(ctx, version)
		switch {
		case err == nil:
			sources = append(sources, src)
		case errors.IsVersionNotFound(err):
			// A release that does not exist is operator error, not an outage.
			return nil, err
		default:
			log.Warn().Err(err).Msg("ATT&CK feed unavailable, continuing without it")
		}
	}

	if !skipSheet {
		sheet := app.Sheet()
		if id := mustGetString(cmd, "sheet"); id != "" {
			sheet.ID = id
		}
		if tabs := mustGetStringSlice(cmd, "tabs"); len(tabs) > 0 {
			sheet.Tabs = filterTabs(sheet.Tabs, tabs)
		}
		sources = append(sources, app.SheetsClient().Sources(ctx, sheet)...)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no feed could be reached: %w", errors.ErrFeedUnavailable)
	}
	return sources, nil
}

// printReport renders the report in the requested (or detected) format.
func printReport(cmd *cobra.Command, app AppContext, rep *report.Report) error {
	var format output.Format
	if requested := app.OutputFormat(); requested != "" {
		parsed, err := output.ParseFormat(requested)
		if err != nil {
			return err
		}
		format = parsed
	}
	return output.FormatReport(cmd.OutOrStdout(), output.DetectFormat(format), rep)
}

// saveReport persists the JSON report envelope to the configured backend.
func saveReport(ctx context.Context, cmd *cobra.Command, app AppContext, rep *report.Report) error {
	cfg := app.StorageConfig()
	if backend := mustGetString(cmd, "store"); backend != "" {
		cfg.Type = storage.Type(backend)
	}
	if dir := mustGetString(cmd, "out"); dir != "" {
		cfg.LocalDir = dir
	}

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return err
	}

	data, err := rep.JSON()
	if err != nil {
		return err
	}

	location, err := store.Save(ctx, rep.Filename(), data)
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Info().Str("location", location).Msg("report saved")
	fmt.Fprintf(cmd.ErrOrStderr(), "Report saved to %s\n", location)
	return nil
}

// filterTabs keeps only the tabs whose names the operator asked for,
// matched case-insensitively.
func filterTabs(tabs []sheets.TabConfig, names []string) []sheets.TabConfig {
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[strings.ToLower(strings.TrimSpace(name))] = true
	}

	kept := make([]sheets.TabConfig, 0, len(tabs))
	for _, tab := range tabs {
		if want[strings.ToLower(tab.Name)] {
			kept = append(kept, tab)
		}
	}
	return kept
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetStringSlice retrieves a string-slice flag value or panics if the flag doesn't exist.
func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
