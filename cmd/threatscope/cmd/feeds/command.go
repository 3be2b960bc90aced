// Package feeds implements the feeds command: show which intelligence
// feeds a search would query and how they are ranked.
package feeds

import (
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/threatscope/threatscope/internal/cmd/output"
	"github.com/threatscope/threatscope/internal/feeds/attack"
	"github.com/threatscope/threatscope/internal/feeds/sheets"
	"github.com/threatscope/threatscope/pkg/intel"
)

// AppContext defines the interface that the feeds command needs from the app.
type AppContext interface {
	Logger() *zerolog.Logger
	AttackVersion() string
	Sheet() sheets.Spreadsheet
	OutputFormat() string
}

// feedInfo is the machine-readable shape of one configured feed.
type feedInfo struct {
	Feed     string `json:"feed"     yaml:"feed"`
	Label    string `json:"label"    yaml:"label"`
	Priority int    `json:"priority" yaml:"priority"`
	Detail   string `json:"detail"   yaml:"detail"`
	URL      string `json:"url"      yaml:"url"`
}

// NewCommand creates the feeds command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:     "feeds",
		GroupID: "core",
		Short:   "List the configured intelligence feeds",
		Long: `Feeds lists every source a search would query: the ATT&CK release,
the tracking spreadsheet, and its per-region tabs. Lower priority
numbers win identity conflicts during reconciliation.`,
		Example: `  threatscope feeds
  threatscope feeds -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app)
		},
	}
}

func run(cmd *cobra.Command, app AppContext) error {
	infos := configuredFeeds(app)
	app.Logger().Debug().Int("feeds", len(infos)).Msg("listing configured feeds")

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
		return output.NewFormatter(format).Format(cmd.OutOrStdout(), infos)
	default:
		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{
				info.Feed, info.Label, strconv.Itoa(info.Priority), info.Detail, info.URL,
			})
		}
		return output.NewFormatter(output.FormatTable).Format(cmd.OutOrStdout(), output.Data{
			Headers: []string{"Feed", "Label", "Priority", "Detail", "Url"},
			Rows:    rows,
		})
	}
}

// configuredFeeds builds the feed listing from the app configuration.
func configuredFeeds(app AppContext) []feedInfo {
	version := app.AttackVersion()
	infos := []feedInfo{
		{
			Feed:     attack.FeedName,
			Label:    string(intel.LabelMITRE),
			Priority: 0,
			Detail:   "enterprise bundle v" + version,
			URL:      attack.BundleURL(version),
		},
	}

	sheet := app.Sheet()
	for _, tab := range sheet.Tabs {
		infos = append(infos, feedInfo{
			Feed:     sheets.FeedName,
			Label:    string(intel.LabelSheet),
			Priority: sheets.TabPriority,
			Detail:   "tab " + tab.Name,
			URL:      sheets.EditURL(sheet.ID, tab.GID),
		})
	}
	return infos
}
