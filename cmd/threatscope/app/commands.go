package app

import (
	"github.com/spf13/cobra"

	"github.com/threatscope/threatscope/cmd/threatscope/cmd/expand"
	"github.com/threatscope/threatscope/cmd/threatscope/cmd/feeds"
	"github.com/threatscope/threatscope/cmd/threatscope/cmd/search"
	"github.com/threatscope/threatscope/internal/cmd/output"
)

// Compile-time checks that App satisfies each command's context interface.
var (
	_ search.AppContext = (*App)(nil)
	_ expand.AppContext = (*App)(nil)
	_ feeds.AppContext  = (*App)(nil)
)

// CreateSearchCommand creates the search command with app dependencies.
func (a *App) CreateSearchCommand() *cobra.Command {
	return search.NewCommand(a)
}

// CreateExpandCommand creates the expand command with app dependencies.
func (a *App) CreateExpandCommand() *cobra.Command {
	return expand.NewCommand(a)
}

// CreateFeedsCommand creates the feeds command with app dependencies.
func (a *App) CreateFeedsCommand() *cobra.Command {
	return feeds.NewCommand(a)
}

// buildInfo is the machine-readable shape of the version command.
type buildInfo struct {
	Version string `json:"version"  yaml:"version"`
	Commit  string `json:"commit"   yaml:"commit"`
	Date    string `json:"date"     yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// CreateVersionCommand creates the version command.
func (a *App) CreateVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if requested := a.config.Output; requested != "" {
				format, err := output.ParseFormat(requested)
				if err != nil {
					return err
				}
				if format == output.FormatJSON || format == output.FormatYAML {
					return output.NewFormatter(format).Format(cmd.OutOrStdout(), buildInfo{
						Version: a.version,
						Commit:  a.commit,
						Date:    a.date,
						BuiltBy: a.builtBy,
					})
				}
			}

			cmd.Printf("threatscope %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
			return nil
		},
	}
}
