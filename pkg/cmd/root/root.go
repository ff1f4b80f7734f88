package root

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/m3urel/internal/constants"
	"github.com/Paintersrp/m3urel/internal/state"
	cmdpkg "github.com/Paintersrp/m3urel/pkg/cmd"
	"github.com/Paintersrp/m3urel/pkg/cmd/check"
	"github.com/Paintersrp/m3urel/pkg/cmd/index"
	"github.com/Paintersrp/m3urel/pkg/flags"
)

func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     constants.AppName + " [playlist]",
		Short:   "Relativize m3u playlist paths.",
		Version: constants.Version,
		Long: heredoc.Doc(`
			Rewrites the entries of an m3u playlist so that every media file is
			referenced relative to the playlist.

			The playlist's directory is scanned recursively and each entry is matched
			against the files found there by its last path segments. Entries that
			cannot be matched are dropped; comment lines are kept.

			Example:
			  m3urel --depth 2 ~/Music/favourites.m3u
		`),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.Resolve()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmdpkg.ResolvePlaylistPath(cmd, s, args)
			if err != nil {
				return err
			}

			dryRun, err := flags.HandleDryRun(cmd)
			if err != nil {
				return err
			}

			if dryRun {
				_, err = s.Relativizer.Preview(path, s.Options(), cmd.OutOrStdout())
				return err
			}
			_, err = s.Relativizer.Run(path, s.Options())
			return err
		},
	}

	flags.AddMatching(cmd, s.Viper)
	flags.AddDryRun(cmd)

	cmd.AddCommand(
		check.NewCmdCheck(s),
		index.NewCmdIndex(s),
	)

	return cmd, nil
}
