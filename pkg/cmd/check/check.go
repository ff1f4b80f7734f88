package check

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/m3urel/internal/state"
	cmdpkg "github.com/Paintersrp/m3urel/pkg/cmd"
)

func NewCmdCheck(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [playlist]",
		Short: "List the playlist entries that would be dropped.",
		Long: heredoc.Doc(`
			Resolves every entry of the playlist without modifying it and lists the
			entries that cannot be matched, with the line they appear on and why.

			Example:
			  m3urel check --depth 2 /path/to/playlist.m3u
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmdpkg.ResolvePlaylistPath(cmd, s, args)
			if err != nil {
				return err
			}

			res, err := s.Relativizer.Check(path, s.Options())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, miss := range res.Report.Misses {
				fmt.Fprintf(out, "line %d: %s (%s)\n", miss.Line, miss.Ref, miss.Reason)
			}
			fmt.Fprintf(
				out,
				"%d resolved, %d dropped\n",
				res.Report.Resolved,
				res.Report.Dropped(),
			)
			return nil
		},
	}

	return cmd
}
