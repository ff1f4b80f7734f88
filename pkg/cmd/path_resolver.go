package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Paintersrp/m3urel/internal/fzf"
	"github.com/Paintersrp/m3urel/internal/logging"
	"github.com/Paintersrp/m3urel/internal/state"
)

var ErrPathRequired = errors.New("a playlist path argument is required")

// Replaced in tests.
var (
	isInteractive = func() bool {
		return logging.IsTerminal(os.Stdin) && logging.IsTerminal(os.Stdout)
	}
	pickPlaylist = func(root string, exts []string) (string, error) {
		return fzf.NewPlaylistFinder(root, exts, "Select a playlist to relativize").Run()
	}
)

// ResolvePlaylistPath returns the absolute path of the playlist named by
// args. Without an argument the user picks one below the working directory
// when running in a terminal.
func ResolvePlaylistPath(cmd *cobra.Command, s *state.State, args []string) (string, error) {
	if s == nil || s.Config == nil {
		return "", fmt.Errorf("state configuration is not initialized")
	}

	if len(args) > 0 && args[0] != "" {
		abs, err := filepath.Abs(filepath.Clean(args[0]))
		if err != nil {
			return "", fmt.Errorf("failed to resolve playlist path %q: %w", args[0], err)
		}
		return abs, nil
	}

	if !isInteractive() {
		if cmd != nil {
			_ = cmd.Help()
		}
		return "", ErrPathRequired
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to read working directory: %w", err)
	}
	return pickPlaylist(cwd, s.Config.PlaylistExtensions)
}
