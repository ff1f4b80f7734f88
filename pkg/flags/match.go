package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/m3urel/internal/config"
	"github.com/Paintersrp/m3urel/internal/constants"
)

// AddMatching registers the matching flags on cmd and its children and binds
// them to v, where they take precedence over the environment and the config
// file.
func AddMatching(cmd *cobra.Command, v *viper.Viper) {
	fs := cmd.PersistentFlags()
	fs.IntP(
		"depth",
		"d",
		constants.DefaultDepth,
		"number of ending path segments to match",
	)
	fs.BoolP(
		"strict",
		"s",
		false,
		"treat file extensions as significant when matching",
	)
	fs.Bool(
		"follow-symlinks",
		true,
		"descend into symlinked directories while indexing",
	)
	fs.String(
		"log-level",
		"info",
		"log verbosity: debug, info, warn or error",
	)

	_ = v.BindPFlag(config.KeyDepth, fs.Lookup("depth"))
	_ = v.BindPFlag(config.KeyStrictExtension, fs.Lookup("strict"))
	_ = v.BindPFlag(config.KeyFollowSymlinks, fs.Lookup("follow-symlinks"))
	_ = v.BindPFlag(config.KeyLogLevel, fs.Lookup("log-level"))
}
