package flags

import (
	"fmt"

	"github.com/spf13/cobra"
)

var formats = []string{"plain", "yaml"}

func AddDryRun(cmd *cobra.Command) {
	cmd.Flags().
		BoolP(
			"dry-run",
			"n",
			false,
			"Print the rewritten playlist instead of replacing the file",
		)
}

func HandleDryRun(cmd *cobra.Command) (bool, error) {
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return false, fmt.Errorf("error retrieving dry-run flag: %w", err)
	}
	return dryRun, nil
}

func AddFormat(cmd *cobra.Command) {
	cmd.Flags().
		StringP(
			"format",
			"f",
			"plain",
			"Output format: plain or yaml",
		)
}

func HandleFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("error retrieving format flag: %w", err)
	}
	for _, f := range formats {
		if f == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("invalid format: %q. Please choose from 'plain' or 'yaml'.", format)
}
