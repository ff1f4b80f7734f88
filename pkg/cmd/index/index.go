package index

import (
	"fmt"
	"io"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/m3urel/internal/state"
	"github.com/Paintersrp/m3urel/pkg/flags"
)

type entryDump struct {
	Key  string `yaml:"key"`
	Path string `yaml:"path"`
}

type collisionDump struct {
	Key      string `yaml:"key"`
	Replaced string `yaml:"replaced"`
	Kept     string `yaml:"kept"`
}

type mapDump struct {
	Root            string          `yaml:"root"`
	Depth           int             `yaml:"depth"`
	IgnoreExtension bool            `yaml:"ignore_extension"`
	Entries         []entryDump     `yaml:"entries"`
	Collisions      []collisionDump `yaml:"collisions,omitempty"`
}

func NewCmdIndex(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index [dir]",
		Short: "Print the lookup keys of the files below a directory.",
		Long: heredoc.Doc(`
			Scans a directory (the working directory by default) the same way a
			playlist's directory is scanned and prints every key with the file it
			resolves to. Keys claimed by several files are reported as collisions.

			Example:
			  m3urel index --depth 2 --format yaml ~/Music
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := flags.HandleFormat(cmd)
			if err != nil {
				return err
			}

			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			opts := s.Options()
			m, err := s.Relativizer.Index(root, opts)
			if err != nil {
				return err
			}

			dump := mapDump{
				Root:            m.Root(),
				Depth:           opts.Depth,
				IgnoreExtension: !opts.StrictExtension,
			}
			for _, e := range m.Entries() {
				dump.Entries = append(dump.Entries, entryDump{Key: e.Key.String(), Path: e.Path})
			}
			for _, c := range m.Collisions() {
				dump.Collisions = append(dump.Collisions, collisionDump{
					Key:      c.Key.String(),
					Replaced: c.Replaced,
					Kept:     c.Kept,
				})
			}

			if format == "yaml" {
				return writeYAML(cmd.OutOrStdout(), dump)
			}
			return writePlain(cmd.OutOrStdout(), dump)
		},
	}

	flags.AddFormat(cmd)

	return cmd
}

func writeYAML(w io.Writer, dump mapDump) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(dump); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	return enc.Close()
}

func writePlain(w io.Writer, dump mapDump) error {
	for _, e := range dump.Entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Path); err != nil {
			return err
		}
	}
	for _, c := range dump.Collisions {
		if _, err := fmt.Fprintf(w, "collision %s: %s replaced by %s\n", c.Key, c.Replaced, c.Kept); err != nil {
			return err
		}
	}
	return nil
}
