package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathkv/pathkv/internal/value"
)

var exportOut string

func init() {
	cmd := newExportCmd()
	cmd.Flags().StringVar(&exportOut, "out", "", "Write to this file instead of stdout")
	rootCmd.AddCommand(cmd)
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the subtree rooted at path as JSON",
		Long: `The export command reconstructs the subtree at path and writes it as
indented JSON, mirroring a registry-export workflow but targeting JSON
instead of .reg text.

Example:
  pathkvctl export / --out snapshot.json
  pathkvctl export /users/1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0])
		},
	}
}

func runExport(path string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	v, err := s.Get(path, noAuth)
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	raw, err := value.MarshalJSON(v)
	if err != nil {
		return err
	}

	if exportOut == "" {
		printInfo("%s\n", raw)
		return nil
	}
	if err := os.WriteFile(exportOut, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	printInfo("Exported %s to %s\n", path, exportOut)
	return nil
}
