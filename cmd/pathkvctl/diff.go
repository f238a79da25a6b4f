package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathkv/pathkv/internal/value"
)

func init() {
	rootCmd.AddCommand(newDiffCmd())
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff <old-path> <new-path>",
		Short: "Structurally diff two subtrees",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(args[0], args[1])
		},
	}
}

func runDiff(oldPath, newPath string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	entries, err := s.Diff(oldPath, newPath, noAuth)
	if err != nil {
		return fmt.Errorf("diff %s %s: %w", oldPath, newPath, err)
	}

	if jsonOut {
		type jsonEntry struct {
			Path   string `json:"path"`
			Status string `json:"status"`
			Old    any    `json:"old,omitempty"`
			New    any    `json:"new,omitempty"`
		}
		out := make([]jsonEntry, len(entries))
		for i, e := range entries {
			out[i] = jsonEntry{Path: e.Path, Status: e.Status.String(), Old: value.ToJSON(e.Old), New: value.ToJSON(e.New)}
		}
		return printJSON(out)
	}

	for _, e := range entries {
		printInfo("%s %s\n", e.Status, e.Path)
	}
	return nil
}
