package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newDeleteCmd())
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <path>",
		Short: "Delete a path and every descendant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(args[0])
		},
	}
}

func runDelete(path string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	printVerbose("Deleting %s\n", path)
	if err := s.Delete(path, noAuth); err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}

	if jsonOut {
		return printJSON(map[string]any{"path": path, "success": true})
	}
	printInfo("Deleted %s\n", path)
	return nil
}
