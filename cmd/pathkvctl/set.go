package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathkv/pathkv/internal/value"
)

func init() {
	rootCmd.AddCommand(newSetCmd())
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <path> <json-value>",
		Short: "Set a path to a JSON-literal value",
		Long: `The set command writes json-value at path, decomposing any compound
(object/array) value into one backing-store entry per primitive leaf.

Example:
  pathkvctl set /users/1 '{"name":"Alice","age":30}'
  pathkvctl set /users/1/age 31
  pathkvctl set /tags '["a","b","c"]'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args[0], args[1])
		},
	}
}

func runSet(path, raw string) error {
	v, err := value.ParseJSON([]byte(raw))
	if err != nil {
		return fmt.Errorf("parse value: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	printVerbose("Setting %s\n", path)
	if err := s.Set(path, v, noAuth); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	if jsonOut {
		return printJSON(map[string]any{"path": path, "success": true})
	}
	printInfo("Set %s\n", path)
	return nil
}
