package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathkv/pathkv/internal/value"
)

func init() {
	rootCmd.AddCommand(newGetCmd())
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "Get the value stored at a path",
		Long: `The get command reconstructs and prints the value rooted at path.

Example:
  pathkvctl get /users/1
  pathkvctl get /users/1/name`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(args[0])
		},
	}
}

func runGet(path string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	printVerbose("Getting %s\n", path)
	v, err := s.Get(path, noAuth)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}

	raw, err := value.MarshalJSON(v)
	if err != nil {
		return err
	}
	printInfo("%s\n", raw)
	return nil
}
