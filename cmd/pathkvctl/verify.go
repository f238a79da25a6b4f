package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Report structural irregularities in the backing store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify()
		},
	}
}

func runVerify() error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	diags, err := s.Verify()
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}

	if jsonOut {
		return printJSON(diags)
	}
	if len(diags) == 0 {
		printInfo("No irregularities found\n")
		return nil
	}
	for _, d := range diags {
		printInfo("%s: %s\n", d.Key, d.Note)
	}
	return nil
}
