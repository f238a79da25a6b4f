package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pathkv/pathkv/pkg/store"
	"github.com/pathkv/pathkv/pkg/types"
)

var (
	// Global flags
	verbose bool
	quiet   bool
	jsonOut bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "pathkvctl",
	Short: "Inspect and manipulate a pathkv data directory",
	Long: `pathkvctl is a tool for inspecting and modifying a pathkv embedded
key/value store: getting and setting path-addressed values, listing
children, watching for changes, and exporting or diffing subtrees.`,
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "./pathkv-data", "pathkv data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore() (*store.Store, error) {
	return store.Open(dataDir, store.DefaultOptions())
}

func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var noAuth = types.AuthContext{}
