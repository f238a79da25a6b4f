package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pathkv/pathkv/pkg/types"
)

var watchChildren bool

func init() {
	cmd := newWatchCmd()
	cmd.Flags().BoolVar(&watchChildren, "children", true, "Also match descendants of path")
	rootCmd.AddCommand(cmd)
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <path>",
		Short: "Print change/delete events under a path until interrupted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0])
		},
	}
}

func runWatch(path string) error {
	s, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	sub := s.Subscribe(path, watchChildren, func(ev types.Event) {
		if jsonOut {
			_ = printJSON(map[string]any{
				"type": ev.Type.String(),
				"path": ev.Path,
			})
			return
		}
		printInfo("[%s] %s\n", ev.Type, ev.Path)
	})
	defer s.Unsubscribe(sub)

	printInfo("Watching %s (ctrl-C to stop)\n", path)
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
