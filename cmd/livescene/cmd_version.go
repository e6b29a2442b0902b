package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// no config needed
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "livescene version %s\n", version)

			info, ok := debug.ReadBuildInfo()
			if !ok {
				return
			}
			revision := commit
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" && revision == "unknown" {
					revision = setting.Value
				}
			}
			if len(revision) > 12 {
				revision = revision[:12]
			}
			fmt.Fprintf(out, "commit: %s\n", revision)
			if date != "unknown" {
				fmt.Fprintf(out, "built: %s\n", date)
			}
			fmt.Fprintf(out, "go: %s\n", info.GoVersion)
		},
	}
}
