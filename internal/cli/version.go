package cli

import (
	"fmt"
	"runtime"

	"github.com/plaid-labs/plaid-vision/internal/build"
	"github.com/plaid-labs/plaid-vision/internal/vision"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display version, commit, build date, schema version and Go version information for plaid-vision",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			suffix := ""
			if build.IsDevBuild() {
				suffix = " (development build)"
			}
			fmt.Fprintf(out, "plaid-vision version %s%s\n", build.Version, suffix)
			fmt.Fprintf(out, "Built from commit: %s\n", build.Commit)
			fmt.Fprintf(out, "Build date: %s\n", build.BuildDate)
			fmt.Fprintf(out, "Schema version: %s\n", vision.CurrentVersion)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
		},
	}
}
