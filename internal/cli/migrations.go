package cli

import (
	"fmt"
	"unicode/utf8"

	"github.com/plaid-labs/plaid-vision/internal/migration"
	"github.com/plaid-labs/plaid-vision/internal/vision"
	"github.com/spf13/cobra"
)

func newMigrationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrations",
		Short: "List the registered schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := migration.Default()
			if err != nil {
				return fail(cmd, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current schema version: %s\n\n", vision.CurrentVersion)

			steps := registry.Migrations()
			if len(steps) == 0 {
				fmt.Fprintln(out, "No migrations registered.")
				return nil
			}

			width := 0
			for _, m := range steps {
				width = max(width, utf8.RuneCountInString(m.Transition()))
			}
			for _, m := range steps {
				fmt.Fprintf(out, "%-*s  %s\n", width, m.Transition(), m.Description)
			}
			return nil
		},
	}
}
