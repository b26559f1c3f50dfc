package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"msts/internal/version"
)

// newVersionCommand 显示版本信息
func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show detailed version information including build time and git commit.

Example:
  msts version`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "MSTS %s\n", version.GetVersion())
			fmt.Fprintln(w, "Minecraft Status Tracking Server")
		},
	}
}
