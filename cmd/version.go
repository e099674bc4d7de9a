package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/dcc/internal/core"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dcc %s (%s) built %s\n", appVersion, appCommit, appDate)
		fmt.Fprintf(cmd.OutOrStdout(), "platform %s\n", core.PlatformString())
	},
}
