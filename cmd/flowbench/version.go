package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/flowbench"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of flowbench",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flowbench version %s\n", strings.TrimSpace(flowbench.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
