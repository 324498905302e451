package main

import (
	"github.com/aretw0/flowbench/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <flow>",
	Short: "Run a flow",
	Long: `Runs a flow of the directory by name, or a flow file by path, and prints a report.
With --watch the flow runs again whenever a definition file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := commonOptions(cmd)
		watch, _ := cmd.Flags().GetBool("watch")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if watch {
			return cli.Watch(ctx, opts, args[0])
		}
		return cli.Run(ctx, opts, args[0])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("watch", "w", false, "Run again on every change of the flow directory")
}
