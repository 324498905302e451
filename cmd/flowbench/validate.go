package main

import (
	"github.com/aretw0/flowbench/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flow...]",
	Short: "Check flows without running them",
	Long: `Builds the graph of each flow, checks the token shapes between connected actors
and sets every actor up and wraps it up again. Without arguments every flow of the
directory is checked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Validate(ctx, commonOptions(cmd), args)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
