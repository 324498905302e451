package main

import (
	"github.com/aretw0/flowbench/internal/cli"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <flow>",
	Short: "Describe the actors of a flow",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Inspect(ctx, commonOptions(cmd), args[0], format)
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph <flow>",
	Short: "Export the flow graph as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph LR) of the flow.
With --run the flow is executed first and activated or failed actors are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, _ := cmd.Flags().GetBool("run")
		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()
		return cli.Graph(ctx, commonOptions(cmd), args[0], run)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringP("format", "f", cli.FormatMarkdown, "Output format: markdown, mermaid or json")

	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("run", false, "Run the flow and overlay the activations")
}
