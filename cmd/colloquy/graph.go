package main

import (
	"github.com/aretw0/colloquy/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [conversation]",
	Short: "Export a conversation as a Mermaid diagram",
	Long: `Compiles a conversation and prints a Mermaid flowchart (graph TD). With
--execution, the visited and current nodes of a saved execution are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		execution, _ := cmd.Flags().GetString("execution")
		var conversation string
		if len(args) > 0 {
			conversation = args[0]
		}
		return cli.Graph(cmd.Context(), app, conversation, execution, cmd.OutOrStdout())
	},
}

func init() {
	graphCmd.Flags().String("execution", "", "Overlay the progress of a saved execution")
	rootCmd.AddCommand(graphCmd)
}
