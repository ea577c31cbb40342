package main

import (
	"github.com/aretw0/colloquy/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check conversations for consistency",
	Long: `Compiles every conversation and reports unknown node types, invalid
configuration, unconnected ports and nodes unreachable from the entry.
Warnings are printed but only errors fail the command.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			path = args[0]
		}
		return cli.Validate(cmd.Context(), path, nil, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
