package main

import (
	"fmt"
	"os"

	"github.com/aretw0/colloquy/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "colloquy",
	Short: "Colloquy runs branching conversations for interactive fiction",
	Long: `Colloquy compiles conversation graphs from YAML and walks them against a
game world: value nodes feed data, hybrid nodes branch and mutate the world,
event nodes stop to ask the player.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory (or single file) holding the conversations")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./colloquy.toml, then ~/.config/colloquy/config.toml)")
	rootCmd.PersistentFlags().String("world", "", "World seed YAML (overrides world.seed)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
}

// newApp wires the application from the persistent flags.
func newApp(cmd *cobra.Command) (*cli.App, error) {
	dir, _ := cmd.Flags().GetString("dir")
	configPath, _ := cmd.Flags().GetString("config")
	world, _ := cmd.Flags().GetString("world")
	level, _ := cmd.Flags().GetString("log-level")
	return cli.NewApp(cli.Options{
		ConfigPath: configPath,
		Content:    dir,
		WorldPath:  world,
		LogLevel:   level,
		LogOutput:  cmd.ErrOrStderr(),
	})
}
