package main

import (
	"errors"

	"github.com/aretw0/colloquy/internal/cli"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/runner"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [conversation]",
	Short: "Play a conversation in the terminal",
	Long: `Starts a conversation against a fresh world seeded from --world and reads
choices from stdin. Type 'quit' to leave; with --persist the suspension is
saved and can be picked up later with --resume.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		opts := cli.PlayOptions{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}
		opts.JSON, _ = cmd.Flags().GetBool("json")
		opts.Persist, _ = cmd.Flags().GetBool("persist")
		opts.Resume, _ = cmd.Flags().GetString("resume")
		if len(args) > 0 {
			opts.Conversation = args[0]
		}

		signals := runner.NewSignalManager(cmd.Context())
		defer signals.Stop()

		exec, err := cli.Play(signals.Context(), app, opts)
		if errors.Is(err, runner.ErrInterrupted) {
			cmd.PrintErrln("Interrupted.")
			return nil
		}
		if err != nil {
			return err
		}
		if opts.Persist && exec.Status() == domain.StatusSuspended {
			cmd.PrintErrf("Saved. Resume with: colloquy play --resume %s\n", exec.ID())
		}
		return nil
	},
}

func init() {
	playCmd.Flags().Bool("json", false, "Read and write newline-delimited JSON")
	playCmd.Flags().Bool("persist", false, "Save the conversation when you leave")
	playCmd.Flags().String("resume", "", "Resume a saved execution by id")
	rootCmd.AddCommand(playCmd)
}
