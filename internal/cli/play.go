package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/internal/presentation/tui"
	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/runner"
)

// PlayOptions configure an interactive session.
type PlayOptions struct {
	Conversation string // may be empty when the content holds a single conversation
	Resume       string // execution id of a stored suspension
	JSON         bool   // NDJSON instead of text
	Persist      bool   // save suspensions to the configured store
	In           io.Reader
	Out          io.Writer
}

// Play runs a conversation in the terminal against a fresh world.
func Play(ctx context.Context, app *App, opts PlayOptions) (*colloquy.Execution, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	world, err := app.World()
	if err != nil {
		return nil, err
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var textOpts []runner.TextHandlerOption
		if runner.IsInteractive(opts.In) && runner.IsInteractive(opts.Out) {
			tui.PrintBanner(opts.Out)
			textOpts = append(textOpts,
				runner.WithTextHandlerRenderer(tui.NewRenderer()),
				runner.WithTextHandlerSpeaker(tui.FormatActor),
			)
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	runnerOpts := []runner.Option{
		runner.WithEngine(app.Engine),
		runner.WithWorld(world.Ports()),
		runner.WithLogger(app.Logger),
		runner.WithInputHandler(handler),
	}
	if opts.Persist || opts.Resume != "" {
		store, err := app.Store()
		if err != nil {
			return nil, err
		}
		runnerOpts = append(runnerOpts, runner.WithStore(store))
	}
	r := runner.NewRunner(runnerOpts...)

	if opts.Resume != "" {
		return r.Resume(ctx, opts.Resume)
	}
	convID, err := pickConversation(ctx, app.Engine, opts.Conversation)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, convID)
}

// pickConversation defaults to the only conversation available.
func pickConversation(ctx context.Context, engine *colloquy.Engine, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	ids, err := engine.Conversations(ctx)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("no conversations found: %w", domain.ErrConversationNotFound)
	case 1:
		return ids[0], nil
	}
	return "", fmt.Errorf("several conversations found, pick one of: %s", strings.Join(ids, ", "))
}
