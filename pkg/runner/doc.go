/*
Package runner implements the play loop and I/O orchestration for colloquy.

It acts as the bridge between the engine and a terminal (or any line-based
stream). The runner shows each presentation through a pluggable handler,
reads the player's pick, resumes the execution and, when a store is
configured, persists the suspension after every step so a session can be
picked up later.

# Key Components

  - Runner: the loop. Start a conversation with Run or continue a stored
    one with Resume.
  - IOHandler: decouples how presentations are shown and choices are read.
  - TextHandler: numbered options for interactive terminals.
  - JSONHandler: newline-delimited JSON for hosts driving the engine
    through pipes.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithWorld(world.Ports()),
		runner.WithStore(store),
	)

	exec, err := r.Run(ctx, "tea")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(exec.Status())
*/
package runner
