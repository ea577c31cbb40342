/*
Package colloquy runs branching conversations for interactive fiction.

A conversation is a graph of typed nodes joined through typed ports. Flow
ports carry control; slot ports carry data. Every node follows one of three
execution contracts:

  - Value nodes answer slot reads on demand (a name, a number, the money the
    player holds) and never advance traversal.
  - Hybrid nodes compute a result against the game world, may change it, and
    name the flow port traversal continues on.
  - Event nodes present a message or a choice to the player; the engine
    publishes the presentation and suspends until the host resumes it.

The engine never fails because of node code. A node without the subsystem it
needs, or with a slot of the wrong type, degrades to a safe default and the
conversation keeps going.

# Usage

Conversations are compiled from YAML documents (a directory or a single
file) or built in memory with the dsl package and served by a custom loader.

	eng, err := colloquy.New("./conversations")
	if err != nil {
		log.Fatal(err)
	}

	world, _ := memory.Seed{Money: 5}.Build()
	exec, err := eng.Start(ctx, "bakery", world.Ports(), nil)
	if err != nil {
		log.Fatal(err)
	}

	for exec.Status() == domain.StatusSuspended {
		p, _ := exec.Pending()
		fmt.Println(p.Text)
		if err := eng.Resume(ctx, exec, pick(p.Options)); err != nil {
			log.Fatal(err)
		}
	}

A suspended execution can be saved with Execution.Snapshot, kept in a
ports.SuspensionStore and picked up later, by another process if need be,
with Engine.Restore. The runner package drives the loop above over a
terminal; the session package does it for many players behind the HTTP
adapter.
*/
package colloquy
