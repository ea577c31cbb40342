/*
Package dsl provides a fluent builder for constructing conversations in Go.

It is the programmatic counterpart of the YAML format: nodes are created from
the node catalog (so they carry their declared ports and defaults), properties
are validated as they are set, and edges are checked when Build runs.

Example usage:

	b := dsl.New("tea", "Tea with Ana")

	b.Add("ana", "actor").Set("name", "Ana")

	b.Add("start", "start").Next("greet")

	b.Add("greet", "message").
		Set("text", "Good evening!").
		Feed("actor", "ana.actor").
		Go("continue", "ask")

	b.Add("ask", "choice").
		Set("text", "Tea?").
		Option("yes", "Yes please", "pour").
		Option("no", "No thanks", "")

	b.Add("pour", "consume_item").
		Set("item", "tea")

	conv, err := b.Build()
*/
package dsl
