// Package nodes defines the closed set of node types a conversation is built from.
//
// Every node type follows one of three execution contracts:
//
//   - Value nodes answer slot reads on demand and never advance traversal.
//   - Hybrid nodes compute a result against the world, may mutate it, and
//     name the outgoing flow port traversal continues on.
//   - Event nodes build a presentation; the engine publishes it and suspends.
//
// A Catalog maps type names to Definitions (ports, properties, constructor).
// Catalog.Bind decodes a node's configuration into its typed behavior each
// time the node runs, so graph nodes carry no runtime state.
//
// Node code never fails. A missing collaborator, a missing setting or a slot
// of the wrong type is reported through Context.Degrade and the node falls
// back to a safe default: false, zero, the empty string, or not advancing.
package nodes
