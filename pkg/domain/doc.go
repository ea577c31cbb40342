/*
Package domain contains the core data model of the conversation engine.

It defines the graph (nodes, ports, edges, conversations), the presentation
payloads event nodes publish, and the snapshot of a suspended execution. The
package is pure: no I/O, no world-state access and no execution logic.

# Key Entities

  - Node: a unit of behavior with flow ports, slot ports, dynamic option ports and configuration.
  - Edge: a directed Out -> In connection between two ports of the same kind.
  - Conversation: the graph container; answers "what is connected to this port".
  - Presentation: what an event node asks the host to show (message or choice).
  - Suspension: an execution paused at an event node, awaiting a choice index.
*/
package domain
