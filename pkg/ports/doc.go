/*
Package ports defines the driven ports (interfaces) of the conversation engine.

These interfaces decouple the engine from the game subsystems it queries and
mutates, from the host that renders presentations, and from storage.

# Key Interfaces

  - World: the service boundary; one handle per gameplay subsystem (inventory, resources, clock, flags, ...).
  - EventSink: receives message and choice presentations.
  - SuspensionStore: persists suspended executions.
  - ConversationLoader: retrieves conversations by id.
  - DistributedLocker: serializes access to a shared world across replicas.
*/
package ports
