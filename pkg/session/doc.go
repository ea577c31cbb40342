/*
Package session runs conversations on behalf of players across requests.

A Manager starts executions, persists them to a SuspensionStore while they
wait for a choice and resumes them later, possibly in another process. Steps
for the same player are serialized with an in-process mutex and, optionally,
a distributed lock, because all of a player's executions share one world.
*/
package session
