// Package http exposes colloquy sessions over HTTP.
//
// A client starts a conversation for a player, reads the pending
// presentation, and posts choices until the session goes idle:
//
//	POST   /sessions                   {"player": "ana", "conversation_id": "tea"}
//	GET    /sessions/{id}
//	POST   /sessions/{id}/choices      {"index": 0}
//	DELETE /sessions/{id}
//	GET    /sessions/{id}/events       server-sent state updates
//	GET    /conversations
//	GET    /conversations/{id}/graph   Mermaid flowchart, ?execution= overlays progress
//	GET    /metrics
//
// Sessions are driven through a session.Manager, so steps for one player are
// serialized and suspensions live in whatever store the manager was given.
package http
