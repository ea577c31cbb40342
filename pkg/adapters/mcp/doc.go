// Package mcp exposes conversation sessions over the Model Context Protocol.
//
// Tools mirror the HTTP session API: list_conversations, start_conversation,
// choose, get_session, abandon_session and get_graph. The server runs over
// stdio or SSE.
package mcp
