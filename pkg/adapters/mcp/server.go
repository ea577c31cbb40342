package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/colloquy"
	"github.com/aretw0/colloquy/internal/logging"
	"github.com/aretw0/colloquy/internal/presentation/graph"
	"github.com/aretw0/colloquy/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ConversationsURI is the resource listing the available conversations.
const ConversationsURI = "colloquy://conversations"

// ConversationList is the result of list_conversations.
type ConversationList struct {
	Conversations []string `json:"conversations" jsonschema_description:"Ids of the conversations that can be started"`
}

// StartArgs are the arguments of start_conversation.
type StartArgs struct {
	Player         string `json:"player"`
	ConversationID string `json:"conversation_id"`
}

// ChooseArgs are the arguments of choose.
type ChooseArgs struct {
	ExecutionID string `json:"execution_id"`
	Index       int    `json:"index"`
}

// SessionArgs identify a stored execution.
type SessionArgs struct {
	ExecutionID string `json:"execution_id"`
}

// Server exposes conversation sessions as MCP tools, so an agent host can
// play on behalf of a player.
type Server struct {
	engine    *colloquy.Engine
	sessions  *session.Manager
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *colloquy.Engine, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		sessions:  sessions,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("colloquy-mcp", strings.TrimSpace(colloquy.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		baseURL = "http://localhost" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "addr", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_conversations",
		mcp.WithDescription("List the conversations that can be started."),
		mcp.WithOutputSchema[ConversationList](),
	), mcp.NewStructuredToolHandler(s.handleList))

	s.mcpServer.AddTool(mcp.NewTool("start_conversation",
		mcp.WithDescription("Start a conversation for a player. Returns the first presentation the player must answer, if any."),
		mcp.WithString("player", mcp.Required(), mcp.Description("Player whose world the conversation runs against")),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to start")),
		mcp.WithOutputSchema[session.State](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("choose",
		mcp.WithDescription("Answer the pending presentation of a suspended execution with the option at index (0-based)."),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("Execution to resume")),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("0-based option index")),
		mcp.WithOutputSchema[session.State](),
	), mcp.NewStructuredToolHandler(s.handleChoose))

	s.mcpServer.AddTool(mcp.NewTool("get_session",
		mcp.WithDescription("Show the pending presentation of a suspended execution."),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("Execution to inspect")),
		mcp.WithOutputSchema[session.State](),
	), mcp.NewStructuredToolHandler(s.handleGet))

	s.mcpServer.AddTool(mcp.NewTool("abandon_session",
		mcp.WithDescription("Drop a suspended execution."),
		mcp.WithString("execution_id", mcp.Required(), mcp.Description("Execution to abandon")),
	), s.handleAbandon)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get a conversation as a Mermaid flowchart."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to draw")),
		mcp.WithString("execution_id", mcp.Description("Highlight the progress of this execution (optional)")),
	), s.handleGraph)
}

func (s *Server) handleList(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (ConversationList, error) {
	ids, err := s.engine.Conversations(ctx)
	if err != nil {
		return ConversationList{}, err
	}
	return ConversationList{Conversations: ids}, nil
}

func (s *Server) handleStart(ctx context.Context, _ mcp.CallToolRequest, args StartArgs) (session.State, error) {
	st, err := s.sessions.Start(ctx, args.Player, args.ConversationID)
	if err != nil {
		s.logger.Warn("MCP start failed", "player", args.Player, "conversation_id", args.ConversationID, "err", err)
		return session.State{}, err
	}
	return *st, nil
}

func (s *Server) handleChoose(ctx context.Context, _ mcp.CallToolRequest, args ChooseArgs) (session.State, error) {
	st, err := s.sessions.Choose(ctx, args.ExecutionID, args.Index)
	if err != nil {
		return session.State{}, err
	}
	return *st, nil
}

func (s *Server) handleGet(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (session.State, error) {
	st, err := s.sessions.Get(ctx, args.ExecutionID)
	if err != nil {
		return session.State{}, err
	}
	return *st, nil
}

func (s *Server) handleAbandon(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("execution_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.sessions.Abandon(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("abandon failed: %v", err)), nil
	}
	return mcp.NewToolResultText("abandoned " + id), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	convID, err := request.RequireString("conversation_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	conv, err := s.engine.Conversation(ctx, convID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	var overlay *graph.Overlay
	if execID := request.GetString("execution_id", ""); execID != "" {
		st, err := s.sessions.Get(ctx, execID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("load execution failed: %v", err)), nil
		}
		overlay = &graph.Overlay{Visited: st.History, Current: st.NodeID}
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(conv, s.engine.Catalog(), overlay)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ConversationsURI, "Available conversations",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.engine.Conversations(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list conversations: %w", err)
		}
		jsonBytes, err := json.Marshal(ConversationList{Conversations: ids})
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      ConversationsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
