package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/colloquy/internal/presentation/graph"
)

// Graph writes a conversation as a Mermaid flowchart. When execution is set,
// the stored suspension's progress is overlaid.
func Graph(ctx context.Context, app *App, conversation, execution string, w io.Writer) error {
	convID, err := pickConversation(ctx, app.Engine, conversation)
	if err != nil {
		return err
	}
	conv, err := app.Engine.Conversation(ctx, convID)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if execution != "" {
		store, err := app.Store()
		if err != nil {
			return err
		}
		snap, err := store.Load(ctx, execution)
		if err != nil {
			return err
		}
		if snap.ConversationID != conv.ID {
			return fmt.Errorf("execution %s runs %s, not %s", execution, snap.ConversationID, conv.ID)
		}
		overlay = &graph.Overlay{Visited: snap.History, Current: snap.NodeID}
	}

	_, err = io.WriteString(w, graph.GenerateMermaid(conv, app.Engine.Catalog(), overlay))
	return err
}
