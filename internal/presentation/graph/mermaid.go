package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
)

// Overlay marks the progress of an execution on the graph.
type Overlay struct {
	Visited []string
	Current string
}

// Tracker is the part of an execution an Overlay is built from.
type Tracker interface {
	History() []string
	Current() string
}

// OverlayOf builds an overlay from an execution's history.
func OverlayOf(t Tracker) *Overlay {
	return &Overlay{Visited: t.History(), Current: t.Current()}
}

// GenerateMermaid renders a conversation as a Mermaid flowchart.
// Node shapes follow the node kind:
//   - Entry: ((Circle))
//   - Event: [/Parallelogram/]
//   - Hybrid: {{Hexagon}}
//   - Value: [(Cylinder)]
//
// Flow edges are solid and labelled with the outgoing port, slot edges are
// dotted and labelled with the slot they feed. The overlay, when given,
// styles visited and current nodes.
func GenerateMermaid(conv *domain.Conversation, catalog *nodes.Catalog, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, n := range conv.Nodes() {
		opener, closer := "[", "]"
		def, _ := catalog.Lookup(n.Type)
		switch {
		case n.ID == conv.Entry:
			opener, closer = "((", "))"
		case def.Kind == domain.KindEvent:
			opener, closer = "[/", "/]"
		case def.Kind == domain.KindHybrid:
			opener, closer = "{{", "}}"
		case def.Kind == domain.KindValue:
			opener, closer = "[(", ")]"
		}
		label := n.ID
		if n.Label != "" {
			label = n.Label
		}
		fmt.Fprintf(&sb, "    %s%s\"%s<br/><i>%s</i>\"%s\n", sanitizeMermaidID(n.ID), opener, escape(label), escape(n.Type), closer)
	}

	for _, e := range conv.Edges() {
		from := sanitizeMermaidID(e.From.NodeID)
		to := sanitizeMermaidID(e.To.NodeID)
		if isSlot(conv, e.To) {
			fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", from, escape(e.To.PortID), to)
			continue
		}
		label := e.From.PortID
		if n, ok := conv.Node(e.From.NodeID); ok {
			for _, o := range n.Options {
				if o.ID == e.From.PortID && o.Label != "" {
					label = o.Label
				}
			}
		}
		if label == domain.PortNext {
			fmt.Fprintf(&sb, "    %s --> %s\n", from, to)
			continue
		}
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", from, escape(label), to)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.Visited {
			safeID := sanitizeMermaidID(id)
			if safeID == "" || seen[safeID] || id == overlay.Current {
				continue
			}
			seen[safeID] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func isSlot(conv *domain.Conversation, ref domain.PortRef) bool {
	n, ok := conv.Node(ref.NodeID)
	if !ok {
		return false
	}
	kind, _ := n.PortKind(ref.PortID)
	return kind == domain.PortKindSlot
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
