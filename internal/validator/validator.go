package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
)

// Severity grades an Issue.
type Severity string

const (
	// Error issues make parts of the conversation behave differently than written.
	Error Severity = "error"
	// Warning issues are legal but probably unintended.
	Warning Severity = "warning"
)

// Issue is a single finding about a conversation.
type Issue struct {
	Severity Severity
	NodeID   string
	Message  string
}

func (i Issue) String() string {
	if i.NodeID == "" {
		return fmt.Sprintf("%s: %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("%s: node %s: %s", i.Severity, i.NodeID, i.Message)
}

// Report collects the issues found in a conversation, in discovery order.
type Report struct {
	Issues []Issue
}

func (r *Report) add(sev Severity, nodeID, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, NodeID: nodeID, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the error-level issues.
func (r Report) Errors() []Issue {
	return r.filter(Error)
}

// Warnings returns the warning-level issues.
func (r Report) Warnings() []Issue {
	return r.filter(Warning)
}

func (r Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}

// Err folds the error-level issues into a single error, or nil.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(lines, "\n- "))
}

// Validate inspects a conversation for problems the runtime would silently
// degrade on: a missing entry, unknown node types, invalid configuration,
// edges to missing ports, nodes that can never run and flow ports that lead
// nowhere.
func Validate(conv *domain.Conversation, catalog *nodes.Catalog) Report {
	var r Report
	if conv == nil {
		r.add(Error, "", "conversation is nil")
		return r
	}

	if conv.Entry == "" {
		r.add(Error, "", "conversation has no entry node")
	} else if entry, ok := conv.EntryNode(); !ok {
		r.add(Error, "", "entry node %q does not exist", conv.Entry)
	} else if def, ok := catalog.Lookup(entry.Type); ok && def.Kind == domain.KindValue {
		r.add(Error, entry.ID, "entry node is a value node and cannot run")
	}

	for _, n := range conv.Nodes() {
		checkNode(&r, conv, catalog, n)
	}
	checkEdges(&r, conv)
	checkReachability(&r, conv, catalog)
	return r
}

func checkNode(r *Report, conv *domain.Conversation, catalog *nodes.Catalog, n *domain.Node) {
	def, ok := catalog.Lookup(n.Type)
	if !ok {
		r.add(Error, n.ID, "unknown node type %q", n.Type)
		return
	}
	if err := catalog.Validate(n); err != nil {
		for _, e := range flatten(err) {
			r.add(Error, n.ID, "%v", e)
		}
	}
	if len(n.Options) > 0 && !def.Dynamic {
		r.add(Error, n.ID, "type %s does not take options", n.Type)
	}
	if def.Dynamic && len(n.Options) == 0 {
		r.add(Warning, n.ID, "choice has no options; the conversation stops here")
	}
	for _, p := range n.Flow {
		if p.Direction != domain.Out {
			continue
		}
		if len(conv.EdgesAt(domain.Ref(n.ID, p.ID))) == 0 {
			r.add(Warning, n.ID, "flow port %q is not connected", p.ID)
		}
	}
	for _, o := range n.Options {
		if len(conv.EdgesAt(domain.Ref(n.ID, o.ID))) == 0 {
			r.add(Warning, n.ID, "option %q is not connected", o.ID)
		}
	}
}

func flatten(err error) []error {
	if agg, ok := err.(interface{ Unwrap() []error }); ok {
		return agg.Unwrap()
	}
	return []error{err}
}

// checkEdges reports edges whose ends no longer resolve, which happens when
// nodes are edited after they were connected.
func checkEdges(r *Report, conv *domain.Conversation) {
	for _, e := range conv.Edges() {
		for _, end := range []struct {
			ref domain.PortRef
			dir domain.Direction
		}{{e.From, domain.Out}, {e.To, domain.In}} {
			n, ok := conv.Node(end.ref.NodeID)
			if !ok {
				r.add(Error, end.ref.NodeID, "edge %s: node does not exist", e)
				continue
			}
			if !n.ContainsPort(end.ref.PortID, end.dir) {
				r.add(Error, n.ID, "edge %s: no %s port %q", e, end.dir, end.ref.PortID)
			}
		}
	}
}

// checkReachability walks flow edges from the entry, then slot edges
// upstream from every reachable node. Anything left over never runs.
func checkReachability(r *Report, conv *domain.Conversation, catalog *nodes.Catalog) {
	if _, ok := conv.EntryNode(); !ok {
		return
	}
	flow := map[string]bool{}
	queue := []string{conv.Entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if flow[id] {
			continue
		}
		flow[id] = true
		for _, e := range conv.Edges() {
			if e.From.NodeID != id {
				continue
			}
			if n, ok := conv.Node(id); ok {
				if kind, _ := n.PortKind(e.From.PortID); kind != domain.PortKindFlow {
					continue
				}
			}
			queue = append(queue, e.To.NodeID)
		}
	}

	fed := map[string]bool{}
	var feed func(id string)
	feed = func(id string) {
		for _, e := range conv.Edges() {
			if e.To.NodeID != id || fed[e.From.NodeID] {
				continue
			}
			n, ok := conv.Node(id)
			if !ok {
				continue
			}
			if kind, _ := n.PortKind(e.To.PortID); kind != domain.PortKindSlot {
				continue
			}
			fed[e.From.NodeID] = true
			feed(e.From.NodeID)
		}
	}
	for id := range flow {
		feed(id)
	}

	for _, n := range conv.Nodes() {
		if flow[n.ID] {
			continue
		}
		def, _ := catalog.Lookup(n.Type)
		switch {
		case def.Kind != domain.KindValue:
			r.add(Warning, n.ID, "unreachable from entry %q", conv.Entry)
		case !fed[n.ID]:
			r.add(Warning, n.ID, "value node feeds nothing that runs")
		}
	}
}

// ErrInvalid is wrapped by ValidateStrict when the report has errors.
var ErrInvalid = errors.New("invalid conversation")

// ValidateStrict runs Validate and returns its errors as a single error
// wrapping ErrInvalid.
func ValidateStrict(conv *domain.Conversation, catalog *nodes.Catalog) error {
	if err := Validate(conv, catalog).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
