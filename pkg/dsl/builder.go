package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"github.com/google/uuid"
)

// Builder manages the conversation construction.
// Errors are collected and reported by Build.
type Builder struct {
	conv    *domain.Conversation
	catalog *nodes.Catalog
	order   []*NodeBuilder
	index   map[string]*NodeBuilder
	edges   []pendingEdge
	entry   string
	errs    []error
}

type pendingEdge struct {
	from, to domain.PortRef
}

// Option configures a Builder.
type Option func(*Builder)

// WithCatalog builds nodes from a custom catalog instead of the standard one.
func WithCatalog(c *nodes.Catalog) Option {
	return func(b *Builder) {
		b.catalog = c
	}
}

// New creates a new conversation builder.
func New(id, title string, opts ...Option) *Builder {
	b := &Builder{
		conv:    domain.NewConversation(id, title),
		catalog: nodes.Standard(),
		index:   make(map[string]*NodeBuilder),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Add creates a new node of the given type with the catalog's ports and defaults.
// An empty id generates a random one. If the node already exists, it returns
// the existing builder.
func (b *Builder) Add(id, typ string) *NodeBuilder {
	if id == "" {
		id = uuid.NewString()
	}
	if nb, ok := b.index[id]; ok {
		return nb
	}
	nb := &NodeBuilder{builder: b}
	n, err := b.catalog.NewNode(typ, id)
	if err != nil {
		b.errs = append(b.errs, err)
		n = &domain.Node{ID: id, Type: typ, Config: map[string]any{}}
	}
	nb.node = n
	b.order = append(b.order, nb)
	b.index[id] = nb
	return nb
}

// Node returns the builder of an existing node.
func (b *Builder) Node(id string) (*NodeBuilder, bool) {
	nb, ok := b.index[id]
	return nb, ok
}

// Entry designates the entry node. By default it is the first node added.
func (b *Builder) Entry(id string) *Builder {
	b.entry = id
	return b
}

// Connect adds an edge between two "node.port" references.
func (b *Builder) Connect(from, to string) *Builder {
	f, err := domain.ParsePortRef(from)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	t, err := domain.ParsePortRef(to)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.edges = append(b.edges, pendingEdge{from: f, to: t})
	return b
}

// Build assembles the conversation. Edges are validated once every node exists.
func (b *Builder) Build() (*domain.Conversation, error) {
	for _, nb := range b.order {
		if err := b.conv.AddNode(nb.node); err != nil {
			b.errs = append(b.errs, err)
		}
	}
	for _, e := range b.edges {
		if err := b.conv.Connect(e.from, e.to); err != nil {
			b.errs = append(b.errs, err)
		}
	}
	if b.entry != "" {
		if err := b.conv.SetEntry(b.entry); err != nil {
			b.errs = append(b.errs, err)
		}
	}
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("build conversation %s: %w", b.conv.ID, errors.Join(b.errs...))
	}
	return b.conv, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *domain.Conversation {
	conv, err := b.Build()
	if err != nil {
		panic(err)
	}
	return conv
}
