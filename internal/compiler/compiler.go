package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/nodes"
	"gopkg.in/yaml.v3"
)

// ParseError locates a problem in a conversation document.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "<input>"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	return loc + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type document struct {
	ID    string      `yaml:"id"`
	Title string      `yaml:"title"`
	Entry string      `yaml:"entry"`
	Nodes []yaml.Node `yaml:"nodes"`
	Edges []yaml.Node `yaml:"edges"`
}

type nodeDoc struct {
	ID      string         `yaml:"id"`
	Type    string         `yaml:"type"`
	Label   string         `yaml:"label"`
	Config  map[string]any `yaml:"config"`
	Options []optionDoc    `yaml:"options"`
}

type optionDoc struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
}

type edgeDoc struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Compiler turns YAML conversation documents into conversations.
type Compiler struct {
	catalog *nodes.Catalog
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithCatalog compiles against a custom node catalog.
func WithCatalog(c *nodes.Catalog) Option {
	return func(cc *Compiler) {
		cc.catalog = c
	}
}

// New creates a compiler backed by the standard node catalog.
func New(opts ...Option) *Compiler {
	c := &Compiler{catalog: nodes.Standard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileFile reads and compiles a document from disk.
func (c *Compiler) CompileFile(path string) (*domain.Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	return c.compile(path, data)
}

// Compile reads a document from r.
func (c *Compiler) Compile(r io.Reader) (*domain.Conversation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}
	return c.compile("", data)
}

// compile reports every node and edge problem it finds, joined.
func (c *Compiler) compile(path string, data []byte) (*domain.Conversation, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: path, Err: errors.New("empty document")}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	if doc.ID == "" {
		return nil, &ParseError{Path: path, Err: errors.New("conversation id is required")}
	}

	conv := domain.NewConversation(doc.ID, doc.Title)
	var errs []error
	fail := func(line int, err error) {
		errs = append(errs, &ParseError{Path: path, Line: line, Err: err})
	}

	for i := range doc.Nodes {
		raw := &doc.Nodes[i]
		n, err := c.node(raw)
		if err != nil {
			fail(raw.Line, err)
			continue
		}
		if err := conv.AddNode(n); err != nil {
			fail(raw.Line, err)
		}
	}

	for i := range doc.Edges {
		raw := &doc.Edges[i]
		from, to, err := edge(raw)
		if err != nil {
			fail(raw.Line, err)
			continue
		}
		if err := conv.Connect(from, to); err != nil {
			fail(raw.Line, err)
		}
	}

	if doc.Entry != "" {
		if err := conv.SetEntry(doc.Entry); err != nil {
			fail(0, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return conv, nil
}

func (c *Compiler) node(raw *yaml.Node) (*domain.Node, error) {
	var nd nodeDoc
	if err := raw.Decode(&nd); err != nil {
		return nil, err
	}
	if nd.ID == "" {
		return nil, errors.New("node missing id")
	}
	if nd.Type == "" {
		return nil, fmt.Errorf("node %s: missing type", nd.ID)
	}
	n, err := c.catalog.NewNode(nd.Type, nd.ID)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", nd.ID, err)
	}
	n.Label = nd.Label

	var errs []error
	for _, o := range nd.Options {
		if err := n.AddOption(o.ID, o.Label); err != nil {
			errs = append(errs, err)
		}
	}
	if len(nd.Options) > 0 {
		if def, _ := c.catalog.Lookup(nd.Type); !def.Dynamic {
			errs = append(errs, fmt.Errorf("node %s: type %s does not take options", nd.ID, nd.Type))
		}
	}
	for _, name := range slices.Sorted(maps.Keys(nd.Config)) {
		if err := c.catalog.Set(n, name, nd.Config[name]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return n, nil
}

// edge accepts either "a.port -> b.port" or a {from, to} mapping.
func edge(raw *yaml.Node) (domain.PortRef, domain.PortRef, error) {
	var ed edgeDoc
	switch raw.Kind {
	case yaml.ScalarNode:
		from, to, ok := strings.Cut(raw.Value, "->")
		if !ok {
			return domain.PortRef{}, domain.PortRef{}, fmt.Errorf("edge %q: expected \"node.port -> node.port\"", raw.Value)
		}
		ed = edgeDoc{From: from, To: to}
	case yaml.MappingNode:
		if err := raw.Decode(&ed); err != nil {
			return domain.PortRef{}, domain.PortRef{}, err
		}
	default:
		return domain.PortRef{}, domain.PortRef{}, errors.New("edge must be a string or a from/to mapping")
	}
	from, err := domain.ParsePortRef(ed.From)
	if err != nil {
		return domain.PortRef{}, domain.PortRef{}, err
	}
	to, err := domain.ParsePortRef(ed.To)
	if err != nil {
		return domain.PortRef{}, domain.PortRef{}, err
	}
	return from, to, nil
}
