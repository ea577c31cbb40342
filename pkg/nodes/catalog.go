package nodes

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/schema"
	"github.com/mitchellh/mapstructure"
)

var (
	// ErrUnknownType is returned when a node type is not registered.
	ErrUnknownType = errors.New("unknown node type")
	// ErrUnknownProperty is returned when a property is not declared by the node type.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrDuplicateType is returned when registering a type twice.
	ErrDuplicateType = errors.New("node type already registered")
)

// Property describes one editable configuration field of a node type.
type Property struct {
	Name     string
	Type     schema.Type
	Required bool
	Default  any
	Doc      string
}

// Definition describes a node type: its kind, the ports every instance
// declares, its properties and how to build its behavior.
type Definition struct {
	Type       string
	Kind       domain.Kind
	Doc        string
	Flow       []domain.FlowPort
	Slots      []domain.SlotPort
	Properties []Property
	// Dynamic marks types whose outgoing flow ports are the node's Options.
	Dynamic bool
	// New returns a pointer to a zero behavior; configuration is decoded into it.
	New func() Behavior
}

// Property looks up a property by name.
func (d Definition) Property(name string) (Property, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// FallbackPort is the negative branch a hybrid type takes when its node
// cannot be configured. Types with no such branch report false.
func (d Definition) FallbackPort() (string, bool) {
	if d.Kind != domain.KindHybrid {
		return "", false
	}
	for _, id := range []string{PortFalse, PortFailure, PortMissing, PortRefused, PortOpen} {
		for _, f := range d.Flow {
			if f.ID == id && f.Direction == domain.Out {
				return id, true
			}
		}
	}
	return "", false
}

func (d Definition) fields() []schema.Field {
	out := make([]schema.Field, len(d.Properties))
	for i, p := range d.Properties {
		out[i] = schema.Field{Name: p.Name, Type: p.Type, Required: p.Required}
	}
	return out
}

// Catalog manages the available node types.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]Definition
}

// NewCatalog creates a new empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		types: make(map[string]Definition),
	}
}

// Register adds a node type to the catalog.
func (c *Catalog) Register(def Definition) error {
	if def.Type == "" || def.New == nil {
		return fmt.Errorf("register node type %q: missing type or constructor", def.Type)
	}
	if got := KindOf(def.New()); got != def.Kind {
		return fmt.Errorf("register node type %q: declared %s but behaves as %s", def.Type, def.Kind, got)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.types[def.Type]; exists {
		return fmt.Errorf("register node type %q: %w", def.Type, ErrDuplicateType)
	}
	c.types[def.Type] = def
	return nil
}

// MustRegister is like Register but panics on error.
func (c *Catalog) MustRegister(defs ...Definition) {
	for _, def := range defs {
		if err := c.Register(def); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the definition of a node type.
func (c *Catalog) Lookup(typ string) (Definition, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.types[typ]
	return def, ok
}

// Types returns the registered type names, sorted.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.types))
	for name := range c.types {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// NewNode creates a node of the given type with its declared ports and
// default configuration.
func (c *Catalog) NewNode(typ, id string) (*domain.Node, error) {
	def, ok := c.Lookup(typ)
	if !ok {
		return nil, fmt.Errorf("new node %s: %q: %w", id, typ, ErrUnknownType)
	}
	n := &domain.Node{
		ID:     id,
		Type:   typ,
		Flow:   append([]domain.FlowPort(nil), def.Flow...),
		Slots:  append([]domain.SlotPort(nil), def.Slots...),
		Config: make(map[string]any),
	}
	for _, p := range def.Properties {
		if p.Default != nil {
			n.Config[p.Name] = p.Default
		}
	}
	return n, nil
}

// Bind decodes the node's configuration, merged over the property defaults,
// into a fresh behavior of the node's type.
func (c *Catalog) Bind(n *domain.Node) (Behavior, error) {
	def, ok := c.Lookup(n.Type)
	if !ok {
		return nil, fmt.Errorf("bind node %s: %q: %w", n.ID, n.Type, ErrUnknownType)
	}

	input := make(map[string]any, len(def.Properties)+len(n.Config))
	for _, p := range def.Properties {
		if p.Default != nil {
			input[p.Name] = p.Default
		}
	}
	for k, v := range n.Config {
		input[k] = v
	}

	b := def.New()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           b,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       clockHook,
	})
	if err != nil {
		return nil, fmt.Errorf("bind node %s: %w", n.ID, err)
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("bind node %s (%s): %w", n.ID, n.Type, err)
	}
	return b, nil
}

// Get returns a property value, falling back to its default.
func (c *Catalog) Get(n *domain.Node, name string) (any, error) {
	def, ok := c.Lookup(n.Type)
	if !ok {
		return nil, fmt.Errorf("node %s: %q: %w", n.ID, n.Type, ErrUnknownType)
	}
	p, ok := def.Property(name)
	if !ok {
		return nil, fmt.Errorf("node %s: %q: %w", n.ID, name, ErrUnknownProperty)
	}
	if v, ok := n.Config[name]; ok {
		return v, nil
	}
	return p.Default, nil
}

// Set validates and writes a property value.
func (c *Catalog) Set(n *domain.Node, name string, value any) error {
	def, ok := c.Lookup(n.Type)
	if !ok {
		return fmt.Errorf("node %s: %q: %w", n.ID, n.Type, ErrUnknownType)
	}
	p, ok := def.Property(name)
	if !ok {
		return fmt.Errorf("node %s: %q: %w", n.ID, name, ErrUnknownProperty)
	}
	if p.Type != nil {
		if err := p.Type.Validate(value); err != nil {
			return fmt.Errorf("node %s: %w", n.ID, &schema.ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}
	if n.Config == nil {
		n.Config = make(map[string]any)
	}
	n.Config[name] = value
	return nil
}

// Validate checks the node's configuration against its type's properties.
// Defaults count as present.
func (c *Catalog) Validate(n *domain.Node) error {
	def, ok := c.Lookup(n.Type)
	if !ok {
		return fmt.Errorf("node %s: %q: %w", n.ID, n.Type, ErrUnknownType)
	}
	data := make(map[string]any, len(n.Config))
	for _, p := range def.Properties {
		if p.Default != nil {
			data[p.Name] = p.Default
		}
	}
	for k, v := range n.Config {
		data[k] = v
	}
	return schema.Validate(def.fields(), data)
}

// ClockTime is a time of day in minutes since midnight, written "HH:MM" in configuration.
type ClockTime int

func (t ClockTime) String() string {
	return schema.FormatClock(int(t))
}

var clockType = reflect.TypeOf(ClockTime(0))

func clockHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != clockType || from.Kind() != reflect.String {
		return data, nil
	}
	m, err := schema.ParseClock(reflect.ValueOf(data).String())
	if err != nil {
		return nil, err
	}
	return ClockTime(m), nil
}
