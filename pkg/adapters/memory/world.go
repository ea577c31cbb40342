package memory

import (
	"sort"
	"sync"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/ports"
)

// World bundles in-memory implementations of every subsystem role.
// Each part is safe for concurrent use.
type World struct {
	Inventory *Inventory
	Resources *Resources
	Clock     *Clock
	Flags     *Flags
	Story     *Story
	Contacts  *Contacts
	Errands   *Errands
	Journal   *Journal
	Gifting   *Gifting
}

// NewWorld creates an empty world: no items, zero balances, chapter 1, time 00:00.
func NewWorld() *World {
	return &World{
		Inventory: NewInventory(),
		Resources: &Resources{},
		Clock:     &Clock{},
		Flags:     NewFlags(),
		Story:     &Story{chapter: 1},
		Contacts:  NewContacts(),
		Errands:   NewErrands(),
		Journal:   &Journal{},
		Gifting:   NewGifting(),
	}
}

// Ports returns the world as the engine's service boundary. A nil part
// leaves its role unset rather than holding a typed nil.
func (w *World) Ports() *ports.World {
	pw := &ports.World{}
	if w.Errands != nil {
		pw.Errands = w.Errands
	}
	if w.Inventory != nil {
		pw.Inventory = w.Inventory
	}
	if w.Contacts != nil {
		pw.Contacts = w.Contacts
	}
	if w.Resources != nil {
		pw.Resources = w.Resources
	}
	if w.Clock != nil {
		pw.Clock = w.Clock
	}
	if w.Flags != nil {
		pw.Flags = w.Flags
	}
	if w.Story != nil {
		pw.Story = w.Story
	}
	if w.Gifting != nil {
		pw.Gifting = w.Gifting
	}
	if w.Journal != nil {
		pw.Journal = w.Journal
	}
	return pw
}

// Inventory implements ports.Inventory.
type Inventory struct {
	mu       sync.RWMutex
	items    map[string]domain.Item
	counts   map[string]int
	equipped string
}

// NewInventory creates an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{
		items:  make(map[string]domain.Item),
		counts: make(map[string]int),
	}
}

func (i *Inventory) HasItem(id string, count int) bool {
	if count < 0 {
		return false
	}
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.counts[id] >= count
}

func (i *Inventory) ConsumeItem(id string, count int) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if count < 0 || i.counts[id] < count {
		return false
	}
	i.counts[id] -= count
	if i.counts[id] == 0 {
		delete(i.counts, id)
		if i.equipped == id {
			i.equipped = ""
		}
	}
	return true
}

func (i *Inventory) AddItem(item domain.Item, count int) {
	if count <= 0 {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items[item.ID] = item
	i.counts[item.ID] += count
}

func (i *Inventory) Count(id string) int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.counts[id]
}

func (i *Inventory) Equipped() *domain.Item {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.equipped == "" {
		return nil
	}
	item := i.items[i.equipped]
	return &item
}

// Equip marks a held item as equipped. It reports false if the item is not held.
func (i *Inventory) Equip(id string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.counts[id] == 0 {
		return false
	}
	i.equipped = id
	return true
}

// Items returns the held item ids, sorted.
func (i *Inventory) Items() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	ids := make([]string, 0, len(i.counts))
	for id := range i.counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resources implements ports.Resources.
type Resources struct {
	mu        sync.RWMutex
	money     int
	energy    int
	blessings int
}

func (r *Resources) Money() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.money
}

func (r *Resources) Energy() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.energy
}

func (r *Resources) Blessings() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.blessings
}

func (r *Resources) SpendMoney(amount int) bool {
	return r.spend(&r.money, amount)
}

func (r *Resources) SpendEnergy(amount int) bool {
	return r.spend(&r.energy, amount)
}

func (r *Resources) spend(balance *int, amount int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if amount < 0 || *balance < amount {
		return false
	}
	*balance -= amount
	return true
}

func (r *Resources) AddMoney(amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.money += amount
}

func (r *Resources) AddEnergy(amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.energy += amount
}

func (r *Resources) AddBlessings(amount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blessings += amount
}

// Clock implements ports.Clock over a settable minute counter.
type Clock struct {
	mu      sync.RWMutex
	minutes int
}

func (c *Clock) TotalMinutes() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.minutes
}

// Set moves the clock to an absolute total.
func (c *Clock) Set(total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minutes = total
}

// Advance moves the clock forward.
func (c *Clock) Advance(minutes int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.minutes += minutes
}

// Flags implements ports.Flags.
type Flags struct {
	mu  sync.RWMutex
	set map[string]bool
}

// NewFlags creates an empty flag set.
func NewFlags() *Flags {
	return &Flags{set: make(map[string]bool)}
}

func (f *Flags) HasFlag(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set[name]
}

func (f *Flags) SetFlag(name string, value bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if value {
		f.set[name] = true
		return
	}
	delete(f.set, name)
}

// Story implements ports.Story.
type Story struct {
	mu      sync.RWMutex
	chapter int
}

func (s *Story) Chapter() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chapter
}

func (s *Story) AdvanceChapter(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chapter += delta
}

// Contacts implements ports.Contacts.
type Contacts struct {
	mu    sync.RWMutex
	trust map[string]int
}

// NewContacts creates a contact list where everyone starts at zero trust.
func NewContacts() *Contacts {
	return &Contacts{trust: make(map[string]int)}
}

func (c *Contacts) Trust(contactID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.trust[contactID]
}

func (c *Contacts) AddTrust(contactID string, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trust[contactID] += delta
}

// Errands implements ports.Errands.
type Errands struct {
	mu        sync.RWMutex
	active    map[string]domain.ErrandDefinition
	completed map[string]bool
}

// NewErrands creates an empty errand log.
func NewErrands() *Errands {
	return &Errands{
		active:    make(map[string]domain.ErrandDefinition),
		completed: make(map[string]bool),
	}
}

func (e *Errands) IsCompleted(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.completed[id]
}

func (e *Errands) HasActive(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.active[id]
	return ok
}

func (e *Errands) AddErrand(def domain.ErrandDefinition) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active[def.ID] = def
}

func (e *Errands) Complete(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, id)
	e.completed[id] = true
}

// Active returns the definition of an active errand.
func (e *Errands) Active(id string) (domain.ErrandDefinition, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	def, ok := e.active[id]
	return def, ok
}

// Journal implements ports.Journal.
type Journal struct {
	mu      sync.RWMutex
	entries []string
}

func (j *Journal) AddEntry(text string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, text)
}

// Entries returns the journal in insertion order.
func (j *Journal) Entries() []string {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]string(nil), j.entries...)
}

// Gifting implements ports.Gifting from a table of preferences.
// Contacts accept only items they have a preference for.
type Gifting struct {
	mu    sync.RWMutex
	likes map[string]map[string]int
}

// NewGifting creates a table where every gift is refused.
func NewGifting() *Gifting {
	return &Gifting{likes: make(map[string]map[string]int)}
}

// Prefer records that contactID accepts itemID for the given trust change.
func (g *Gifting) Prefer(contactID, itemID string, trustDelta int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.likes[contactID] == nil {
		g.likes[contactID] = make(map[string]int)
	}
	g.likes[contactID][itemID] = trustDelta
}

func (g *Gifting) Gift(contactID, itemID string) (int, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	delta, ok := g.likes[contactID][itemID]
	return delta, ok
}
