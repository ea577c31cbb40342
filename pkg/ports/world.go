package ports

import "github.com/aretw0/colloquy/pkg/domain"

// Inventory is the player's item store.
type Inventory interface {
	HasItem(id string, count int) bool
	// ConsumeItem removes count items and reports whether there were enough.
	// Nothing is removed when it returns false.
	ConsumeItem(id string, count int) bool
	AddItem(item domain.Item, count int)
	Count(id string) int
	// Equipped returns the equipped item, or nil.
	Equipped() *domain.Item
}

// Resources holds the player's currencies.
type Resources interface {
	Money() int
	Energy() int
	Blessings() int
	// SpendMoney and SpendEnergy report false, spending nothing, when the balance is short.
	SpendMoney(amount int) bool
	SpendEnergy(amount int) bool
	AddMoney(amount int)
	AddEnergy(amount int)
	AddBlessings(amount int)
}

// Clock exposes the in-game time.
type Clock interface {
	// TotalMinutes returns the minutes elapsed since the fixed day start (hour*60+minute).
	TotalMinutes() int
}

// Flags is the boolean story state.
type Flags interface {
	HasFlag(name string) bool
	SetFlag(name string, value bool)
}

// Story tracks chapter progression.
type Story interface {
	Chapter() int
	AdvanceChapter(delta int)
}

// Contacts tracks trust per contact.
type Contacts interface {
	Trust(contactID string) int
	AddTrust(contactID string, delta int)
}

// Errands tracks errands handed to the player.
type Errands interface {
	IsCompleted(id string) bool
	HasActive(id string) bool
	AddErrand(def domain.ErrandDefinition)
	// Complete moves an errand to the completed set.
	Complete(id string)
}

// Journal collects story notes.
type Journal interface {
	AddEntry(text string)
}

// Gifting resolves gifts to contacts.
type Gifting interface {
	// Gift offers an item to a contact. It returns the trust change and
	// whether the contact accepted.
	Gift(contactID, itemID string) (trustDelta int, accepted bool)
}

// Role names one of the closed set of subsystems.
type Role string

const (
	RoleErrands   Role = "errands"
	RoleInventory Role = "inventory"
	RoleContacts  Role = "contacts"
	RoleResources Role = "resources"
	RoleClock     Role = "clock"
	RoleFlags     Role = "flags"
	RoleStory     Role = "story"
	RoleGifting   Role = "gifting"
	RoleJournal   Role = "journal"
)

// Roles lists every role in a stable order.
var Roles = []Role{
	RoleErrands, RoleInventory, RoleContacts, RoleResources, RoleClock,
	RoleFlags, RoleStory, RoleGifting, RoleJournal,
}

// World is the service boundary: the only handles through which nodes touch
// game state. It is passed explicitly into every execution. Any field may be
// nil; nodes treat a nil role as a missing collaborator and fall back to a
// safe default.
type World struct {
	Errands   Errands
	Inventory Inventory
	Contacts  Contacts
	Resources Resources
	Clock     Clock
	Flags     Flags
	Story     Story
	Gifting   Gifting
	Journal   Journal
}

// Has reports whether the role is populated.
func (w *World) Has(role Role) bool {
	if w == nil {
		return false
	}
	switch role {
	case RoleErrands:
		return w.Errands != nil
	case RoleInventory:
		return w.Inventory != nil
	case RoleContacts:
		return w.Contacts != nil
	case RoleResources:
		return w.Resources != nil
	case RoleClock:
		return w.Clock != nil
	case RoleFlags:
		return w.Flags != nil
	case RoleStory:
		return w.Story != nil
	case RoleGifting:
		return w.Gifting != nil
	case RoleJournal:
		return w.Journal != nil
	}
	return false
}

// Missing lists the unset roles.
func (w *World) Missing() []Role {
	var out []Role
	for _, r := range Roles {
		if !w.Has(r) {
			out = append(out, r)
		}
	}
	return out
}
