package memory

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/aretw0/colloquy/pkg/schema"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML description of a starting world.
type Seed struct {
	Day       int                       `yaml:"day"`
	Time      string                    `yaml:"time"`
	Money     int                       `yaml:"money"`
	Energy    int                       `yaml:"energy"`
	Blessings int                       `yaml:"blessings"`
	Chapter   int                       `yaml:"chapter"`
	Flags     []string                  `yaml:"flags"`
	Items     []SeedItem                `yaml:"items"`
	Equipped  string                    `yaml:"equipped"`
	Trust     map[string]int            `yaml:"trust"`
	Errands   SeedErrands               `yaml:"errands"`
	Gifts     map[string]map[string]int `yaml:"gifts"`
}

// SeedItem is an inventory entry in a Seed.
type SeedItem struct {
	domain.Item `yaml:",inline"`
	Count       int `yaml:"count"`
}

// SeedErrands lists the errands a Seed starts with.
type SeedErrands struct {
	Active    []domain.ErrandDefinition `yaml:"active"`
	Completed []string                  `yaml:"completed"`
}

// ReadSeed decodes a Seed from YAML. An empty document is the zero Seed.
func ReadSeed(r io.Reader) (Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil && err != io.EOF {
		return Seed{}, fmt.Errorf("decode world: %w", err)
	}
	return seed, nil
}

// ReadSeedFile reads a Seed from disk.
func ReadSeedFile(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open world %s: %w", path, err)
	}
	defer f.Close()
	return ReadSeed(f)
}

// LoadWorld decodes a Seed from YAML and builds the world it describes.
func LoadWorld(r io.Reader) (*World, error) {
	seed, err := ReadSeed(r)
	if err != nil {
		return nil, err
	}
	return seed.Build()
}

// LoadWorldFile reads a world seed from disk and builds it.
func LoadWorldFile(path string) (*World, error) {
	seed, err := ReadSeedFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Build()
}

// Build creates the world the seed describes.
func (s Seed) Build() (*World, error) {
	w := NewWorld()

	minutes := 0
	if s.Time != "" {
		m, err := schema.ParseClock(s.Time)
		if err != nil {
			return nil, fmt.Errorf("world time: %w", err)
		}
		minutes = m
	}
	w.Clock.Set(s.Day*24*60 + minutes)

	w.Resources.AddMoney(s.Money)
	w.Resources.AddEnergy(s.Energy)
	w.Resources.AddBlessings(s.Blessings)
	if s.Chapter > 0 {
		w.Story.AdvanceChapter(s.Chapter - w.Story.Chapter())
	}

	for _, f := range s.Flags {
		w.Flags.SetFlag(f, true)
	}
	for _, it := range s.Items {
		if it.ID == "" {
			return nil, fmt.Errorf("world item missing id")
		}
		count := it.Count
		if count == 0 {
			count = 1
		}
		w.Inventory.AddItem(it.Item, count)
	}
	if s.Equipped != "" && !w.Inventory.Equip(s.Equipped) {
		return nil, fmt.Errorf("equipped item %q is not in the inventory", s.Equipped)
	}
	for contact, trust := range s.Trust {
		w.Contacts.AddTrust(contact, trust)
	}
	for _, def := range s.Errands.Active {
		w.Errands.AddErrand(def)
	}
	for _, id := range s.Errands.Completed {
		w.Errands.Complete(id)
	}
	for contact, items := range s.Gifts {
		for item, delta := range items {
			w.Gifting.Prefer(contact, item, delta)
		}
	}
	return w, nil
}
