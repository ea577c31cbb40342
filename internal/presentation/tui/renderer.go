package tui

import (
	"hash/fnv"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// NewRenderer returns a function that renders markdown lines using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return func(s string) (string, error) { return s, nil }
	}
	return r.Render
}

var actorPalette = []string{"#f472b6", "#fb923c", "#facc15", "#4ade80", "#22d3ee", "#a78bfa"}

// FormatActor prints a speaker's name in bold, in a colour that stays the
// same for the same speaker across lines.
func FormatActor(a *domain.Actor) string {
	if a == nil {
		return ""
	}
	key := a.ID
	if key == "" {
		key = a.Name
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	color := actorPalette[h.Sum32()%uint32(len(actorPalette))]

	p := termenv.ColorProfile()
	return termenv.String(a.Name).Bold().Foreground(p.Color(color)).String()
}
