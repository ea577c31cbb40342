package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	`            _ _                       `,
	`   ___ ___ | | | ___   __ _ _   _ _   _ `,
	`  / __/ _ \| | |/ _ \ / _' | | | | | | |`,
	` | (_| (_) | | | (_) | (_| | |_| | |_| |`,
	`  \___\___/|_|_|\___/ \__, |\__,_|\__, |`,
	`                         |_|      |___/ `,
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa", "#818cf8"}

// PrintBanner writes the colloquy banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line).Foreground(p.Color(bannerColors[i%len(bannerColors)])))
	}
	fmt.Fprintln(w)
}
