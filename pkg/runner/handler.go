package runner

import (
	"bufio"
	"context"
	"io"
	"os"
	"sync"

	"github.com/aretw0/colloquy/pkg/domain"
	"golang.org/x/term"
)

// IOHandler defines the strategy for interacting with the player.
// This allows switching between Text (CLI/TUI) and JSON (structured) modes.
type IOHandler interface {
	// Output shows a presentation to the player.
	Output(ctx context.Context, p domain.Presentation) error

	// Input reads the player's pick for p and returns the option index.
	// It returns io.EOF when the player leaves.
	Input(ctx context.Context, p domain.Presentation) (int, error)

	// SystemOutput presents a meta-message (status updates, errors)
	// distinct from conversation content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms line text before it is printed, for instance
// markdown to ANSI, without coupling this package to a renderer.
type ContentRenderer func(string) (string, error)

// SpeakerFormatter renders the actor attached to a presentation.
type SpeakerFormatter func(*domain.Actor) string

// IsInteractive reports whether r is a terminal.
func IsInteractive(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type inputResult struct {
	text string
	err  error
}

// lineReader reads lines on a background goroutine so reads can be abandoned
// when the context is cancelled.
type lineReader struct {
	reader *bufio.Reader
	lines  chan inputResult
	once   sync.Once
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{reader: bufio.NewReader(r)}
}

func (l *lineReader) pump() {
	for {
		text, err := l.reader.ReadString('\n')
		if text != "" {
			l.lines <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				l.lines <- inputResult{err: err}
			}
			close(l.lines)
			return
		}
	}
}

// next blocks until a line arrives, the stream ends (io.EOF) or ctx is done.
func (l *lineReader) next(ctx context.Context) (string, error) {
	l.once.Do(func() {
		l.lines = make(chan inputResult)
		go l.pump()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-l.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}
