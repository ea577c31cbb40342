package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/aretw0/colloquy/pkg/domain"
)

// TextHandler implements the standard text-based interface: options are
// numbered from 1 and the player types a number.
type TextHandler struct {
	input    *lineReader
	Writer   io.Writer
	Renderer ContentRenderer
	Speaker  SpeakerFormatter
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerSpeaker configures how speakers are printed.
func WithTextHandlerSpeaker(fn SpeakerFormatter) TextHandlerOption {
	return func(h *TextHandler) {
		h.Speaker = fn
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		input:  newLineReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) Output(ctx context.Context, p domain.Presentation) error {
	var b strings.Builder
	if p.Actor != nil {
		b.WriteString(h.speaker(p.Actor))
		b.WriteString(": ")
	}
	b.WriteString(h.render(p.Text))
	b.WriteByte('\n')
	if p.Prompt != "" {
		b.WriteString(h.render(p.Prompt))
		b.WriteByte('\n')
	}
	for _, o := range p.Options {
		fmt.Fprintf(&b, "  %d) %s\n", o.Index+1, o.Label)
	}
	_, err := io.WriteString(h.Writer, b.String())
	return err
}

func (h *TextHandler) Input(ctx context.Context, p domain.Presentation) (int, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		line, err := h.input.next(ctx)
		if err != nil {
			return 0, err
		}
		clean, err := SanitizeInput(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
			continue
		}
		if clean == "exit" || clean == "quit" {
			return 0, io.EOF
		}
		index, err := ParseChoice(clean, len(p.Options))
		if err != nil {
			fmt.Fprintf(h.Writer, "Pick a number between 1 and %d.\n", len(p.Options))
			continue
		}
		return index, nil
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}

func (h *TextHandler) render(text string) string {
	if h.Renderer == nil {
		return text
	}
	out, err := h.Renderer(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}

func (h *TextHandler) speaker(a *domain.Actor) string {
	if h.Speaker != nil {
		return h.Speaker(a)
	}
	return a.Name
}

// ParseChoice converts a 1-based number typed by the player into an option
// index. An empty answer picks the only option when there is exactly one.
func ParseChoice(text string, options int) (int, error) {
	if text == "" && options == 1 {
		return 0, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > options {
		return 0, fmt.Errorf("%q: %w", text, domain.ErrInvalidChoice)
	}
	return n - 1, nil
}
