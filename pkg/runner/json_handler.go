package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/colloquy/pkg/domain"
)

// Envelope kinds written by JSONHandler.
const (
	EnvelopePresentation = "presentation"
	EnvelopeSystem       = "system"
	EnvelopeError        = "error"
)

// Envelope is one line of JSONHandler output.
type Envelope struct {
	Type         string               `json:"type"`
	Presentation *domain.Presentation `json:"presentation,omitempty"`
	Message      string               `json:"message,omitempty"`
}

// ChoiceRequest is the object form of a pick read by JSONHandler.
type ChoiceRequest struct {
	Choice int `json:"choice"`
}

// JSONHandler implements the IOHandler interface for newline-delimited JSON.
// Each presentation is written as an Envelope; each input line is a 0-based
// option index, either bare (2), quoted ("2") or as {"choice": 2}.
type JSONHandler struct {
	input   *lineReader
	mu      sync.Mutex
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		input:   newLineReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) emit(env Envelope) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(env)
}

func (h *JSONHandler) Output(ctx context.Context, p domain.Presentation) error {
	return h.emit(Envelope{Type: EnvelopePresentation, Presentation: &p})
}

func (h *JSONHandler) Input(ctx context.Context, p domain.Presentation) (int, error) {
	for {
		line, err := h.input.next(ctx)
		if err != nil {
			return 0, err
		}
		text, err := SanitizeInput(strings.TrimSpace(line))
		if err != nil {
			if err := h.emit(Envelope{Type: EnvelopeError, Message: err.Error()}); err != nil {
				return 0, err
			}
			continue
		}
		if text == "" {
			continue
		}
		index, err := decodeChoice(text)
		if err == nil {
			if _, ok := p.Option(index); !ok {
				err = fmt.Errorf("choice %d of %d: %w", index, len(p.Options), domain.ErrInvalidChoice)
			}
		}
		if err != nil {
			if err := h.emit(Envelope{Type: EnvelopeError, Message: err.Error()}); err != nil {
				return 0, err
			}
			continue
		}
		return index, nil
	}
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(Envelope{Type: EnvelopeSystem, Message: msg})
}

func decodeChoice(text string) (int, error) {
	var n int
	if err := json.Unmarshal([]byte(text), &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		text = s
	}
	var req ChoiceRequest
	if err := json.Unmarshal([]byte(text), &req); err == nil {
		return req.Choice, nil
	}
	if _, err := fmt.Sscanf(text, "%d", &n); err == nil {
		return n, nil
	}
	return 0, fmt.Errorf("%q: %w", text, domain.ErrInvalidChoice)
}
