package runner

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/colloquy/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choice() domain.Presentation {
	return domain.Presentation{
		Kind:   domain.PresentChoice,
		Actor:  &domain.Actor{Name: "Mara"},
		Text:   "Tea or coffee?",
		Prompt: "Pick one",
		Options: []domain.Option{
			{Index: 0, Label: "Tea", Port: "tea"},
			{Index: 1, Label: "Coffee", Port: "coffee"},
		},
	}
}

func TestTextHandler_Output(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out,
		WithTextHandlerRenderer(func(s string) (string, error) { return "*" + s + "*", nil }),
		WithTextHandlerSpeaker(func(a *domain.Actor) string { return "[" + a.Name + "]" }),
	)

	require.NoError(t, h.Output(context.Background(), choice()))
	assert.Equal(t, "[Mara]: *Tea or coffee?*\n*Pick one*\n  1) Tea\n  2) Coffee\n", out.String())
}

func TestTextHandler_OutputIgnoresRendererErrors(t *testing.T) {
	out := &bytes.Buffer{}
	h := NewTextHandler(strings.NewReader(""), out,
		WithTextHandlerRenderer(func(string) (string, error) { return "", errors.New("boom") }),
	)
	p := domain.Presentation{Text: "Hello", Options: []domain.Option{{Label: "Continue"}}}

	require.NoError(t, h.Output(context.Background(), p))
	assert.Equal(t, "Hello\n  1) Continue\n", out.String())
}

func TestTextHandler_Input(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr error
	}{
		{"first option", "1\n", 0, nil},
		{"second option with spaces", "  2  \n", 1, nil},
		{"retries out of range", "3\n2\n", 1, nil},
		{"exit leaves", "exit\n", 0, io.EOF},
		{"end of input", "", 0, io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTextHandler(strings.NewReader(tt.input), io.Discard)
			got, err := h.Input(context.Background(), choice())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTextHandler_InputHonoursContext(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := NewTextHandler(pr, io.Discard)
	_, err := h.Input(ctx, choice())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		text    string
		options int
		want    int
		wantErr bool
	}{
		{"1", 2, 0, false},
		{"2", 2, 1, false},
		{"", 1, 0, false},
		{"", 2, 0, true},
		{"0", 2, 0, true},
		{"3", 2, 0, true},
		{"tea", 2, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseChoice(tt.text, tt.options)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrInvalidChoice, "text %q", tt.text)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
