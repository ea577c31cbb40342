package schema

import (
	"testing"

	"github.com/aretw0/colloquy/pkg/domain"
)

func TestScalarTypes(t *testing.T) {
	tests := []struct {
		typ     Type
		value   any
		wantErr bool
	}{
		{String(), "hello", false},
		{String(), 42, true},
		{Int(), 42, false},
		{Int(), int64(42), false},
		{Int(), float64(42), false},
		{Int(), 42.5, true},
		{Int(), "42", true},
		{Bool(), true, false},
		{Bool(), "true", true},
		{Enum("money", "energy"), "money", false},
		{Enum("money", "energy"), "gold", true},
		{Enum("money", "energy"), 1, true},
		{Clock(), "22:00", false},
		{Clock(), "24:00", true},
		{Clock(), "7", true},
		{ForValue(domain.TypeActor), domain.Actor{Name: "Ana"}, false},
		{ForValue(domain.TypeActor), "Ana", true},
		{ForValue(domain.TypeItem), &domain.Item{ID: "tea"}, false},
		{ForValue(domain.TypeAny), nil, true},
	}

	for _, tt := range tests {
		err := tt.typ.Validate(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s.Validate(%v) error = %v, wantErr %v", tt.typ.Name(), tt.value, err, tt.wantErr)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:00", 360, false},
		{"22:00", 1320, false},
		{" 23:59 ", 1439, false},
		{"5:59", 359, false},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"noon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}

	if got := FormatClock(1320); got != "22:00" {
		t.Errorf("FormatClock(1320) = %q", got)
	}
	if got := FormatClock(1440 + 61); got != "01:01" {
		t.Errorf("FormatClock wraps days, got %q", got)
	}
}
