package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/colloquy/pkg/domain"
)

// Type defines the contract for property and slot value validation.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "string", "int").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return nil
	case float64:
		// YAML and JSON decoders may hand us whole numbers as floats.
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// EnumType accepts one of a fixed set of strings.
type EnumType struct {
	values []string
}

func (t *EnumType) Name() string { return "enum(" + strings.Join(t.values, "|") + ")" }

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected one of %v, got %T", t.values, value)
	}
	for _, v := range t.values {
		if v == s {
			return nil
		}
	}
	return fmt.Errorf("expected one of %v, got %q", t.values, s)
}

// Values returns the accepted strings.
func (t *EnumType) Values() []string {
	return append([]string(nil), t.values...)
}

// ClockType validates "HH:MM" times of day.
type ClockType struct{}

func (t *ClockType) Name() string { return "clock" }

func (t *ClockType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected clock time \"HH:MM\", got %T", value)
	}
	_, err := ParseClock(s)
	return err
}

// ParseClock converts "HH:MM" into total minutes since day start (hour*60+minute).
func ParseClock(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q (expected HH:MM)", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in clock time %q", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in clock time %q", s)
	}
	return hour*60 + minute, nil
}

// FormatClock renders total minutes as "HH:MM", wrapping at one day.
func FormatClock(minutes int) string {
	m := ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ActorType accepts domain.Actor values.
type ActorType struct{}

func (t *ActorType) Name() string { return "actor" }

func (t *ActorType) Validate(value any) error {
	switch value.(type) {
	case domain.Actor, *domain.Actor:
		return nil
	}
	return fmt.Errorf("expected actor, got %T", value)
}

// ItemType accepts domain.Item values.
type ItemType struct{}

func (t *ItemType) Name() string { return "item" }

func (t *ItemType) Validate(value any) error {
	switch value.(type) {
	case domain.Item, *domain.Item:
		return nil
	}
	return fmt.Errorf("expected item, got %T", value)
}

// AnyType accepts every non-nil value.
type AnyType struct{}

func (t *AnyType) Name() string { return "any" }

func (t *AnyType) Validate(value any) error {
	if value == nil {
		return fmt.Errorf("expected a value, got nil")
	}
	return nil
}

// --- Factory Functions ---

// String creates a string type validator.
func String() Type { return &StringType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Enum creates a validator accepting one of values.
func Enum(values ...string) Type { return &EnumType{values: values} }

// Clock creates an "HH:MM" validator.
func Clock() Type { return &ClockType{} }

// ForValue returns the validator matching a slot value type.
func ForValue(vt domain.ValueType) Type {
	switch vt {
	case domain.TypeString:
		return String()
	case domain.TypeInt:
		return Int()
	case domain.TypeBool:
		return Bool()
	case domain.TypeActor:
		return &ActorType{}
	case domain.TypeItem:
		return &ItemType{}
	default:
		return &AnyType{}
	}
}
