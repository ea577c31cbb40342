package schema

import "sort"

// Field describes one named, typed entry of a configuration map.
type Field struct {
	Name     string
	Type     Type
	Required bool
}

// Validate checks that data carries every required field, that present
// fields match their declared type and that no undeclared keys are present.
// All failures are reported together in an *AggregateError.
func Validate(fields []Field, data map[string]any) error {
	var errs []error
	declared := make(map[string]bool, len(fields))

	for _, f := range fields {
		declared[f.Name] = true
		value, exists := data[f.Name]
		if !exists || value == nil {
			if f.Required {
				errs = append(errs, &ValidationError{Key: f.Name, Reason: "required"})
			}
			continue
		}
		if f.Type == nil {
			continue
		}
		if err := f.Type.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    f.Name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	unknown := make([]string, 0)
	for key := range data {
		if !declared[key] {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	for _, key := range unknown {
		errs = append(errs, &ValidationError{Key: key, Reason: "unknown property"})
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}
