package internal

import "fmt"

// UnknownFieldError reports a configuration key under the binding prefix
// that matches no field of the target struct.
type UnknownFieldError struct {
	Key    string // Offending key, in its original spelling
	Prefix string // Prefix the binding was scoped to
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown configuration key %q under prefix %q", e.Key, e.Prefix)
}

// InvalidFieldError reports a configuration value that could not be
// converted to the target field's type.
type InvalidFieldError struct {
	Field string // Name of the struct field
	Key   string // Configuration key, in its original spelling
	Value string // Raw value that failed to convert
	Type  string // Target type the value was converted to
	Err   error  // Underlying conversion error
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value %q for field %s (key %q): cannot convert to %s: %v",
		e.Value, e.Field, e.Key, e.Type, e.Err)
}

func (e *InvalidFieldError) Unwrap() error {
	return e.Err
}
