package configx

import "github.com/emberlab/ember/configx/internal"

// UnknownFieldError reports a key present under the binding prefix that
// matches no field of the target struct. Returned only when the binding
// has IgnoreUnknownFields disabled.
type UnknownFieldError = internal.UnknownFieldError

// InvalidFieldError reports a value that could not be converted to the
// target field's type. Returned only when the binding has
// IgnoreInvalidFields disabled.
type InvalidFieldError = internal.InvalidFieldError
