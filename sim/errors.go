package sim

import "errors"

// Error taxonomy. Callers wrap these with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	// ErrConfiguration reports a malformed or missing configuration field.
	ErrConfiguration = errors.New("configuration error")
	// ErrMalformedOperation reports a record with an unknown component or device,
	// a non-positive cycle count, or broken application boundaries.
	ErrMalformedOperation = errors.New("malformed operation")
	// ErrUnsupportedPolicy reports a scheduling policy identifier with no implementation.
	ErrUnsupportedPolicy = errors.New("unsupported scheduling policy")
)
