package state

import "fmt"

// DecodeError reports a stored payload that does not decode into the
// channel's type. The payload is left in place; the next successful write
// replaces it.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("state: decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
