package importer

import "fmt"

// ErrInvalidDocument reports a document that failed schema validation or
// decoding. Index is the position in the input array, or -1 when the input
// as a whole is malformed.
type ErrInvalidDocument struct {
	Kind  Kind
	Index int
	Err   error
}

func (e *ErrInvalidDocument) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid %s document: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("invalid %s document at index %d: %v", e.Kind, e.Index, e.Err)
}

func (e *ErrInvalidDocument) Unwrap() error { return e.Err }
