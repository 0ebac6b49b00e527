package domain

import "fmt"

// StoreError wraps any fault raised by the document store.
type StoreError struct {
	Op  string // e.g. "creating Post"
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("Error %s: %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
