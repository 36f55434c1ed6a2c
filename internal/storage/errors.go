package storage

import "fmt"

// PersistenceError reports a failed read, write or decode of a stored record.
type PersistenceError struct {
	Op  string // read, write, delete, decode, encode, begin, commit
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
