package engine

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyName      = errors.New("item name is required")
	ErrEmptyLocation  = errors.New("location is required")
	ErrItemNotFound   = errors.New("item not found")
	ErrDuplicateName  = errors.New("item already exists")
	ErrInvalidLogType = errors.New("invalid log type")
	ErrInvalidImport  = errors.New("invalid import document")
	ErrStateNotLoaded = errors.New("stored record could not be loaded; not overwriting it")
)

// DuplicateNameError is returned when a new name collides case-insensitively
// with an existing item.
type DuplicateNameError struct {
	Name     string
	Existing string
}

func (e DuplicateNameError) Error() string {
	if e.Existing != "" && e.Existing != e.Name {
		return fmt.Sprintf("item %q already exists (as %q)", e.Name, e.Existing)
	}
	return fmt.Sprintf("item %q already exists", e.Name)
}

func (e DuplicateNameError) Is(target error) bool {
	return target == ErrDuplicateName
}
