package resolver

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input workbook does not exist.
var ErrFileNotFound = errors.New("file not found")

// ResolveError represents an I/O failure during a resolution run. Formula
// failures never produce a ResolveError; they degrade to blank cells.
type ResolveError struct {
	Path  string
	Stage string // "open", "snapshot", "write"
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("workbook resolution failed at %s (%s): %v", e.Stage, e.Path, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}
