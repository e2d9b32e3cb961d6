// Package errs holds the error taxonomy shared by the pipeline packages.
// Callers match with errors.Is; producers wrap with fmt.Errorf("%w: ...").
package errs

import "errors"

var (
	// ErrNotReady is returned when a question is asked before any documents were indexed.
	ErrNotReady = errors.New("no documents have been added")

	// ErrConfiguration marks an invalid combination of parameters. Not retried.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrNotFound marks a missing persisted file or index path.
	ErrNotFound = errors.New("not found")
)
