// Package sentinel holds the infrastructure errors entity stores return.
// Services match them with errors.Is and translate them into domain errors;
// input validation failures use pkg/domain-errors instead.
package sentinel

import "errors"

var (
	// ErrNotFound means the key does not resolve to a stored entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict means the store refused a write: a duplicate insert, a
	// serialization failure or a lock wait that timed out.
	ErrConflict = errors.New("conflict")
)
