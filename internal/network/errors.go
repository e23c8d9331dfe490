package network

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a hub id does not exist in the network.
	ErrNotFound = errors.New("hub not found")
	// ErrNoEligibleHub is returned when assignment runs with zero active hubs.
	ErrNoEligibleHub = errors.New("no eligible hub")
	// ErrLastActiveHub is returned when deactivating a hub would leave the
	// network with no active hub at all.
	ErrLastActiveHub = errors.New("cannot deactivate last active hub")
)

// ValidationError describes a structurally invalid network. The optimizers
// refuse to run on one; the API layer maps it to a 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return "invalid network: " + e.Reason }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
