package world

import (
	"errors"
	"fmt"
)

// Per-operation failures are returned as typed errors, never panics. Only
// startup-time configuration problems (ErrInvalidSpeciesConfig) are fatal.
var (
	ErrNotAdopted        = errors.New("no pet adopted for this owner")
	ErrEmptyName         = errors.New("pet name is empty")
	ErrNameTooLong       = errors.New("pet name too long")
	ErrInsufficientFunds = errors.New("not enough coins")
	ErrAlreadyCheckedIn  = errors.New("already checked in today")
	ErrMaxLevelReached   = errors.New("pet is at max level")
	ErrUnknownAction     = errors.New("unknown interaction action")

	ErrInvalidSpeciesConfig = errors.New("invalid species config")
)

// AlreadyAdoptedError carries the species of the existing pet so the caller
// can tell the owner what they already have.
type AlreadyAdoptedError struct {
	Species string
}

func (e *AlreadyAdoptedError) Error() string {
	return fmt.Sprintf("pet already adopted: %s", e.Species)
}

// RateLimitedError reports how long the owner must wait before the next
// interaction window opens. Advisory only; the caller may retry after
// WaitSeconds.
type RateLimitedError struct {
	WaitSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("interaction limit reached, retry in %ds", e.WaitSeconds)
}
