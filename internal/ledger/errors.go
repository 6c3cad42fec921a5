package ledger

import "errors" // Sentinel errors

// Validation failures surfaced to the submitting user, mirroring the
// inline notices of the transfer form. None of them mutate any state.
var (
	ErrSameNode      = errors.New("sender and recipient cannot be the same")
	ErrInvalidEmail  = errors.New("please enter a valid email address")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrUnknownNode   = errors.New("unknown wallet node")
)
