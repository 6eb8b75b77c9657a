package domain

import "errors"

var (
	// ErrInvalidAmount is returned when a deposit or spend has a negative amount
	ErrInvalidAmount = errors.New("invalid amount: must not be negative")

	// ErrInvalidTransaction is returned for structurally invalid transactions (unknown kind)
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrStoreUnavailable is wrapped by repositories when a read or write could not be completed.
	// Nothing has been persisted when it is returned from a write.
	ErrStoreUnavailable = errors.New("transaction store unavailable")

	// ErrCorruptRecord is wrapped by repositories when a stored row cannot be decoded
	// into a valid Transaction. Retrying does not help.
	ErrCorruptRecord = errors.New("corrupt transaction record")
)
