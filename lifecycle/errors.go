package lifecycle

import "errors"

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrStatusNotFound  = errors.New("contact status not found")
	ErrInvalidStatus   = errors.New("invalid contact status")

	// ErrLockHeld means the contact is in "Exclusive Lock" and the acting
	// user is not the lock owner.
	ErrLockHeld = errors.New("contact locked by another user")

	// ErrConflict means a concurrent writer advanced the contact's lock
	// version between our read and our guarded update.
	ErrConflict = errors.New("contact modified concurrently")
)
