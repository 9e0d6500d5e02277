package lifecycle

import "fmt"

// Status is one of the closed set of contact lifecycle states. The string
// value is the canonical display form and the only accepted serialization.
type Status string

const (
	StatusNew           Status = "New"
	StatusExclusiveLock Status = "Exclusive Lock"
	StatusFollowUp      Status = "Follow Up"
	StatusClosed        Status = "Closed"
	StatusUnreachable   Status = "Unreachable"
	StatusDoNotContact  Status = "Do Not Contact"
)

// Statuses returns every valid status in seeding order.
func Statuses() []Status {
	return []Status{
		StatusNew,
		StatusExclusiveLock,
		StatusFollowUp,
		StatusClosed,
		StatusUnreachable,
		StatusDoNotContact,
	}
}

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is a member of the closed enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusExclusiveLock, StatusFollowUp, StatusClosed, StatusUnreachable, StatusDoNotContact:
		return true
	}
	return false
}

// ParseStatus resolves a status name. Matching is exact and case sensitive:
// "exclusive_lock" or "EXCLUSIVE LOCK" are rejected, never normalized.
func ParseStatus(name string) (Status, error) {
	s := Status(name)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, name)
	}
	return s, nil
}
