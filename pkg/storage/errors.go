package storage

import "errors"

// Each error kind below aborts the whole commit with no partial writes and is
// surfaced verbatim to the caller: every one of them means the caller's view
// of the marketplace is stale and must be refreshed.

// ErrGuardNotFound is returned when the assignment map no longer shows the
// offering user holding the shift an offer claims: the roster changed
// underneath the offer.
var ErrGuardNotFound = errors.New("assignment does not match the offered shift")

// ErrInvalidExchange is returned when a structural precondition is violated:
// wrong offer status, a user not in the interested set, or reverting a record
// that is not completed.
var ErrInvalidExchange = errors.New("exchange is not in a valid state for this operation")

// ErrExchangeUnavailable is returned when an offer lost the race to a
// concurrent match on the same slot. It is distinguished from
// ErrInvalidExchange so the caller can say "someone else took it".
var ErrExchangeUnavailable = errors.New("offer is no longer available")

// ErrUserHasGuard is returned when accepting a match would double-book the
// interested user at the slot through a second exchange.
var ErrUserHasGuard = errors.New("user already covers this slot through another exchange")

// ErrGuardAlreadyExchanged is returned when offer creation loses a uniqueness
// race: a pending offer for the same user and slot was committed concurrently.
var ErrGuardAlreadyExchanged = errors.New("a pending offer for this shift already exists")
