package event

import "errors"

// Sentinel errors for registry operations. Both signal caller bugs and are
// never retried internally; Emit itself has no failure mode.
var (
	// ErrInvalidEventType indicates Subscribe was given a type outside the
	// canonical taxonomy.
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrSubscriptionNotFound indicates Unsubscribe was given an ID that
	// matches no live subscription (already removed or never existed).
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
