package models

// BookingState is a per-request query filter. It is derived from a
// caller-supplied string and never persisted. CURRENT, PAST and FUTURE
// classify bookings against wall-clock time at query time; WAITING and
// REJECTED match the stored status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// UnknownStateError reports a filter string that matches none of the
// six booking states. Matching is case-sensitive; an unknown value is
// an error, never a silent fallback to ALL.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return "Unknown state: " + e.State
}

// ParseBookingState converts a raw filter string into a BookingState.
func ParseBookingState(raw string) (BookingState, error) {
	switch BookingState(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(raw), nil
	}
	return "", &UnknownStateError{State: raw}
}
