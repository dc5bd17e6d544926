package models

import "time"

// Booking reserves an item for the half-open window [Start, End).
// ItemName is denormalized from the item at creation time so lists and
// exports do not need an extra lookup.
type Booking struct {
	ID        int64         `json:"id"`
	ItemID    int64         `json:"item_id"`
	ItemName  string        `json:"item_name,omitempty"`
	BookerID  int64         `json:"booker_id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// InProgress reports whether the booking window contains now.
// The window is half-open: a booking is in progress at its exact start
// and no longer in progress at its exact end.
func (b *Booking) InProgress(now time.Time) bool {
	return !b.Start.After(now) && now.Before(b.End)
}

// Finished reports whether the booking window ended strictly before now.
func (b *Booking) Finished(now time.Time) bool {
	return b.End.Before(now)
}

// Upcoming reports whether the booking window starts strictly after now.
func (b *Booking) Upcoming(now time.Time) bool {
	return b.Start.After(now)
}
