package rooms

// Availability is the booking-facing state of a room. The model assumes at
// most one active booking per room at any time: Book rejects a second
// booking against an unavailable room, and Release returns to Available
// unconditionally, without recounting other bookings.
type Availability string

const (
	Available   Availability = "AVAILABLE"
	Unavailable Availability = "UNAVAILABLE"
)

func AvailabilityOf(r *Room) Availability {
	if r.Available {
		return Available
	}
	return Unavailable
}

// Book transitions Available -> Unavailable when a booking is created.
func (a Availability) Book() (Availability, error) {
	if a == Unavailable {
		return Unavailable, ErrRoomUnavailable
	}
	return Unavailable, nil
}

// Reassert is the reschedule transition: the room should already be
// Unavailable, but a drifted Available flag is re-asserted rather than
// rejected.
func (a Availability) Reassert() Availability {
	return Unavailable
}

// Release is the cancellation transition, unconditional by design.
func (a Availability) Release() Availability {
	return Available
}

// Flag maps the state onto the persisted boolean.
func (a Availability) Flag() bool {
	return a == Available
}
