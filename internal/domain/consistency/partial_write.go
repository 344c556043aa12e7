package consistency

import "fmt"

// PartialWriteError reports a two-write sequence whose first write committed
// and whose second failed. The affected identifiers and both write identities
// are carried so an operator (or the reconciler) can run a reconciliation
// pass; the engine itself never rolls the first write back.
type PartialWriteError struct {
	// Op names the logical operation, e.g. "booking.create".
	Op string
	// Committed describes the write that succeeded.
	Committed string
	// Failed describes the write that did not.
	Failed string
	// RoomID is the room whose document was already mutated.
	RoomID string
	// RecordID is the booking or review involved, when one exists.
	RecordID string
	Err      error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("%s: partial write (committed: %s; failed: %s; room %s): %v",
		e.Op, e.Committed, e.Failed, e.RoomID, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// Drift describes a room whose availability flag disagrees with the
// existence of an active booking.
type Drift struct {
	RoomID           string
	Available        bool
	HasActiveBooking bool
}
