package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"luxeory/internal/app/dto"
	"luxeory/internal/app/events"
	domainbookings "luxeory/internal/domain/bookings"
	"luxeory/internal/domain/consistency"
	domainrooms "luxeory/internal/domain/rooms"
)

// ErrNotOwner rejects a mutation by a customer other than the booking's owner.
var ErrNotOwner = errors.New("booking: booking does not belong to requesting customer")

// Workflow orchestrates the ordered two-write sequences that keep a room's
// availability flag in lockstep with its booking. The two writes are not
// atomic: validation happens before the first write, and a failure of the
// second write surfaces as consistency.PartialWriteError rather than being
// rolled back.
type Workflow struct {
	Rooms        domainrooms.Repository
	Bookings     domainbookings.Repository
	Events       *events.Publisher
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

// Create reserves a room for a date. Write order: room availability first,
// booking insert second. A room that already holds an active booking is
// rejected with rooms.ErrRoomUnavailable.
func (w *Workflow) Create(ctx context.Context, roomID, email, bookingDate string) (dto.Booking, error) {
	b, err := domainbookings.New(domainrooms.RoomID(roomID), email, bookingDate)
	if err != nil {
		return dto.Booking{}, err
	}

	callCtx, cancel := w.storeCtx(ctx)
	room, err := w.Rooms.ByID(callCtx, b.RoomID)
	cancel()
	if err != nil {
		return dto.Booking{}, err
	}
	next, err := domainrooms.AvailabilityOf(room).Book()
	if err != nil {
		return dto.Booking{}, err
	}

	callCtx, cancel = w.storeCtx(ctx)
	err = w.Rooms.SetAvailability(callCtx, room.ID, next.Flag())
	cancel()
	if err != nil {
		return dto.Booking{}, err
	}

	callCtx, cancel = w.storeCtx(ctx)
	id, err := w.Bookings.Insert(callCtx, b)
	cancel()
	if err != nil {
		return dto.Booking{}, w.partialWrite(ctx, &consistency.PartialWriteError{
			Op:        "booking.create",
			Committed: "room availability set to false",
			Failed:    "booking insert",
			RoomID:    string(room.ID),
			Err:       err,
		})
	}
	b.ID = id

	w.Events.Emit(ctx, events.BookingCreated, string(id), map[string]any{
		"bookingId":   string(id),
		"roomId":      string(room.ID),
		"email":       b.Email,
		"bookingDate": b.BookingDate.Format(domainbookings.DateLayout),
	})
	w.log().Info("booking created", "booking_id", id, "room_id", room.ID, "email", b.Email)
	return dto.MapBooking(b), nil
}

// Reschedule moves an existing booking to a new date. The supplied roomId is
// authoritative and its availability is re-asserted false, tolerant of drift;
// only the booking date changes on the booking document.
func (w *Workflow) Reschedule(ctx context.Context, bookingID, roomID, newDate, requestedBy string) (dto.Booking, error) {
	date, err := domainbookings.ParseDate(newDate)
	if err != nil {
		return dto.Booking{}, err
	}

	callCtx, cancel := w.storeCtx(ctx)
	b, err := w.Bookings.ByID(callCtx, domainbookings.BookingID(bookingID))
	cancel()
	if err != nil {
		return dto.Booking{}, err
	}
	if requestedBy != "" && b.Email != requestedBy {
		return dto.Booking{}, ErrNotOwner
	}

	callCtx, cancel = w.storeCtx(ctx)
	room, err := w.Rooms.ByID(callCtx, domainrooms.RoomID(roomID))
	cancel()
	if err != nil {
		return dto.Booking{}, err
	}

	next := domainrooms.AvailabilityOf(room).Reassert()
	callCtx, cancel = w.storeCtx(ctx)
	err = w.Rooms.SetAvailability(callCtx, room.ID, next.Flag())
	cancel()
	if err != nil {
		return dto.Booking{}, err
	}

	callCtx, cancel = w.storeCtx(ctx)
	err = w.Bookings.UpdateDate(callCtx, b.ID, date)
	cancel()
	if err != nil {
		return dto.Booking{}, w.partialWrite(ctx, &consistency.PartialWriteError{
			Op:        "booking.reschedule",
			Committed: "room availability re-asserted false",
			Failed:    "booking date update",
			RoomID:    string(room.ID),
			RecordID:  string(b.ID),
			Err:       err,
		})
	}
	b.BookingDate = date

	w.Events.Emit(ctx, events.BookingRescheduled, string(b.ID), map[string]any{
		"bookingId":   string(b.ID),
		"roomId":      string(room.ID),
		"bookingDate": date.Format(domainbookings.DateLayout),
	})
	w.log().Info("booking rescheduled", "booking_id", b.ID, "room_id", room.ID, "new_date", date.Format(domainbookings.DateLayout))
	return dto.MapBooking(b), nil
}

// Cancel deletes a booking. Write order: the room is released first
// (unconditionally, per the single-active-booking assumption), the booking
// document is deleted second.
func (w *Workflow) Cancel(ctx context.Context, bookingID, roomID, requestedBy string) error {
	callCtx, cancel := w.storeCtx(ctx)
	b, err := w.Bookings.ByID(callCtx, domainbookings.BookingID(bookingID))
	cancel()
	if err != nil {
		return err
	}
	if requestedBy != "" && b.Email != requestedBy {
		return ErrNotOwner
	}

	callCtx, cancel = w.storeCtx(ctx)
	room, err := w.Rooms.ByID(callCtx, domainrooms.RoomID(roomID))
	cancel()
	if err != nil {
		return err
	}

	next := domainrooms.AvailabilityOf(room).Release()
	callCtx, cancel = w.storeCtx(ctx)
	err = w.Rooms.SetAvailability(callCtx, room.ID, next.Flag())
	cancel()
	if err != nil {
		return err
	}

	callCtx, cancel = w.storeCtx(ctx)
	err = w.Bookings.Delete(callCtx, b.ID)
	cancel()
	if err != nil {
		return w.partialWrite(ctx, &consistency.PartialWriteError{
			Op:        "booking.cancel",
			Committed: "room availability set to true",
			Failed:    "booking delete",
			RoomID:    string(room.ID),
			RecordID:  string(b.ID),
			Err:       err,
		})
	}

	w.Events.Emit(ctx, events.BookingCancelled, string(b.ID), map[string]any{
		"bookingId": string(b.ID),
		"roomId":    string(room.ID),
	})
	w.log().Info("booking cancelled", "booking_id", b.ID, "room_id", room.ID)
	return nil
}

func (w *Workflow) partialWrite(ctx context.Context, pw *consistency.PartialWriteError) error {
	w.log().Error("partial write", "op", pw.Op, "committed", pw.Committed, "failed", pw.Failed,
		"room_id", pw.RoomID, "record_id", pw.RecordID, "error", pw.Err)
	w.Events.Emit(ctx, events.ConsistencyPartial, pw.RoomID, map[string]any{
		"op":        pw.Op,
		"committed": pw.Committed,
		"failed":    pw.Failed,
		"roomId":    pw.RoomID,
		"recordId":  pw.RecordID,
	})
	return pw
}

func (w *Workflow) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, w.StoreTimeout)
}

func (w *Workflow) log() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}
