package booking

import (
	"context"
	"errors"
	"strings"

	"luxeory/internal/app/dto"
	domainrooms "luxeory/internal/domain/rooms"
)

// ListByCustomer returns a customer's bookings, each enriched with a
// read-time snapshot of the referenced room's title, price and thumbnail.
// A booking whose room has vanished is still returned, without the snapshot
// fields; the customer's history never loses entries over a missing room.
// Store failures on the lookup are propagated, never downgraded to a
// snapshot-less entry.
func (w *Workflow) ListByCustomer(ctx context.Context, email string) ([]dto.CustomerBooking, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	callCtx, cancel := w.storeCtx(ctx)
	bookings, err := w.Bookings.ListByEmail(callCtx, email)
	cancel()
	if err != nil {
		return nil, err
	}

	roomCache := make(map[domainrooms.RoomID]*domainrooms.Room)
	items := make([]dto.CustomerBooking, 0, len(bookings))
	for _, b := range bookings {
		room, err := w.loadRoom(ctx, b.RoomID, roomCache)
		if err != nil && !errors.Is(err, domainrooms.ErrNotFound) && !errors.Is(err, domainrooms.ErrInvalidID) {
			return nil, err
		}
		items = append(items, dto.MapCustomerBooking(b, room))
	}
	return items, nil
}

func (w *Workflow) loadRoom(ctx context.Context, id domainrooms.RoomID, cache map[domainrooms.RoomID]*domainrooms.Room) (*domainrooms.Room, error) {
	if room, ok := cache[id]; ok {
		return room, nil
	}
	callCtx, cancel := w.storeCtx(ctx)
	room, err := w.Rooms.ByID(callCtx, id)
	cancel()
	if err != nil {
		return nil, err
	}
	cache[id] = room
	return room, nil
}
