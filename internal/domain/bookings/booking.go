package bookings

import (
	"context"
	"errors"
	"strings"
	"time"

	"luxeory/internal/domain/rooms"
)

var (
	ErrNotFound      = errors.New("bookings: not found")
	ErrInvalidID     = errors.New("bookings: invalid booking id")
	ErrInvalidDate   = errors.New("bookings: booking date must be formatted as YYYY-MM-DD")
	ErrEmailRequired = errors.New("bookings: customer email is required")
)

// DateLayout is the civil-date format used for booking dates on the wire and
// in the store.
const DateLayout = "2006-01-02"

type BookingID string

// Booking reserves one room for one customer on one date. Its existence is
// what the room's available=false flag is supposed to reflect.
type Booking struct {
	ID          BookingID
	RoomID      rooms.RoomID
	Email       string
	BookingDate time.Time
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// Insert stores a new booking and returns the generated identifier.
	Insert(ctx context.Context, b *Booking) (BookingID, error)
	UpdateDate(ctx context.Context, id BookingID, date time.Time) error
	Delete(ctx context.Context, id BookingID) error
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)
	ExistsForRoom(ctx context.Context, roomID rooms.RoomID) (bool, error)
}

// ParseDate parses a YYYY-MM-DD civil date into a UTC midnight instant.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t.UTC(), nil
}

// New validates customer input and builds an unsaved booking. The identifier
// is assigned by the repository on insert.
func New(roomID rooms.RoomID, email, bookingDate string) (*Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	date, err := ParseDate(bookingDate)
	if err != nil {
		return nil, err
	}
	return &Booking{RoomID: roomID, Email: email, BookingDate: date}, nil
}
