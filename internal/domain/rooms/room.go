package rooms

import (
	"context"
	"errors"
)

var (
	ErrNotFound        = errors.New("rooms: not found")
	ErrInvalidID       = errors.New("rooms: invalid room id")
	ErrRoomUnavailable = errors.New("rooms: room already has an active booking")
)

type RoomID string

// Room is a bookable listing. Display attributes (title, price, thumbnail)
// are owned by catalog management; this engine only reads them and mutates
// Available and ReviewCount.
type Room struct {
	ID          RoomID
	Title       string
	Price       float64
	Thumbnail   string
	Available   bool
	ReviewCount int64
}

type Repository interface {
	ByID(ctx context.Context, id RoomID) (*Room, error)
	// List returns all rooms sorted descending by sortBy. Callers are
	// responsible for passing a whitelisted field name.
	List(ctx context.Context, sortBy string) ([]*Room, error)
	SetAvailability(ctx context.Context, id RoomID, available bool) error
	IncrementReviewCount(ctx context.Context, id RoomID) error
}
