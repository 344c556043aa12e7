// Package memory provides mutex-guarded in-memory repositories, used for
// local development (STORE_MODE=memory) and throughout the workflow tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domainbookings "luxeory/internal/domain/bookings"
	domainreviews "luxeory/internal/domain/reviews"
	domainrooms "luxeory/internal/domain/rooms"
)

type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[domainrooms.RoomID]*domainrooms.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{rooms: make(map[domainrooms.RoomID]*domainrooms.Room)}
}

// Seed installs a room, assigning an identifier when absent. Room creation
// belongs to catalog management, so only dev mode and tests use this.
func (r *RoomRepository) Seed(room *domainrooms.Room) domainrooms.RoomID {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room.ID == "" {
		room.ID = domainrooms.RoomID(uuid.NewString())
	}
	clone := *room
	r.rooms[room.ID] = &clone
	return room.ID
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, domainrooms.ErrNotFound
	}
	clone := *room
	return &clone, nil
}

func (r *RoomRepository) List(ctx context.Context, sortBy string) ([]*domainrooms.Room, error) {
	r.mu.RLock()
	rooms := make([]*domainrooms.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		clone := *room
		rooms = append(rooms, &clone)
	}
	r.mu.RUnlock()

	sort.Slice(rooms, func(i, j int) bool {
		switch sortBy {
		case "price":
			return rooms[i].Price > rooms[j].Price
		case "title":
			return rooms[i].Title > rooms[j].Title
		default:
			return rooms[i].ReviewCount > rooms[j].ReviewCount
		}
	})
	return rooms, nil
}

func (r *RoomRepository) SetAvailability(ctx context.Context, id domainrooms.RoomID, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return domainrooms.ErrNotFound
	}
	room.Available = available
	return nil
}

func (r *RoomRepository) IncrementReviewCount(ctx context.Context, id domainrooms.RoomID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return domainrooms.ErrNotFound
	}
	room.ReviewCount++
	return nil
}

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[domainbookings.BookingID]*domainbookings.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[domainbookings.BookingID]*domainbookings.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbookings.BookingID) (*domainbookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domainbookings.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbookings.Booking) (domainbookings.BookingID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := domainbookings.BookingID(uuid.NewString())
	clone := *b
	clone.ID = id
	r.bookings[id] = &clone
	return id, nil
}

func (r *BookingRepository) UpdateDate(ctx context.Context, id domainbookings.BookingID, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domainbookings.ErrNotFound
	}
	b.BookingDate = date
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbookings.BookingID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domainbookings.ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *BookingRepository) ListByEmail(ctx context.Context, email string) ([]*domainbookings.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbookings.Booking, 0)
	for _, b := range r.bookings {
		if b.Email == email {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.Before(out[j].BookingDate) })
	return out, nil
}

func (r *BookingRepository) ExistsForRoom(ctx context.Context, roomID domainrooms.RoomID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.RoomID == roomID {
			return true, nil
		}
	}
	return false, nil
}

type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []*domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Insert(ctx context.Context, review *domainreviews.Review) (domainreviews.ReviewID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := domainreviews.ReviewID(uuid.NewString())
	clone := *review
	clone.ID = id
	r.reviews = append(r.reviews, &clone)
	return id, nil
}

func (r *ReviewRepository) List(ctx context.Context, roomID domainrooms.RoomID) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreviews.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if roomID != "" && review.RoomID != roomID {
			continue
		}
		clone := *review
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
