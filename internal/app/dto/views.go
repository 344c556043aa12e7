package dto

import (
	"time"

	domainbookings "luxeory/internal/domain/bookings"
	domainreviews "luxeory/internal/domain/reviews"
	domainrooms "luxeory/internal/domain/rooms"
)

type Room struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Thumbnail   string  `json:"thumbnail"`
	Available   bool    `json:"available"`
	ReviewCount int64   `json:"reviewCount"`
}

func MapRoom(r *domainrooms.Room) Room {
	return Room{
		ID:          string(r.ID),
		Title:       r.Title,
		Price:       r.Price,
		Thumbnail:   r.Thumbnail,
		Available:   r.Available,
		ReviewCount: r.ReviewCount,
	}
}

func MapRooms(rooms []*domainrooms.Room) []Room {
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, MapRoom(r))
	}
	return out
}

type Booking struct {
	ID          string `json:"id"`
	RoomID      string `json:"roomId"`
	Email       string `json:"email"`
	BookingDate string `json:"bookingDate"`
}

func MapBooking(b *domainbookings.Booking) Booking {
	return Booking{
		ID:          string(b.ID),
		RoomID:      string(b.RoomID),
		Email:       b.Email,
		BookingDate: b.BookingDate.Format(domainbookings.DateLayout),
	}
}

// CustomerBooking is a booking enriched with a read-time snapshot of the
// referenced room's display fields. The snapshot fields stay absent when the
// room no longer exists; the booking itself is always returned.
type CustomerBooking struct {
	ID          string   `json:"id"`
	RoomID      string   `json:"roomId"`
	Email       string   `json:"email"`
	BookingDate string   `json:"bookingDate"`
	Title       string   `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

func MapCustomerBooking(b *domainbookings.Booking, room *domainrooms.Room) CustomerBooking {
	view := CustomerBooking{
		ID:          string(b.ID),
		RoomID:      string(b.RoomID),
		Email:       b.Email,
		BookingDate: b.BookingDate.Format(domainbookings.DateLayout),
	}
	if room != nil {
		price := room.Price
		view.Title = room.Title
		view.Price = &price
		view.Thumbnail = room.Thumbnail
	}
	return view
}

type Review struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"roomId"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
}

func MapReview(r *domainreviews.Review) Review {
	return Review{
		ID:        string(r.ID),
		RoomID:    string(r.RoomID),
		Email:     r.Email,
		Timestamp: r.Timestamp,
		Rating:    r.Rating,
		Comment:   r.Comment,
	}
}

func MapReviews(reviews []*domainreviews.Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, MapReview(r))
	}
	return out
}
