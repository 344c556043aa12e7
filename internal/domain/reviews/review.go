package reviews

import (
	"context"
	"errors"
	"strings"
	"time"

	"luxeory/internal/domain/rooms"
)

var (
	ErrInvalidRating = errors.New("reviews: rating must be between 1 and 5")
	ErrEmailRequired = errors.New("reviews: author email is required")
)

type ReviewID string

// Review is customer feedback tied to a room. Reviews are created only,
// never mutated or deleted; each submission increments the room's counter.
type Review struct {
	ID        ReviewID
	RoomID    rooms.RoomID
	Email     string
	Timestamp time.Time
	Rating    int
	Comment   string
}

type Repository interface {
	Insert(ctx context.Context, r *Review) (ReviewID, error)
	// List returns reviews sorted descending by timestamp, filtered by room
	// when roomID is non-empty.
	List(ctx context.Context, roomID rooms.RoomID) ([]*Review, error)
}

type SubmitParams struct {
	RoomID    rooms.RoomID
	Email     string
	Timestamp time.Time
	Rating    int
	Comment   string
	Now       time.Time
}

// Submit validates and builds an unsaved review. A zero timestamp defaults
// to the submission time.
func Submit(params SubmitParams) (*Review, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if params.Rating < 1 || params.Rating > 5 {
		return nil, ErrInvalidRating
	}
	ts := params.Timestamp
	if ts.IsZero() {
		ts = params.Now
		if ts.IsZero() {
			ts = time.Now()
		}
	}
	return &Review{
		RoomID:    params.RoomID,
		Email:     email,
		Timestamp: ts.UTC(),
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
	}, nil
}
