package reviews

import (
	"context"
	"log/slog"
	"time"

	"luxeory/internal/app/dto"
	"luxeory/internal/app/events"
	"luxeory/internal/domain/consistency"
	domainreviews "luxeory/internal/domain/reviews"
	domainrooms "luxeory/internal/domain/rooms"
)

// Service owns review submission and its side effect on the room's review
// counter. The counter increment commits before the review insert, the same
// ordered two-write shape as the booking workflow; a failed insert surfaces
// a PartialWriteError naming the room whose counter already moved.
type Service struct {
	Rooms        domainrooms.Repository
	Reviews      domainreviews.Repository
	Events       *events.Publisher
	StoreTimeout time.Duration
	Logger       *slog.Logger
}

type SubmitInput struct {
	RoomID    string
	Email     string
	Timestamp time.Time
	Rating    int
	Comment   string
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (dto.Review, error) {
	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		RoomID:    domainrooms.RoomID(in.RoomID),
		Email:     in.Email,
		Timestamp: in.Timestamp,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		return dto.Review{}, err
	}

	callCtx, cancel := s.storeCtx(ctx)
	_, err = s.Rooms.ByID(callCtx, review.RoomID)
	cancel()
	if err != nil {
		return dto.Review{}, err
	}

	callCtx, cancel = s.storeCtx(ctx)
	err = s.Rooms.IncrementReviewCount(callCtx, review.RoomID)
	cancel()
	if err != nil {
		return dto.Review{}, err
	}

	callCtx, cancel = s.storeCtx(ctx)
	id, err := s.Reviews.Insert(callCtx, review)
	cancel()
	if err != nil {
		pw := &consistency.PartialWriteError{
			Op:        "review.submit",
			Committed: "room review counter incremented",
			Failed:    "review insert",
			RoomID:    string(review.RoomID),
			Err:       err,
		}
		s.log().Error("partial write", "op", pw.Op, "committed", pw.Committed, "failed", pw.Failed,
			"room_id", pw.RoomID, "error", pw.Err)
		s.Events.Emit(ctx, events.ConsistencyPartial, pw.RoomID, map[string]any{
			"op":        pw.Op,
			"committed": pw.Committed,
			"failed":    pw.Failed,
			"roomId":    pw.RoomID,
		})
		return dto.Review{}, pw
	}
	review.ID = id

	s.Events.Emit(ctx, events.ReviewSubmitted, string(id), map[string]any{
		"reviewId": string(id),
		"roomId":   string(review.RoomID),
		"email":    review.Email,
		"rating":   review.Rating,
	})
	s.log().Info("review submitted", "review_id", id, "room_id", review.RoomID, "rating", review.Rating)
	return dto.MapReview(review), nil
}

// List returns reviews sorted descending by timestamp, optionally filtered
// by room. An unknown room yields an empty list, not an error; the listing
// is query shaping, not part of the consistency engine.
func (s *Service) List(ctx context.Context, roomID string) ([]dto.Review, error) {
	callCtx, cancel := s.storeCtx(ctx)
	defer cancel()
	reviews, err := s.Reviews.List(callCtx, domainrooms.RoomID(roomID))
	if err != nil {
		return nil, err
	}
	return dto.MapReviews(reviews), nil
}

func (s *Service) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.StoreTimeout)
}

func (s *Service) log() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
