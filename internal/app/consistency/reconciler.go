package consistency

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"luxeory/internal/app/events"
	domainbookings "luxeory/internal/domain/bookings"
	domainconsistency "luxeory/internal/domain/consistency"
	domainrooms "luxeory/internal/domain/rooms"
)

var ErrNotConfigured = errors.New("consistency: reconciler missing dependencies")

// Reconciler is the compensation side of the two-write design: because the
// request path never rolls back a committed first write, availability drift
// is corrected out of band. Each pass scans every room and realigns the
// available flag with the existence of an active booking. Review-counter
// drift is not touched; the counter is monotonic by contract.
type Reconciler struct {
	Rooms        domainrooms.Repository
	Bookings     domainbookings.Repository
	Events       *events.Publisher
	Logger       *slog.Logger
	Interval     time.Duration
	StoreTimeout time.Duration
}

func (r *Reconciler) Run(ctx context.Context) error {
	if r.Rooms == nil || r.Bookings == nil {
		return ErrNotConfigured
	}
	ticker := time.NewTicker(r.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.ReconcileOnce(ctx); err != nil {
				r.log().Warn("reconcile pass failed", "error", err)
			}
		}
	}
}

// ReconcileOnce runs a single scan and returns the number of corrected rooms.
func (r *Reconciler) ReconcileOnce(ctx context.Context) (int, error) {
	callCtx, cancel := r.storeCtx(ctx)
	rooms, err := r.Rooms.List(callCtx, "reviewCount")
	cancel()
	if err != nil {
		return 0, err
	}

	corrected := 0
	for _, room := range rooms {
		callCtx, cancel := r.storeCtx(ctx)
		active, err := r.Bookings.ExistsForRoom(callCtx, room.ID)
		cancel()
		if err != nil {
			r.log().Warn("booking existence check failed", "room_id", room.ID, "error", err)
			continue
		}
		want := !active
		if room.Available == want {
			continue
		}
		drift := domainconsistency.Drift{
			RoomID:           string(room.ID),
			Available:        room.Available,
			HasActiveBooking: active,
		}
		callCtx, cancel = r.storeCtx(ctx)
		err = r.Rooms.SetAvailability(callCtx, room.ID, want)
		cancel()
		if err != nil {
			r.log().Warn("drift correction failed", "room_id", room.ID, "error", err)
			continue
		}
		corrected++
		r.log().Warn("availability drift corrected",
			"room_id", drift.RoomID, "was_available", drift.Available, "has_active_booking", drift.HasActiveBooking)
		r.Events.Emit(ctx, events.ConsistencyReconciled, drift.RoomID, map[string]any{
			"roomId":           drift.RoomID,
			"wasAvailable":     drift.Available,
			"hasActiveBooking": drift.HasActiveBooking,
			"nowAvailable":     want,
		})
	}
	return corrected, nil
}

func (r *Reconciler) interval() time.Duration {
	if r.Interval <= 0 {
		return time.Minute
	}
	return r.Interval
}

func (r *Reconciler) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.StoreTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.StoreTimeout)
}

func (r *Reconciler) log() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
